package sub

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/xiaobei/subhub/internal/storage"
)

// CallbackParam is the query parameter carrying the derived callback token.
// Any request presenting this parameter is treated as machine-originated.
const CallbackParam = "callback_token"

// TokenSource derives the process-wide callback token from the configured
// secrets. Derivation is pure, so the result is memoized until the secret
// material changes.
type TokenSource struct {
	mu       sync.Mutex
	material string
	token    string
}

// Token returns the callback token for the current secrets.
func (ts *TokenSource) Token(settings *storage.Settings) string {
	material := settings.MyToken + ":" + settings.ProfileToken

	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.material != material {
		sum := sha256.Sum256([]byte("subhub/callback:" + material))
		ts.token = hex.EncodeToString(sum[:])[:32]
		ts.material = material
	}
	return ts.token
}

// BuildCallbackURL constructs the self-referencing URL the external
// converter fetches the composed node list from. It reuses the original
// token (and profile identifier), pins target=base64 and authenticates the
// fetch-back with the derived callback token.
func BuildCallbackURL(scheme, host, token, profileID, callbackToken string) string {
	path := "/sub/" + url.PathEscape(token)
	if profileID != "" {
		path += "/" + url.PathEscape(profileID)
	}
	query := url.Values{}
	query.Set("target", FormatBase64)
	query.Set(CallbackParam, callbackToken)
	return fmt.Sprintf("%s://%s%s?%s", scheme, host, path, query.Encode())
}

// configFormats are the converter targets that accept a remote config.
var configFormats = map[string]bool{
	FormatClash: true,
	FormatLoon:  true,
	FormatSurge: true,
}

// ConverterURL builds the outbound request to the external converter. The
// config parameter only applies to clash/loon/surge targets with a
// non-blank config string; new_name is always requested.
func ConverterURL(backend, target, callbackURL, config string) string {
	base := backend
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	query := url.Values{}
	query.Set("target", target)
	query.Set("url", callbackURL)
	query.Set("new_name", "true")
	if configFormats[target] && strings.TrimSpace(config) != "" {
		query.Set("config", config)
	}
	return base + "/sub?" + query.Encode()
}

// FetchConverted performs the single blocking converter fetch. There is no
// retry and no partial response: a transport error or non-2xx status turns
// into an upstream failure with the detail embedded for diagnostics.
func FetchConverted(client *http.Client, converterURL string) (int, []byte, error) {
	resp, err := client.Get(converterURL)
	if err != nil {
		return 0, nil, UpstreamFailure(fmt.Sprintf("converter request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, UpstreamFailure(fmt.Sprintf("failed to read converter response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, nil, UpstreamFailure(fmt.Sprintf("converter returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	return resp.StatusCode, body, nil
}
