package sub

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/xiaobei/subhub/internal/storage"
)

func TestTokenSource(t *testing.T) {
	settings := &storage.Settings{MyToken: "a", ProfileToken: "b"}

	var ts TokenSource
	first := ts.Token(settings)
	if len(first) != 32 {
		t.Fatalf("Token() length = %d, want 32", len(first))
	}
	if second := ts.Token(settings); second != first {
		t.Fatalf("Token() not stable: %q then %q", first, second)
	}

	// A fresh source over the same secrets derives the same token.
	var other TokenSource
	if got := other.Token(settings); got != first {
		t.Fatalf("Token() = %q from fresh source, want %q", got, first)
	}

	// Changing secret material changes the token.
	changed := &storage.Settings{MyToken: "a", ProfileToken: "c"}
	if got := ts.Token(changed); got == first {
		t.Fatalf("Token() unchanged after secret rotation")
	}
}

func TestBuildCallbackURL(t *testing.T) {
	raw := BuildCallbackURL("https", "example.com:8443", "profiles", "family", "cbtoken123")

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("BuildCallbackURL() produced unparseable URL: %v", err)
	}
	if u.Scheme != "https" || u.Host != "example.com:8443" {
		t.Fatalf("BuildCallbackURL() origin = %s://%s, want https://example.com:8443", u.Scheme, u.Host)
	}
	if u.Path != "/sub/profiles/family" {
		t.Fatalf("BuildCallbackURL() path = %q, want /sub/profiles/family", u.Path)
	}
	query := u.Query()
	if query.Get("target") != FormatBase64 {
		t.Fatalf("BuildCallbackURL() target = %q, want base64", query.Get("target"))
	}
	if query.Get(CallbackParam) != "cbtoken123" {
		t.Fatalf("BuildCallbackURL() callback token = %q, want cbtoken123", query.Get(CallbackParam))
	}

	// Without a profile the path stays two segments deep.
	raw = BuildCallbackURL("http", "localhost:9090", "auto", "", "cb")
	u, err = url.Parse(raw)
	if err != nil {
		t.Fatalf("BuildCallbackURL() produced unparseable URL: %v", err)
	}
	if u.Path != "/sub/auto" {
		t.Fatalf("BuildCallbackURL() path = %q, want /sub/auto", u.Path)
	}
}

func TestConverterURL(t *testing.T) {
	callback := "https://example.com/sub/auto?callback_token=cb&target=base64"
	config := "https://example.com/rules.ini"

	tests := []struct {
		name       string
		backend    string
		target     string
		config     string
		wantPrefix string
		wantConfig bool
	}{
		{
			name:       "bare host gets https",
			backend:    "sub.example.com",
			target:     FormatClash,
			config:     config,
			wantPrefix: "https://sub.example.com/sub?",
			wantConfig: true,
		},
		{
			name:       "explicit scheme passes through",
			backend:    "http://127.0.0.1:25500",
			target:     FormatClash,
			config:     config,
			wantPrefix: "http://127.0.0.1:25500/sub?",
			wantConfig: true,
		},
		{
			name:       "singbox target drops config",
			backend:    "sub.example.com",
			target:     FormatSingbox,
			config:     config,
			wantPrefix: "https://sub.example.com/sub?",
			wantConfig: false,
		},
		{
			name:       "blank config omitted for clash",
			backend:    "sub.example.com",
			target:     FormatClash,
			config:     "  ",
			wantPrefix: "https://sub.example.com/sub?",
			wantConfig: false,
		},
		{
			name:       "loon target keeps config",
			backend:    "sub.example.com",
			target:     FormatLoon,
			config:     config,
			wantPrefix: "https://sub.example.com/sub?",
			wantConfig: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := ConverterURL(tt.backend, tt.target, callback, tt.config)
			if !strings.HasPrefix(raw, tt.wantPrefix) {
				t.Fatalf("ConverterURL() = %q, want prefix %q", raw, tt.wantPrefix)
			}

			u, err := url.Parse(raw)
			if err != nil {
				t.Fatalf("ConverterURL() produced unparseable URL: %v", err)
			}
			query := u.Query()
			if query.Get("target") != tt.target {
				t.Fatalf("target = %q, want %q", query.Get("target"), tt.target)
			}
			if query.Get("url") != callback {
				t.Fatalf("url = %q, want callback URL round-tripped", query.Get("url"))
			}
			if query.Get("new_name") != "true" {
				t.Fatalf("new_name = %q, want true", query.Get("new_name"))
			}
			if gotConfig := query.Get("config") != ""; gotConfig != tt.wantConfig {
				t.Fatalf("config present = %v, want %v", gotConfig, tt.wantConfig)
			}
		})
	}
}

func TestFetchConverted(t *testing.T) {
	t.Run("2xx passes body and status through", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("converted payload"))
		}))
		defer srv.Close()

		status, body, err := FetchConverted(srv.Client(), srv.URL)
		if err != nil {
			t.Fatalf("FetchConverted() error = %v", err)
		}
		if status != http.StatusCreated {
			t.Fatalf("FetchConverted() status = %d, want 201", status)
		}
		if string(body) != "converted payload" {
			t.Fatalf("FetchConverted() body = %q", body)
		}
	})

	t.Run("non-2xx becomes upstream failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad subscription", http.StatusBadRequest)
		}))
		defer srv.Close()

		_, _, err := FetchConverted(srv.Client(), srv.URL)
		if err == nil {
			t.Fatalf("FetchConverted() error = nil, want upstream failure")
		}
		if got := StatusOf(err); got != http.StatusBadGateway {
			t.Fatalf("StatusOf(err) = %d, want 502", got)
		}
		if !strings.Contains(err.Error(), "bad subscription") {
			t.Fatalf("error %q does not carry upstream detail", err)
		}
	})

	t.Run("transport error becomes upstream failure", func(t *testing.T) {
		_, _, err := FetchConverted(&http.Client{}, "http://127.0.0.1:1/sub")
		if err == nil {
			t.Fatalf("FetchConverted() error = nil, want upstream failure")
		}
		if got := StatusOf(err); got != http.StatusBadGateway {
			t.Fatalf("StatusOf(err) = %d, want 502", got)
		}
	})
}
