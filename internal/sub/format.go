package sub

import (
	"net/url"
	"strings"
)

// Output formats understood by the pipeline. Everything that is not base64
// is produced by the external converter.
const (
	FormatBase64  = "base64"
	FormatClash   = "clash"
	FormatSingbox = "singbox"
	FormatSurge   = "surge"
	FormatLoon    = "loon"
	FormatQuanX   = "quanx"
)

// formatFlags are the bare query flags recognized as format selectors.
// v2ray and trojan clients consume plain base64 lists.
var formatFlags = []struct {
	flag   string
	format string
}{
	{"clash", FormatClash},
	{"singbox", FormatSingbox},
	{"surge", FormatSurge},
	{"loon", FormatLoon},
	{"base64", FormatBase64},
	{"v2ray", FormatBase64},
	{"trojan", FormatBase64},
}

// uaKeywords maps User-Agent substrings to formats. Order matters: more
// specific patterns sit before broader ones (clash.meta variants before
// plain clash), first match wins.
var uaKeywords = []struct {
	pattern string
	format  string
}{
	{"flyclash", FormatClash},
	{"mihomo", FormatClash},
	{"clash.meta", FormatClash},
	{"clash-verge", FormatClash},
	{"meta", FormatClash},
	{"stash", FormatClash},
	{"nekoray", FormatClash},
	{"sing-box", FormatSingbox},
	{"shadowrocket", FormatBase64},
	{"v2rayn", FormatBase64},
	{"v2rayng", FormatBase64},
	{"surge", FormatSurge},
	{"loon", FormatLoon},
	{"quantumult%20x", FormatQuanX},
	{"quantumult", FormatQuanX},
	{"clash", FormatClash},
}

// NegotiateFormat resolves the output format. Precedence: explicit target
// parameter, bare format flag, User-Agent keyword, base64.
func NegotiateFormat(query url.Values, userAgent string) string {
	if target := query.Get("target"); target != "" {
		return target
	}

	for _, f := range formatFlags {
		if query.Has(f.flag) {
			return f.format
		}
	}

	ua := strings.ToLower(userAgent)
	if ua != "" {
		for _, kw := range uaKeywords {
			if strings.Contains(ua, kw.pattern) {
				return kw.format
			}
		}
	}

	return FormatBase64
}
