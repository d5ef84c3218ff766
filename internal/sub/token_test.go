package sub

import (
	"net/url"
	"testing"
)

func TestResolveToken(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		query       string
		wantToken   string
		wantProfile string
	}{
		{
			name:      "token in first path segment",
			path:      "/sub/auto",
			wantToken: "auto",
		},
		{
			name:        "token and profile segments",
			path:        "/sub/profiles/family",
			wantToken:   "profiles",
			wantProfile: "family",
		},
		{
			name:        "trailing slash ignored",
			path:        "/sub/profiles/family/",
			wantToken:   "profiles",
			wantProfile: "family",
		},
		{
			name:      "bare path falls back to query",
			path:      "/sub",
			query:     "token=auto",
			wantToken: "auto",
		},
		{
			name:      "path token wins over query token",
			path:      "/sub/auto",
			query:     "token=other",
			wantToken: "auto",
		},
		{
			name: "no token anywhere",
			path: "/sub",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery(%q) failed: %v", tt.query, err)
			}
			token, profileID := ResolveToken(tt.path, query)
			if token != tt.wantToken || profileID != tt.wantProfile {
				t.Fatalf("ResolveToken(%q) = (%q, %q), want (%q, %q)",
					tt.path, token, profileID, tt.wantToken, tt.wantProfile)
			}
		})
	}
}
