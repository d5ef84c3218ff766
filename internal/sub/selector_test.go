package sub

import (
	"strings"
	"testing"

	"github.com/xiaobei/subhub/internal/storage"
)

func TestExpiredPlaceholders(t *testing.T) {
	nodes := ExpiredPlaceholders()
	if len(nodes) != 4 {
		t.Fatalf("ExpiredPlaceholders() returned %d nodes, want 4", len(nodes))
	}
	for _, node := range nodes {
		if !strings.HasPrefix(node, "ss://") {
			t.Fatalf("placeholder %q is not an ss:// URI", node)
		}
	}

	// Mutating the returned slice must not leak into later calls.
	nodes[0] = "tampered"
	if got := ExpiredPlaceholders()[0]; got == "tampered" {
		t.Fatalf("ExpiredPlaceholders() shares backing storage with callers")
	}

	text := ExpiredText()
	if !strings.HasSuffix(text, "\n") {
		t.Fatalf("ExpiredText() missing trailing newline")
	}
	if got := len(strings.Split(strings.TrimSuffix(text, "\n"), "\n")); got != 4 {
		t.Fatalf("ExpiredText() has %d lines, want 4", got)
	}
}

func TestSelect(t *testing.T) {
	settings := storage.DefaultSettings()
	settings.SubConverter = "sub.example.com"
	settings.SubConfig = "https://example.com/global.ini"

	entries := []storage.Subscription{
		{ID: "r1", Name: "Remote 1", URL: "https://one.example.com/sub", Enabled: true},
		{ID: "r2", Name: "Remote 2", URL: "https://two.example.com/sub", Enabled: true},
		{ID: "r3", Name: "Remote off", URL: "https://three.example.com/sub", Enabled: false},
		{ID: "m1", Name: "Manual 1", URL: "vless://deadbeef@1.2.3.4:443#m1", Enabled: true},
		{ID: "m2", Name: "Manual 2", URL: "trojan://cafebabe@5.6.7.8:443#m2", Enabled: true},
	}

	t.Run("direct mode selects all enabled entries", func(t *testing.T) {
		sel, err := Select(&Access{Token: "x"}, entries, settings)
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if len(sel.Entries) != 4 {
			t.Fatalf("Select() picked %d entries, want 4", len(sel.Entries))
		}
		if sel.SubConverter != "sub.example.com" {
			t.Fatalf("Select() backend = %q, want settings backend", sel.SubConverter)
		}
	})

	t.Run("profile mode filters by membership", func(t *testing.T) {
		profile := &storage.Profile{
			ID:            "p1",
			Enabled:       true,
			Subscriptions: []string{"r2"},
			ManualNodes:   []string{"m1"},
		}
		sel, err := Select(&Access{Token: "x", Profile: profile}, entries, settings)
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if len(sel.Entries) != 2 {
			t.Fatalf("Select() picked %d entries, want 2", len(sel.Entries))
		}
		if sel.Entries[0].ID != "r2" || sel.Entries[1].ID != "m1" {
			t.Fatalf("Select() picked %q and %q, want r2 and m1", sel.Entries[0].ID, sel.Entries[1].ID)
		}
	})

	t.Run("profile converter override wins", func(t *testing.T) {
		profile := &storage.Profile{
			ID:           "p1",
			Enabled:      true,
			SubConverter: "other.example.com",
			SubConfig:    "https://example.com/profile.ini",
		}
		sel, err := Select(&Access{Token: "x", Profile: profile}, entries, settings)
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if sel.SubConverter != "other.example.com" {
			t.Fatalf("Select() backend = %q, want profile override", sel.SubConverter)
		}
		if sel.SubConfig != "https://example.com/profile.ini" {
			t.Fatalf("Select() config = %q, want profile override", sel.SubConfig)
		}
	})

	t.Run("blank profile override keeps settings backend", func(t *testing.T) {
		profile := &storage.Profile{ID: "p1", Enabled: true, SubConverter: "  "}
		sel, err := Select(&Access{Token: "x", Profile: profile}, entries, settings)
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if sel.SubConverter != "sub.example.com" {
			t.Fatalf("Select() backend = %q, want settings backend", sel.SubConverter)
		}
	})

	t.Run("expired access yields no entries", func(t *testing.T) {
		profile := &storage.Profile{ID: "p1", Enabled: true, Subscriptions: []string{"r1"}}
		sel, err := Select(&Access{Token: "x", Profile: profile, Expired: true}, entries, settings)
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if !sel.Expired {
			t.Fatalf("Select() did not mark selection expired")
		}
		if len(sel.Entries) != 0 {
			t.Fatalf("Select() picked %d entries for expired access, want 0", len(sel.Entries))
		}
	})

	t.Run("blank backend fails", func(t *testing.T) {
		blank := storage.DefaultSettings()
		blank.SubConverter = ""
		_, err := Select(&Access{Token: "x"}, entries, blank)
		if err == nil {
			t.Fatalf("Select() error = nil, want unconfigured")
		}
		if got := StatusOf(err); got != 500 {
			t.Fatalf("StatusOf(err) = %d, want 500", got)
		}
	})
}
