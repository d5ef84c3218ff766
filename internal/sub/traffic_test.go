package sub

import (
	"net/url"
	"strings"
	"testing"

	"github.com/xiaobei/subhub/internal/storage"
)

func TestTotalRemaining(t *testing.T) {
	entries := []storage.Subscription{
		{ID: "a", Enabled: true, Total: 100, Upload: 10, Download: 20},
		{ID: "b", Enabled: true, Total: 50, Upload: 40, Download: 40}, // overdrawn, clamps to 0
		{ID: "c", Enabled: false, Total: 1000},
		{ID: "d", Enabled: true}, // no known total
	}

	if got := TotalRemaining(entries); got != 70 {
		t.Fatalf("TotalRemaining() = %d, want 70", got)
	}
}

func TestTrafficPlaceholder(t *testing.T) {
	if got := TrafficPlaceholder(0); got != "" {
		t.Fatalf("TrafficPlaceholder(0) = %q, want empty", got)
	}
	if got := TrafficPlaceholder(-5); got != "" {
		t.Fatalf("TrafficPlaceholder(-5) = %q, want empty", got)
	}

	node := TrafficPlaceholder(5 * 1024 * 1024 * 1024)
	if !strings.HasPrefix(node, "ss://") {
		t.Fatalf("TrafficPlaceholder() = %q, not an ss:// URI", node)
	}
	idx := strings.Index(node, "#")
	if idx < 0 {
		t.Fatalf("TrafficPlaceholder() = %q, missing display name", node)
	}
	name, err := url.PathUnescape(node[idx+1:])
	if err != nil {
		t.Fatalf("display name not percent-encoded: %v", err)
	}
	if name != "剩余流量：5.00 GB" {
		t.Fatalf("display name = %q, want 剩余流量：5.00 GB", name)
	}
}
