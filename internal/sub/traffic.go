package sub

import (
	"net/url"

	"github.com/xiaobei/subhub/internal/storage"
	"github.com/xiaobei/subhub/pkg/utils"
)

// trafficSentinel is the address part of the decorative quota node. It
// carries no real routing information; clients only render its name.
const trafficSentinel = "ss://YWVzLTI1Ni1nY206dHJhZmZpYw==@127.0.0.1:80#"

// TotalRemaining sums the remaining traffic quota across enabled entries
// with a known total.
func TotalRemaining(entries []storage.Subscription) int64 {
	var total int64
	for _, entry := range entries {
		if entry.Enabled {
			total += entry.RemainingBytes()
		}
	}
	return total
}

// TrafficPlaceholder synthesizes a node whose display name embeds the
// remaining quota as a human-readable byte quantity. Returns "" when there
// is nothing to report.
func TrafficPlaceholder(remaining int64) string {
	if remaining <= 0 {
		return ""
	}
	name := "剩余流量：" + utils.FormatBytes(remaining)
	return trafficSentinel + url.PathEscape(name)
}
