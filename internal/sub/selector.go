package sub

import (
	"strings"

	"github.com/xiaobei/subhub/internal/storage"
)

// expiredPlaceholders is the fixed node set substituted for expired
// profiles. The entries point at a sentinel address and exist only to show
// an expiry notice in client apps; they are never filtered or mixed with
// real entries.
var expiredPlaceholders = [4]string{
	"ss://YWVzLTI1Ni1nY206ZXhwaXJlZA==@127.0.0.1:80#%E8%AE%A2%E9%98%85%E5%B7%B2%E8%BF%87%E6%9C%9F",
	"ss://YWVzLTI1Ni1nY206ZXhwaXJlZA==@127.0.0.1:80#%E8%AF%B7%E8%81%94%E7%B3%BB%E6%9C%8D%E5%8A%A1%E5%95%86%E7%BB%AD%E8%B4%B9",
	"ss://YWVzLTI1Ni1nY206ZXhwaXJlZA==@127.0.0.1:80#Profile%20expired",
	"ss://YWVzLTI1Ni1nY206ZXhwaXJlZA==@127.0.0.1:80#Renew%20to%20restore%20nodes",
}

// ExpiredPlaceholders returns a copy of the placeholder node set.
func ExpiredPlaceholders() []string {
	nodes := make([]string, len(expiredPlaceholders))
	copy(nodes[:], expiredPlaceholders[:])
	return nodes
}

// ExpiredText is the full expired-profile node list, one URI per line with
// a trailing newline.
func ExpiredText() string {
	return strings.Join(expiredPlaceholders[:], "\n") + "\n"
}

// Selection is the effective node set plus the converter backend resolved
// for the request.
type Selection struct {
	Entries      []storage.Subscription
	Expired      bool
	SubConverter string
	SubConfig    string
}

// Select computes the effective entry set for an authorized request and
// resolves the converter backend: a profile's non-blank override wins, then
// the global settings values. A blank backend is a hard failure since no
// converted output can be produced without one.
func Select(access *Access, entries []storage.Subscription, settings *storage.Settings) (*Selection, error) {
	sel := &Selection{
		SubConverter: settings.SubConverter,
		SubConfig:    settings.SubConfig,
	}

	if p := access.Profile; p != nil {
		if strings.TrimSpace(p.SubConverter) != "" {
			sel.SubConverter = p.SubConverter
		}
		if strings.TrimSpace(p.SubConfig) != "" {
			sel.SubConfig = p.SubConfig
		}
	}

	if strings.TrimSpace(sel.SubConverter) == "" {
		return nil, Unconfigured("no converter backend configured")
	}

	if access.Expired {
		sel.Expired = true
		return sel, nil
	}

	for _, entry := range entries {
		if !entry.Enabled {
			continue
		}
		if p := access.Profile; p != nil {
			if entry.IsRemote() {
				if !p.HasSubscription(entry.ID) {
					continue
				}
			} else if !p.HasManualNode(entry.ID) {
				continue
			}
		}
		sel.Entries = append(sel.Entries, entry)
	}

	return sel, nil
}
