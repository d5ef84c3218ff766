package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/xiaobei/subhub/internal/logger"
	"github.com/xiaobei/subhub/internal/storage"
	"github.com/xiaobei/subhub/pkg/utils"
)

// clashDocument is the minimal shape of a Clash YAML subscription. Only the
// proxy names are needed to report what was skipped.
type clashDocument struct {
	Proxies []struct {
		Name string `yaml:"name"`
	} `yaml:"proxies"`
}

// Composer assembles the plain-text node list served to clients and handed
// to the converter backend.
type Composer struct {
	client *http.Client
}

// NewComposer creates a composer
func NewComposer() *Composer {
	return &Composer{
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Compose builds the newline-joined node list for the given entries.
// Remote subscriptions are fetched concurrently but assembled in entry
// order; manual node entries contribute their URI verbatim. A non-empty
// prepended block (the traffic summary node) goes first. Fetch failures
// drop the entry and keep the rest of the list usable.
func (c *Composer) Compose(ctx context.Context, userAgent string, entries []storage.Subscription, prepended string, prefix *storage.PrefixSettings) string {
	parts := make([]string, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			parts[i] = c.renderEntry(entry, userAgent)
			return nil
		})
	}
	g.Wait()

	var lines []string
	if prepended != "" {
		lines = append(lines, prepended)
	}
	for _, part := range parts {
		for _, line := range strings.Split(part, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			lines = append(lines, applyPrefix(line, prefix))
		}
	}

	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// renderEntry resolves a single entry to zero or more node URI lines.
func (c *Composer) renderEntry(entry storage.Subscription, userAgent string) string {
	if !entry.IsRemote() {
		return entry.URL
	}

	content, _, err := utils.FetchSubscription(entry.URL, userAgent)
	if err != nil {
		logger.Printf("[Composer] Failed to fetch subscription %s: %v", entry.Name, err)
		return ""
	}

	content = utils.MaybeDecodeBase64(content)

	if isClashYAML(content) {
		var doc clashDocument
		if err := yaml.Unmarshal([]byte(content), &doc); err == nil {
			logger.Printf("[Composer] Skipping Clash YAML subscription %s (%d proxies)", entry.Name, len(doc.Proxies))
		} else {
			logger.Printf("[Composer] Skipping unparseable Clash YAML subscription %s", entry.Name)
		}
		return ""
	}

	return content
}

// isClashYAML reports whether subscription content is a Clash YAML document
// rather than a share-URI list.
func isClashYAML(content string) bool {
	if strings.Contains(content, "://") && !strings.Contains(content, "proxies:") {
		return false
	}
	return strings.Contains(content, "proxies:")
}

// applyPrefix prepends the configured tag to a node URI's display name.
// Fragments are percent-encoded in share URIs, so the tag is encoded too.
func applyPrefix(line string, prefix *storage.PrefixSettings) string {
	if prefix == nil || !prefix.Enabled || prefix.Prefix == "" {
		return line
	}

	tag := url.PathEscape(prefix.Prefix)
	idx := strings.LastIndex(line, "#")
	if idx < 0 {
		return line + "#" + tag
	}
	return line[:idx+1] + tag + line[idx+1:]
}
