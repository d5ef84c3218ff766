package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/xiaobei/subhub/internal/logger"
	"github.com/xiaobei/subhub/internal/service"
	"github.com/xiaobei/subhub/internal/storage"
	"github.com/xiaobei/subhub/internal/sub"
	"github.com/xiaobei/subhub/pkg/utils"
)

// handleSub serves the subscription endpoint. The request walks the full
// pipeline: token resolution, authorization, node-set selection, format
// negotiation, composition, then either a direct base64 answer or a relay
// through the external converter that calls back into this endpoint.
func (s *Server) handleSub(c *gin.Context) {
	query := c.Request.URL.Query()
	userAgent := c.GetHeader("User-Agent")

	token, profileID := sub.ResolveToken(c.Request.URL.Path, query)

	var (
		settings *storage.Settings
		entries  []storage.Subscription
		profiles []storage.Profile
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		settings = s.store.GetSettings()
		return nil
	})
	g.Go(func() error {
		entries = s.store.GetSubscriptions()
		return nil
	})
	g.Go(func() error {
		profiles = s.store.GetProfiles()
		return nil
	})
	g.Wait()

	access, err := sub.Authorize(token, profileID, settings, profiles, time.Now())
	if err != nil {
		logger.Access("DENY %s %s ua=%q: %v", c.ClientIP(), c.Request.URL.Path, userAgent, err)
		c.String(sub.StatusOf(err), "%s", err.Error())
		return
	}

	selection, err := sub.Select(access, entries, settings)
	if err != nil {
		logger.Printf("[Sub] %v", err)
		c.String(sub.StatusOf(err), "%s", err.Error())
		return
	}

	format := sub.NegotiateFormat(query, userAgent)
	callbackToken := s.tokens.Token(settings)
	fromConverter := query.Get(sub.CallbackParam) == callbackToken

	logger.Access("SERVE %s %s ua=%q format=%s profile=%q expired=%v callback=%v",
		c.ClientIP(), c.Request.URL.Path, userAgent, format,
		profileID, selection.Expired, fromConverter)

	// The converter's fetch-back carries the callback token; notifying on it
	// would double-report every converted access. Delivery happens after the
	// response is decided and never blocks it.
	if !query.Has(sub.CallbackParam) {
		notice := service.AccessNotice{
			Host:      c.Request.Host,
			UserAgent: userAgent,
			Format:    format,
		}
		if p := access.Profile; p != nil {
			notice.ProfileName = p.DisplayName()
			notice.ExpiresAt = p.ExpiresAt
		}
		defer func() { go s.notifier.NotifyAccess(notice) }()
	}

	var nodeText string
	if selection.Expired {
		nodeText = sub.ExpiredText()
	} else {
		var prefix *storage.PrefixSettings
		if access.Profile != nil {
			prefix = access.Profile.Prefix
		}
		prepended := sub.TrafficPlaceholder(sub.TotalRemaining(selection.Entries))
		nodeText = s.composer.Compose(c.Request.Context(), userAgent, selection.Entries, prepended, prefix)
	}

	filename := settings.FileName
	if access.Profile != nil {
		filename = access.Profile.DisplayName()
	}

	if format == sub.FormatBase64 || fromConverter {
		s.writeSubResponse(c, http.StatusOK, filename, []byte(utils.EncodeBase64(nodeText)))
		return
	}

	callbackURL := sub.BuildCallbackURL(requestScheme(c), c.Request.Host, token, profileID, callbackToken)
	converterURL := sub.ConverterURL(selection.SubConverter, format, callbackURL, selection.SubConfig)

	status, body, err := sub.FetchConverted(s.client, converterURL)
	if err != nil {
		logger.Printf("[Sub] Converter relay failed: %v", err)
		c.String(sub.StatusOf(err), "%s", err.Error())
		return
	}

	s.writeSubResponse(c, status, filename, body)
}

// writeSubResponse emits a subscription payload with the headers clients
// expect for importable subscription files.
func (s *Server) writeSubResponse(c *gin.Context, status int, filename string, body []byte) {
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Header("Cache-Control", "no-store, no-cache")
	c.Data(status, "text/plain; charset=utf-8", body)
}

// requestScheme resolves the externally visible scheme for callback URLs.
// Proxy headers win over the local socket's view.
func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
