package service

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xiaobei/subhub/internal/logger"
	"github.com/xiaobei/subhub/internal/storage"
)

const telegramAPIBase = "https://api.telegram.org"

// Notifier delivers subscription access notices via the Telegram Bot API.
// Delivery is best effort: failures are logged and never surface to the
// request that triggered them.
type Notifier struct {
	store   storage.Store
	client  *http.Client
	apiBase string
}

// NewNotifier creates a notifier
func NewNotifier(store storage.Store) *Notifier {
	return &Notifier{
		store: store,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiBase: telegramAPIBase,
	}
}

// SetAPIBase overrides the Telegram endpoint. Used by tests.
func (n *Notifier) SetAPIBase(base string) {
	n.apiBase = strings.TrimRight(base, "/")
}

// AccessNotice describes a subscription access for notification purposes.
type AccessNotice struct {
	Host        string
	UserAgent   string
	Format      string
	ProfileName string
	ExpiresAt   *time.Time
}

// NotifyAccess sends an access notice if notifications are configured.
func (n *Notifier) NotifyAccess(notice AccessNotice) {
	settings := n.store.GetSettings()
	if !settings.NotifyEnabled || settings.TGBotToken == "" || settings.TGChatID == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*订阅被访问*\n")
	fmt.Fprintf(&b, "域名: `%s`\n", notice.Host)
	fmt.Fprintf(&b, "客户端: `%s`\n", notice.UserAgent)
	fmt.Fprintf(&b, "格式: `%s`\n", notice.Format)
	if notice.ProfileName != "" {
		fmt.Fprintf(&b, "Profile: `%s`\n", notice.ProfileName)
		if notice.ExpiresAt != nil {
			loc, err := time.LoadLocation("Asia/Shanghai")
			if err != nil {
				loc = time.UTC
			}
			fmt.Fprintf(&b, "到期时间: `%s`\n", notice.ExpiresAt.In(loc).Format("2006-01-02 15:04:05"))
		}
	}

	if err := n.sendMessage(settings.TGBotToken, settings.TGChatID, b.String()); err != nil {
		logger.Printf("[Notifier] Failed to send Telegram notification: %v", err)
	}
}

// sendMessage calls the Bot API sendMessage method.
func (n *Notifier) sendMessage(botToken, chatID, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, botToken)

	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")

	resp, err := n.client.PostForm(endpoint, form)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP status code: %d", resp.StatusCode)
	}
	return nil
}
