package storage

import (
	"strings"
	"time"
)

// Subscription represents one entry in the composition list. A URL carrying
// an http(s) scheme is a remote subscription fetched at composition time;
// anything else is treated as a manual node share URI stored verbatim.
type Subscription struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	URL       string     `json:"url"`
	Enabled   bool       `json:"enabled"`
	Upload    int64      `json:"upload"`
	Download  int64      `json:"download"`
	Total     int64      `json:"total"`
	ExpireAt  *time.Time `json:"expire_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsRemote reports whether the entry points at a remote subscription.
func (s *Subscription) IsRemote() bool {
	u := strings.ToLower(strings.TrimSpace(s.URL))
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// RemainingBytes returns the unused traffic quota, clamped at zero.
// Entries without a known total report zero.
func (s *Subscription) RemainingBytes() int64 {
	if s.Total <= 0 {
		return 0
	}
	remaining := s.Total - (s.Upload + s.Download)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PrefixSettings controls node-name prefixing applied during composition.
type PrefixSettings struct {
	Enabled bool   `json:"enabled"`
	Prefix  string `json:"prefix"`
}

// Profile is a named, independently shareable subset of entries with its own
// lifecycle and optional converter overrides. Clients address a profile by
// either ID or CustomID.
type Profile struct {
	ID            string          `json:"id"`
	CustomID      string          `json:"custom_id,omitempty"`
	Name          string          `json:"name"`
	Enabled       bool            `json:"enabled"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	Subscriptions []string        `json:"subscriptions"`
	ManualNodes   []string        `json:"manual_nodes"`
	SubConverter  string          `json:"sub_converter,omitempty"`
	SubConfig     string          `json:"sub_config,omitempty"`
	Prefix        *PrefixSettings `json:"prefix,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Expired reports whether the profile's expiry lies strictly in the past.
// A profile without an expiry never expires.
func (p *Profile) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

// DisplayName returns the human-facing profile name, falling back to the ID.
func (p *Profile) DisplayName() string {
	if strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return p.ID
}

// HasSubscription reports membership of a remote subscription entry.
func (p *Profile) HasSubscription(id string) bool {
	for _, s := range p.Subscriptions {
		if s == id {
			return true
		}
	}
	return false
}

// HasManualNode reports membership of a manual node entry.
func (p *Profile) HasManualNode(id string) bool {
	for _, m := range p.ManualNodes {
		if m == id {
			return true
		}
	}
	return false
}

// Settings represents global settings
type Settings struct {
	// access tokens
	MyToken      string `json:"mytoken"`       // direct-access token
	ProfileToken string `json:"profile_token"` // shared token for profile links

	// converter backend
	SubConverter string `json:"sub_converter"` // host of the external converter
	SubConfig    string `json:"sub_config"`    // remote config passed to the converter

	// presentation
	FileName string `json:"file_name"` // Content-Disposition display name

	// automation settings
	SubUpdateInterval int `json:"sub_update_interval"` // traffic refresh interval (minutes), 0 to disable

	// Telegram notification
	NotifyEnabled bool   `json:"notify_enabled"`
	TGBotToken    string `json:"tg_bot_token,omitempty"`
	TGChatID      string `json:"tg_chat_id,omitempty"`
}

// DefaultSettings returns default settings
func DefaultSettings() *Settings {
	return &Settings{
		MyToken:           "auto",
		ProfileToken:      "profiles",
		SubConverter:      "url.v1.mk",
		SubConfig:         "https://raw.githubusercontent.com/ACL4SSR/ACL4SSR/master/Clash/config/ACL4SSR_Online_Full_MultiMode.ini",
		FileName:          "subhub",
		SubUpdateInterval: 60,
		NotifyEnabled:     false,
	}
}

// Normalize overlays blank fields with defaults so settings rows written by
// older versions keep resolving after upgrades.
func (s *Settings) Normalize() {
	defaults := DefaultSettings()
	s.MyToken = strings.TrimSpace(s.MyToken)
	s.ProfileToken = strings.TrimSpace(s.ProfileToken)
	s.SubConverter = strings.TrimSpace(strings.TrimSuffix(s.SubConverter, "/"))
	s.SubConverter = strings.TrimPrefix(strings.TrimPrefix(s.SubConverter, "https://"), "http://")
	s.SubConfig = strings.TrimSpace(s.SubConfig)
	s.FileName = strings.TrimSpace(s.FileName)
	if s.MyToken == "" {
		s.MyToken = defaults.MyToken
	}
	if s.ProfileToken == "" {
		s.ProfileToken = defaults.ProfileToken
	}
	if s.FileName == "" {
		s.FileName = defaults.FileName
	}
	if s.SubUpdateInterval < 0 {
		s.SubUpdateInterval = 0
	}
}
