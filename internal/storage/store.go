package storage

// Store defines the interface for all storage operations.
type Store interface {
	// Subscriptions
	GetSubscriptions() []Subscription
	GetSubscription(id string) *Subscription
	AddSubscription(sub Subscription) error
	UpdateSubscription(sub Subscription) error
	DeleteSubscription(id string) error

	// Profiles
	GetProfiles() []Profile
	GetProfile(id string) *Profile
	AddProfile(profile Profile) error
	UpdateProfile(profile Profile) error
	DeleteProfile(id string) error

	// Settings
	GetSettings() *Settings
	UpdateSettings(settings *Settings) error

	// Lifecycle
	GetDataDir() string
	Close() error
}
