package sub

import (
	"time"

	"github.com/xiaobei/subhub/internal/storage"
)

// Access carries everything resolved during authorization. Exactly one mode
// is active per request: direct token (Profile nil) or profile token.
type Access struct {
	Token   string
	Profile *storage.Profile
	Expired bool
}

// Authorize validates the token against the configured secrets and, in
// profile mode, resolves the referenced profile. The trust boundary is the
// shared-secret token alone.
func Authorize(token, profileID string, settings *storage.Settings, profiles []storage.Profile, now time.Time) (*Access, error) {
	if profileID != "" {
		if token == "" || token != settings.ProfileToken {
			return nil, Forbidden("invalid profile token")
		}

		profile := findProfile(profiles, profileID)
		if profile == nil || !profile.Enabled {
			return nil, NotFound("profile not found or disabled")
		}

		return &Access{
			Token:   token,
			Profile: profile,
			Expired: profile.Expired(now),
		}, nil
	}

	if token == "" || token != settings.MyToken {
		return nil, Forbidden("invalid access token")
	}

	return &Access{Token: token}, nil
}

// findProfile locates a profile by custom identifier first, then by ID.
func findProfile(profiles []storage.Profile, identifier string) *storage.Profile {
	for i := range profiles {
		if profiles[i].CustomID != "" && profiles[i].CustomID == identifier {
			return &profiles[i]
		}
	}
	for i := range profiles {
		if profiles[i].ID == identifier {
			return &profiles[i]
		}
	}
	return nil
}
