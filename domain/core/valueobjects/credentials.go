package valueobjects

import "time"

// Credentials is a bearer token with its expiry. Instances live only for the
// duration of a single request; the server never stores them.
type Credentials struct {
	AccessToken string
	ExpiresAt   time.Time
}

// NewCredentials creates a credential pair value
func NewCredentials(accessToken string, expiresAt time.Time) Credentials {
	return Credentials{AccessToken: accessToken, ExpiresAt: expiresAt}
}

// IsZero checks if no credential is present
func (c Credentials) IsZero() bool {
	return c.AccessToken == ""
}

// Expired reports whether the credential has passed its expiry at the given
// instant
func (c Credentials) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
