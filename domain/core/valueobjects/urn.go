package valueobjects

import (
	"encoding/base64"
	"errors"
)

// VersionURN is the opaque identifier of a specific model version. It is the
// join key for all derivative requests and frequently contains characters
// (':', '/', '?') that are not safe inside a URL path segment.
type VersionURN string

// NewVersionURN creates a VersionURN from its raw string form
func NewVersionURN(raw string) (VersionURN, error) {
	if raw == "" {
		return "", errors.New("version URN cannot be empty")
	}
	return VersionURN(raw), nil
}

// String returns the raw URN
func (u VersionURN) String() string {
	return string(u)
}

// IsZero checks if the URN is the zero value
func (u VersionURN) IsZero() bool {
	return u == ""
}

// Encode returns the transport-safe form of the URN: unpadded URL-safe
// base64, so '/' and '+' never appear in a request path. Decode is the exact
// inverse; DecodeVersionURN(u.Encode()) == u holds for every URN.
func (u VersionURN) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(u))
}

// DecodeVersionURN reverses Encode
func DecodeVersionURN(encoded string) (VersionURN, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.New("malformed encoded version URN")
	}
	if len(raw) == 0 {
		return "", errors.New("version URN cannot be empty")
	}
	return VersionURN(raw), nil
}
