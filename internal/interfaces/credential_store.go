package interfaces

import (
	"context"
	"errors"
)

// ErrCredentialNotSet is returned when no API key has been stored yet
var ErrCredentialNotSet = errors.New("credential not set")

// CredentialStore persists the API key across sessions. At most one value is
// active at a time; Set overwrites any previous value. The credential's format
// is never validated client-side, the service is the authority on rejecting it.
type CredentialStore interface {
	// Get returns the stored API key, or ErrCredentialNotSet if absent
	Get(ctx context.Context) (string, error)

	// Set stores the API key, replacing any existing value
	Set(ctx context.Context, value string) error
}
