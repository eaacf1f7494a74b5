package identity

import "errors"

// Common errors returned by the identity platform client.
var (
	// ErrMissingCredentials indicates Login was called with neither a code nor a username.
	ErrMissingCredentials = errors.New("either an authorization code or username and password are required")
)
