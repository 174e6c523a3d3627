package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrLoginRequired     = errors.New("login required")
	ErrUpgradeRequired   = errors.New("upgrade required")
	ErrNoImage           = errors.New("no image selected")
	ErrInvalidDiet       = errors.New("invalid diet")
	ErrInvalidStrictness = errors.New("invalid strictness")
	ErrInvalidProtein    = errors.New("invalid protein")
	ErrImageTooLarge     = errors.New("image too large")
	ErrCredentialMissing = errors.New("credential missing")
	ErrMalformedResponse = errors.New("malformed response")
	ErrProviderFailure   = errors.New("provider failure")
)
