package types

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
)

// Weather provider failure kinds.
var (
	ErrProviderKeyDisabled = errors.New("weather provider key disabled")
	ErrProviderKeyInvalid  = errors.New("weather provider key invalid")
	ErrProviderTimeout     = errors.New("weather provider request timed out")
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrProviderIO          = errors.New("weather provider i/o failure")
)
