package types

import "errors"

// Domain errors for type validation
var (
	ErrEmptyData       = errors.New("sync data cannot be empty")
	ErrInvalidData     = errors.New("sync data must be a JSON value")
	ErrMissingDeviceID = errors.New("device ID is required")
	ErrInvalidPayload  = errors.New("invalid sync payload")
)
