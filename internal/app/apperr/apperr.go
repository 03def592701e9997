package apperr

import "errors"

// Application level errors. Handlers map these to HTTP status codes,
// services wrap them with context via fmt.Errorf and %w.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInsufficientFunds   = errors.New("insufficient wallet balance")
	ErrAlreadyCompleted    = errors.New("order already completed")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
)
