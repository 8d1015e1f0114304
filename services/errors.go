package services

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("access denied")
	ErrAlreadyProcessed    = errors.New("booking already processed")
	ErrAlreadyCompleted    = errors.New("payment already completed")
	ErrAlreadyReviewed     = errors.New("booking already reviewed")
	ErrNoActiveBooking     = errors.New("no active booking")
	ErrPropertyUnavailable = errors.New("property is not available")
	ErrProfileMissing      = errors.New("profile not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountDisabled     = errors.New("account disabled")
)

// FormError is a user-facing validation failure on submitted input.
type FormError struct {
	Field   string
	Message string
}

func (e *FormError) Error() string {
	return e.Message
}

func formError(field, message string) error {
	return &FormError{Field: field, Message: message}
}
