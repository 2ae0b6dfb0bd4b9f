package guestbook

import "errors"

var (
	ErrInvalidDraft     = errors.New("invalid message")
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrLoadFailed       = errors.New("failed to load messages")
	ErrSubmitFailed     = errors.New("failed to save message")
	ErrDeleteFailed     = errors.New("failed to delete message")
	ErrSecretMismatch   = errors.New("password mismatch")
	ErrClosed           = errors.New("guestbook store closed")
)

// ValidationError reports which draft field was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidDraft
}
