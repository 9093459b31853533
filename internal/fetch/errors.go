package fetch

import (
	"errors"
	"fmt"
)

// ErrorKind classifies retrieval failures so the API boundary can map each
// to a distinct user-facing message.
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindBlocked     ErrorKind = "blocked"      // 403
	KindRateLimited ErrorKind = "rate_limited" // 429
	KindGeneric     ErrorKind = "generic_fetch_failure"
)

// Error is a retrieval failure with its classification.
type Error struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is worth a later retry (batch
// workers re-queue these once).
func (e *Error) Retryable() bool {
	return e.Kind == KindTimeout || e.Kind == KindRateLimited
}

// KindOf returns the classification of err, or KindGeneric for anything
// that is not a *fetch.Error.
func KindOf(err error) ErrorKind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindGeneric
}
