package domain

import "errors"

// DefaultErrorMessage is the catalog id used when a failure carries no message
const DefaultErrorMessage = "something_went_wrong"

// Sentinel errors for lookup operations
var (
	// ErrServiceUnreachable indicates the lookup service could not be reached
	ErrServiceUnreachable = errors.New("lookup service is unreachable")

	// ErrBadResponse indicates the lookup service answered with an unreadable payload
	ErrBadResponse = errors.New("lookup service returned an invalid response")

	// ErrEmptyTerm indicates a lookup was attempted with a blank term
	ErrEmptyTerm = errors.New("search term is empty")
)

// FailureMessage returns the message of a failure payload, or the default
// catalog id when the payload carries none.
func FailureMessage(message string) string {
	if message == "" {
		return DefaultErrorMessage
	}
	return message
}
