package types

import "fmt"

// ListingError reports an invalid entry in a listing sequence
type ListingError struct {
	Index   int
	ID      string
	Message string
	Cause   error
}

func (e *ListingError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "invalid listing"
	}
	if e.Cause != nil {
		return fmt.Sprintf("listing %d (%s): %s: %v", e.Index, e.ID, msg, e.Cause)
	}
	return fmt.Sprintf("listing %d (%s): %s", e.Index, e.ID, msg)
}

func (e *ListingError) Unwrap() error {
	return e.Cause
}
