// Package scraping collects auction listings from the supported sites.
package scraping

import (
	"errors"
	"fmt"
)

// ErrNoListings is returned when a gallery yields no item links.
var ErrNoListings = errors.New("no items found on the auction page")

// Error describes a failure scraping one page.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scrape error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("scrape error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
