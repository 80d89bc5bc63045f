// Package report renders appraisal results as sorted JSON and HTML and links them from the archive index.
package report

import "fmt"

// Error represents a failure producing or publishing a report artifact.
type Error struct {
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("report error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("report error for %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
