// Package analysis runs listing batches through the model fallback list and accumulates appraisals.
package analysis

import "fmt"

// CatastrophicFailure aborts a whole run: unusable configuration, unreadable input,
// unwritable output, or no batch succeeding at all.
type CatastrophicFailure struct {
	Message string
	Cause   error
}

func (e *CatastrophicFailure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("analysis failed: %s", e.Message)
}

func (e *CatastrophicFailure) Unwrap() error {
	return e.Cause
}

// BatchExhaustedError records a batch for which every model failed.
// It is logged and reported, never returned from Run.
type BatchExhaustedError struct {
	Batch    int // 1-based
	Size     int
	Attempts []Attempt
}

func (e *BatchExhaustedError) Error() string {
	return fmt.Sprintf("batch %d (%d listings) exhausted after %d model attempts", e.Batch, e.Size, len(e.Attempts))
}

// Unwrap returns the last model failure.
func (e *BatchExhaustedError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}
