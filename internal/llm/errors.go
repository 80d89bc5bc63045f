package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorKind tells the fallback controller how to react to a failed call
type ErrorKind int

const (
	// KindUnknown is any error the adapter did not produce
	KindUnknown ErrorKind = iota
	// KindTransient means pause and retry the same model
	KindTransient
	// KindEscalation means abandon the model and try the next one
	KindEscalation
	// KindMalformed means the model answered but the answer is unusable
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindEscalation:
		return "escalation"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// TransientBackendError is a retryable server-side fault
type TransientBackendError struct {
	Model      string
	StatusCode int // HTTP status when known
	Message    string
	Cause      error
}

func (e *TransientBackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transient backend error on %s: %s: %v", e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("transient backend error on %s: %s", e.Model, e.Message)
}

func (e *TransientBackendError) Unwrap() error {
	return e.Cause
}

// EscalationError is a quota exhaustion or non-retryable fault on one model
type EscalationError struct {
	Model      string
	StatusCode int
	Message    string
	Cause      error
}

func (e *EscalationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model %s unusable: %s: %v", e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("model %s unusable: %s", e.Model, e.Message)
}

func (e *EscalationError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError is an answer that is not a usable JSON array of results
type MalformedResponseError struct {
	Model    string
	Message  string
	Response string // Raw text as received, for debugging
	Cause    error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed response from %s: %s: %v", e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed response from %s: %s", e.Model, e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of an adapter error, looking through wrapping.
func KindOf(err error) ErrorKind {
	var transient *TransientBackendError
	var escalation *EscalationError
	var malformed *MalformedResponseError

	switch {
	case errors.As(err, &transient):
		return KindTransient
	case errors.As(err, &escalation):
		return KindEscalation
	case errors.As(err, &malformed):
		return KindMalformed
	default:
		return KindUnknown
	}
}

// classifyBackendError maps an SDK error onto the adapter's error kinds.
// HTTP status wins over gRPC status; anything unrecognised escalates.
func classifyBackendError(model string, err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &EscalationError{Model: model, Message: "request blocked by safety filters", Cause: err}
	}

	if code := httpStatusCode(err); code > 0 {
		switch code {
		case http.StatusTooManyRequests:
			return &EscalationError{Model: model, StatusCode: code, Message: "quota or rate limit exhausted", Cause: err}
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return &TransientBackendError{Model: model, StatusCode: code, Message: fmt.Sprintf("server fault (HTTP %d)", code), Cause: err}
		default:
			return &EscalationError{Model: model, StatusCode: code, Message: fmt.Sprintf("non-retryable HTTP %d", code), Cause: err}
		}
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.ResourceExhausted:
			return &EscalationError{Model: model, Message: "quota or rate limit exhausted", Cause: err}
		case codes.Unavailable, codes.Internal, codes.DeadlineExceeded, codes.Aborted:
			return &TransientBackendError{Model: model, Message: fmt.Sprintf("server fault (%s)", st.Code()), Cause: err}
		default:
			return &EscalationError{Model: model, Message: fmt.Sprintf("non-retryable status %s", st.Code()), Cause: err}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientBackendError{Model: model, Message: "request timed out", Cause: err}
	}

	return &EscalationError{Model: model, Message: "unclassified backend failure", Cause: err}
}

func httpStatusCode(err error) int {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
		return apiErr.HTTPCode()
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	return 0
}
