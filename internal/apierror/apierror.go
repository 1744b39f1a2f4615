// Package apierror defines the error taxonomy shared by services and handlers.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP status mapping at the route boundary.
type Kind int

const (
	KindUpstream          Kind = iota // query executor / infra failure → 500
	KindNotFound                      // entity absent or belongs to another company → 404
	KindValidation                    // missing / malformed required fields → 400
	KindInsufficientStock             // movement would drive quantity negative → 409
	KindInvalidTransition             // disallowed status change → 409
)

// Error carries a kind, a client-safe message, and an optional wrapped cause.
// The cause is logged server-side and never serialized to the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func InsufficientStock(msg string) *Error {
	return &Error{Kind: KindInsufficientStock, Message: msg}
}

func InvalidTransition(msg string) *Error {
	return &Error{Kind: KindInvalidTransition, Message: msg}
}

// Upstream wraps a store/infra failure. Clients only ever see the generic
// message; the cause stays in the logs.
func Upstream(err error) *Error {
	return &Error{Kind: KindUpstream, Message: "internal server error", Err: err}
}

// KindOf extracts the Kind from an error chain, defaulting to KindUpstream
// so unclassified failures surface as a generic 500.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUpstream
}

// StatusCode maps an error to its HTTP response status.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindInsufficientStock, KindInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the safe message for an error chain. Upstream errors
// collapse to the generic message regardless of their cause.
func ClientMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Kind == KindUpstream {
			return "internal server error"
		}
		return ae.Message
	}
	return "internal server error"
}

// ErrorResponse is the canonical envelope for all 4xx/5xx HTTP responses.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// New builds a bare envelope with just a message, for middleware responses
// that are not part of the service error taxonomy (auth, rate limits).
func New(msg string) *ErrorResponse {
	return &ErrorResponse{Message: msg}
}

func NewResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{Message: ClientMessage(err)}
	if kind := KindOf(err); kind != KindUpstream {
		resp.Error = kindLabel(kind)
	}
	return resp
}

// ValidationResponse wraps multiple field errors.
type ValidationResponse struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func NewValidationResponse(fields map[string]string) *ValidationResponse {
	return &ValidationResponse{Message: "validation failed", Error: "ValidationError", Fields: fields}
}

func kindLabel(k Kind) string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindValidation:
		return "ValidationError"
	case KindInsufficientStock:
		return "InsufficientStock"
	case KindInvalidTransition:
		return "InvalidStateTransition"
	default:
		return "UpstreamFailure"
	}
}
