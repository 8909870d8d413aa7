package agenterr

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Stable machine-readable error codes.
const (
	CodeTimeout     = "AGENT_TIMEOUT"
	CodeRateLimit   = "AGENT_RATE_LIMIT"
	CodeModelError  = "AGENT_MODEL_ERROR"
	CodeToolError   = "AGENT_TOOL_ERROR"
	CodeValidation  = "AGENT_VALIDATION_ERROR"
	CodeMemory      = "AGENT_MEMORY_ERROR"
	CodeCircuitOpen = "AGENT_CIRCUIT_OPEN"
)

// Error is a classified agent failure. Kinds are distinguished by Code,
// never by concrete type; the Retryable flag drives retry decisions.
type Error struct {
	Code      string
	Message   string
	Retryable bool
	Meta      map[string]any
}

// New creates an Error with a caller-supplied code and retryable flag.
func New(code, message string, retryable bool) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Meta:      make(map[string]any),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is an agent error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMeta attaches a structured metadata entry and returns the error.
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// NewTimeout creates a retryable timeout error for the named operation.
func NewTimeout(operation string, d time.Duration) *Error {
	e := New(CodeTimeout, fmt.Sprintf("operation %q timed out after %s", operation, d), true)
	e.Meta["operation"] = operation
	e.Meta["timeout"] = d
	return e
}

// NewRateLimit creates a retryable rate-limit error.
func NewRateLimit(message string) *Error {
	return New(CodeRateLimit, message, true)
}

// RateLimitFromHeaders creates a rate-limit error from standard response
// headers. Unparseable or absent headers are simply omitted from Meta.
func RateLimitFromHeaders(h http.Header) *Error {
	e := NewRateLimit("rate limit exceeded")

	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			e.Meta["retry_after"] = time.Duration(secs) * time.Second
		}
	}
	if v := h.Get("X-RateLimit-Limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			e.Meta["limit"] = n
		}
	}
	if v := h.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			e.Meta["remaining"] = n
		}
	}
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			e.Meta["reset"] = time.Unix(epoch, 0)
		}
	}
	return e
}

// NewModelError creates a model provider error. Server-side failures
// (status >= 500) are retryable; client-side failures are not.
func NewModelError(provider string, status int, message string) *Error {
	e := New(CodeModelError, message, status >= 500)
	e.Meta["provider"] = provider
	e.Meta["status_code"] = status
	return e
}

// NewToolError creates a non-retryable tool execution error.
func NewToolError(tool, message string) *Error {
	e := New(CodeToolError, message, false)
	e.Meta["tool"] = tool
	return e
}

// NewValidation creates a non-retryable validation error for a field.
func NewValidation(field string, value any, message string) *Error {
	e := New(CodeValidation, message, false)
	e.Meta["field"] = field
	e.Meta["value"] = value
	return e
}

// NewMemoryError creates a retryable memory store error.
func NewMemoryError(message string) *Error {
	return New(CodeMemory, message, true)
}

// NewCircuitOpen creates a non-retryable error for a rejected call while
// the circuit breaker is open.
func NewCircuitOpen(reopenAt time.Time) *Error {
	e := New(CodeCircuitOpen, "circuit breaker is open", false)
	e.Meta["reopen_at"] = reopenAt
	return e
}

// Retryable classifies an error for retry purposes. Agent errors carry
// their own flag; foreign non-nil errors default to retryable since they
// were never classified as permanent.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return true
}

// Code returns the agent error code, or "" for foreign errors.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
