package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind sentinels. Every *Error matches exactly one of them with errors.Is.
var (
	ErrAuthFailure         = errors.New("auth failure")
	ErrValidation          = errors.New("validation failure")
	ErrRequestFailure      = errors.New("request failure")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrNotFound            = errors.New("not found")
)

// SessionExpiredMessage is shown whenever the server rejects the stored credential.
const SessionExpiredMessage = "Session expired. Please login again."

// Error is the coded error carried across layers.
type Error struct {
	Kind    error
	Message string
	// Status is the HTTP status for request and auth failures, 0 otherwise.
	Status int
	Fields map[string]string
	cause  error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		return FormatFields(e.Fields)
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

func Auth(status int) *Error {
	return &Error{Kind: ErrAuthFailure, Message: SessionExpiredMessage, Status: status}
}

// Unauthenticated reports a personal operation attempted without any credential.
func Unauthenticated() *Error {
	return &Error{Kind: ErrAuthFailure, Message: "not logged in"}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func ValidationFields(fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Fields: fields}
}

func Request(status int, message string) *Error {
	return &Error{Kind: ErrRequestFailure, Status: status, Message: message}
}

// Transport wraps a failure that happened before any response arrived.
func Transport(cause error) *Error {
	return &Error{Kind: ErrRequestFailure, Message: cause.Error(), cause: cause}
}

func Conflict(message string) *Error {
	return &Error{Kind: ErrConcurrencyConflict, Message: message}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// FormatFields renders field errors as "field: error" pairs in key order.
func FormatFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}

// StatusOf returns the HTTP status attached to err, if any.
func StatusOf(err error) int {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Status
	}
	return 0
}
