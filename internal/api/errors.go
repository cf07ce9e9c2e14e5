package api

import (
	"errors"
	"fmt"
)

// Kind classifies API failures
type Kind string

// Failure kinds surfaced by the client
const (
	KindNetwork            Kind = "NETWORK"
	KindServer             Kind = "SERVER"
	KindNotFound           Kind = "NOT_FOUND"
	KindMalformed          Kind = "MALFORMED"
	KindContentUnavailable Kind = "CONTENT_UNAVAILABLE"
)

// Error is a classified API failure
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same Kind
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is
var (
	ErrNetwork            = &Error{Kind: KindNetwork, Message: "network error"}
	ErrServer             = &Error{Kind: KindServer, Message: "server error"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrMalformed          = &Error{Kind: KindMalformed, Message: "malformed response"}
	ErrContentUnavailable = &Error{Kind: KindContentUnavailable, Message: "content unavailable"}
)

func newError(kind Kind, op string, status int, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Status: status, Message: msg, cause: cause}
}

// KindOf returns the kind of err, or "" when err is not an API error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
