// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package errors provides the structured error taxonomy shared by the
// catchup and resolver packages.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// Kind identifies the semantic category of an Error, per the error
// handling design: InvalidState, PoolTimeout, ResolverError, CryptoError,
// and Pool for errors surfaced verbatim from the pool.
type Kind string

const (
	KindInvalidState  Kind = "INVALID_STATE"
	KindPoolTimeout   Kind = "POOL_TIMEOUT"
	KindResolverError Kind = "RESOLVER_ERROR"
	KindCryptoError   Kind = "CRYPTO_ERROR"
	KindPool          Kind = "POOL_ERROR"
)

// Error is a structured error carrying a semantic Kind plus optional
// details, context, and a wrapped cause.
type Error struct {
	Kind       Kind                   `json:"kind"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	StackTrace string                 `json:"stack_trace,omitempty"`
	Cause      error                  `json:"-"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Timestamp: time.Now()}
}

// Newf creates a new Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error as the cause of a new Error.
func Wrap(err error, kind Kind, message string) *Error {
	e := New(kind, message)
	e.Cause = err
	return e
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, kind Kind, format string, args ...interface{}) *Error {
	return Wrap(err, kind, fmt.Sprintf(format, args...))
}

// WithDetails attaches human-readable detail to the error.
func (e *Error) WithDetails(details string) *Error {
	e.Details = details
	return e
}

// WithDetailsf attaches formatted detail to the error.
func (e *Error) WithDetailsf(format string, args ...interface{}) *Error {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

// WithContext attaches a single context key/value pair to the error.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithStackTrace captures the current call stack into the error.
func (e *Error) WithStackTrace() *Error {
	e.StackTrace = stackTrace()
	return e
}

// Is reports whether err is an *Error with the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// As extracts an *Error from err, if present.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func stackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var trace string
	for {
		frame, more := frames.Next()
		trace += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return trace
}

// InvalidState builds an InvalidState error (requested catchup when already
// caught up, unexpected message shape in catchup).
func InvalidState(message string) *Error {
	return New(KindInvalidState, message).WithStackTrace()
}

// PoolTimeoutErr builds a PoolTimeout error (catchup event source exhausted
// before verification succeeded).
func PoolTimeoutErr(message string) *Error {
	return New(KindPoolTimeout, message).WithStackTrace()
}

// ResolverErr builds a ResolverError (malformed DID URL, unknown object
// kind, unparseable datetime, empty result.data, unparseable reply payload).
func ResolverErr(message string) *Error {
	return New(KindResolverError, message).WithStackTrace()
}

// ResolverErrf builds a formatted ResolverError.
func ResolverErrf(format string, args ...interface{}) *Error {
	return ResolverErr(fmt.Sprintf(format, args...))
}

// CryptoErr wraps a Merkle hash or proof-computation failure.
func CryptoErr(err error, step string) *Error {
	return Wrapf(err, KindCryptoError, "crypto operation failed at step: %s", step).
		WithContext("step", step).
		WithStackTrace()
}

// FromPool surfaces a pool-origin error verbatim, tagged with KindPool.
func FromPool(err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}
	return Wrap(err, KindPool, err.Error())
}
