// File: api/errors.go
// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for the collator.

package api

import (
	"errors"
	"fmt"
)

// Channel failures. Any of them is fatal to the collator that observes it.
var (
	ErrChannelFailure  = errors.New("event channel failure")
	ErrChannelClosed   = errors.New("event channel is closed")
	ErrChannelOverflow = errors.New("event channel overflow")
	ErrMalformedEvent  = errors.New("malformed event record")
)

// Contract violations: misuse by the owner of a collator or endpoint.
var (
	ErrCollatorClosed  = errors.New("collator is closed")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEndpointClosed  = errors.New("endpoint is closed")
	ErrNotFound        = errors.New("resource not found")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeChannelFailure
	ErrCodeContractViolation
	ErrCodeInvalidArgument
	ErrCodeNotFound
	ErrCodeInternal
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeChannelFailure:
		return "channel_failure"
	case ErrCodeContractViolation:
		return "contract_violation"
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (context: %+v)", msg, e.Context)
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap attaches a cause to the error.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Is matches the sentinel of the error's class, so errors.Is(err, ErrChannelFailure)
// holds for every channel failure regardless of cause.
func (e *Error) Is(target error) bool {
	return e.Code == ErrCodeChannelFailure && target == ErrChannelFailure
}

// ChannelFailure builds a fatal channel error wrapping cause.
func ChannelFailure(cause error) error {
	return NewError(ErrCodeChannelFailure, "event channel failure").Wrap(cause)
}

// CodeOf extracts the ErrorCode of err, falling back to sentinel matching.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrCodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	switch {
	case errors.Is(err, ErrChannelFailure), errors.Is(err, ErrChannelClosed),
		errors.Is(err, ErrChannelOverflow), errors.Is(err, ErrMalformedEvent):
		return ErrCodeChannelFailure
	case errors.Is(err, ErrCollatorClosed), errors.Is(err, ErrEndpointClosed):
		return ErrCodeContractViolation
	case errors.Is(err, ErrInvalidArgument):
		return ErrCodeInvalidArgument
	case errors.Is(err, ErrNotFound):
		return ErrCodeNotFound
	default:
		return ErrCodeInternal
	}
}
