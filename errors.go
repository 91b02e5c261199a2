package tyflow

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeMalformedChain    ErrorCode = "malformed_chain"
	CodeInvalidDescriptor ErrorCode = "invalid_descriptor"
	CodeInvalidManifest   ErrorCode = "invalid_manifest"
)

// Error is the structured error returned for descriptor and manifest problems.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates a new error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// WithDetails returns a new Error with the provided map merged into details.
// For multiple details, this is more efficient than chaining WithDetail calls.
func (e *Error) WithDetails(details map[string]any) *Error {
	if len(details) == 0 {
		return e
	}
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: merged,
	}
}

// ErrMalformedChain is the sentinel wrapped by every MalformedChainError.
var ErrMalformedChain = errors.New("malformed interceptor chain")

// MalformedChainError reports a pipeline whose links violate the chain invariants.
// It is fatal: analysis stops and the error propagates to the caller.
type MalformedChainError struct {
	// Index is the arena position of the offending node, or -1 for
	// pipeline-level problems.
	Index int

	// Reason describes the violated invariant.
	Reason string
}

func (e *MalformedChainError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", ErrMalformedChain, e.Reason)
	}
	return fmt.Sprintf("%s: node %d: %s", ErrMalformedChain, e.Index, e.Reason)
}

func (e *MalformedChainError) Unwrap() error { return ErrMalformedChain }

// AsError converts err into an *Error, mapping MalformedChainError to
// CodeMalformedChain. Other errors map to CodeInvalidDescriptor.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var mc *MalformedChainError
	if errors.As(err, &mc) {
		return NewError(CodeMalformedChain, mc.Reason).WithDetail("node", mc.Index)
	}
	return NewError(CodeInvalidDescriptor, err.Error())
}
