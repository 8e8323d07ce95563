// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. This enables better error categorization, logging,
// and user experience by providing context-aware error information.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// SplitUnbalanced indicates input with unbalanced quotes or brackets.
	SplitUnbalanced Kind = "split_unbalanced"
	// ReturnUnparseable indicates a RETURN clause whose items cannot be determined.
	ReturnUnparseable Kind = "return_unparseable"
	// ValueMalformed indicates an agtype wire value that failed to decode.
	ValueMalformed Kind = "value_malformed"
	// EngineFailure indicates a failure reported by PostgreSQL or AGE.
	EngineFailure Kind = "engine_failure"
	// EngineArityMismatch indicates the engine rejected the declared column list.
	EngineArityMismatch Kind = "engine_arity_mismatch"
	// ConfigInvalid indicates missing or inconsistent configuration.
	ConfigInvalid Kind = "config_invalid"
	// ConnectFailed indicates a database connection failure.
	ConnectFailed Kind = "connect_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// IsKind reports whether err or any error in its chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
