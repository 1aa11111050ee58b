// Package errs provides the error type shared by every schemadoc package.
//
// Engine adapters wrap their native driver errors into *errs.Error before
// returning them, so callers can branch on the kind of failure without
// importing sqlite3, pgx or mysql:
//
//	doc, err := schemadoc.ExtractFromScript(ctx, "schema.sql", nil, nil)
//	if errs.IsScriptFailed(err) {
//	    // the script did not execute; no partial document exists
//	}
package errs

import (
	"errors"
	"fmt"
)

// ScriptAborted is the only message a failed schema script ever reports.
// The engine diagnostic is deliberately not part of the error.
const ScriptAborted = "aborted: syntax error in database script"

// ErrKind categorises an error without exposing engine-specific codes.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // missing file, object or bucket
	ErrKindConnectionFailed         // cannot open or reach the engine
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindQueryFailed              // catalog or introspection query rejected
	ErrKindScriptFailed             // schema script did not execute
	ErrKindInvalidInput             // descriptor missing a required field
	ErrKindPermissionDenied         // access denied / auth failure
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindScriptFailed:
		return "script_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by schemadoc packages.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original engine error, nil when intentionally hidden
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to reach the engine error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error with the given kind, message, and underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// InvalidInput reports a descriptor that a pipeline stage refused to process.
func InvalidInput(msg string) *Error {
	return New(ErrKindInvalidInput, msg)
}

// ScriptFailed returns the normalized script execution error.
func ScriptFailed() *Error {
	return New(ErrKindScriptFailed, ScriptAborted)
}

// --- Predicates ---

// IsNotFound reports whether err represents a missing resource.
func IsNotFound(err error) bool {
	return kindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return kindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity or open failure.
func IsConnectionFailed(err error) bool {
	return kindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether the engine rejected a catalog or
// introspection query.
func IsQueryFailed(err error) bool {
	return kindOf(err) == ErrKindQueryFailed
}

// IsScriptFailed reports whether a schema script failed to execute.
func IsScriptFailed(err error) bool {
	return kindOf(err) == ErrKindScriptFailed
}

// IsInvalidInput reports whether err was caused by a malformed descriptor.
func IsInvalidInput(err error) bool {
	return kindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return kindOf(err) == ErrKindPermissionDenied
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	return kindOf(err)
}

func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
