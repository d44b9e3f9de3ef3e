// Package entities contains the domain model for the cidbuild driver: the
// dependency graph, the project model, the block-parser descriptors, and
// the resource-compiler record types. These are pure Go structs with
// validation logic and zero external dependencies.
package entities

import (
	"errors"
	"fmt"
)

// Kind identifies the class of failure reported by the driver, per the
// error taxonomy the orchestrator propagates all the way to its top-level
// dispatch without ever swallowing an error.
type Kind string

const (
	KindBadParams     Kind = "BadParams"
	KindFileFormat    Kind = "FileFormat"
	KindUnexpectedEOF Kind = "UnexpectedEOF"
	KindNotFound      Kind = "NotFound"
	KindAlreadyExists Kind = "AlreadyExists"
	KindIndexError    Kind = "IndexError"
	KindDependError   Kind = "DependError"
	KindCreateError   Kind = "CreateError"
	KindOpenError     Kind = "OpenError"
	KindReadError     Kind = "ReadError"
	KindSeekError     Kind = "SeekError"
	KindQueryError    Kind = "QueryError"
	KindCopyFailed    Kind = "CopyFailed"
	KindBuildError    Kind = "BuildError"
	KindFull          Kind = "Full"
	KindInternal      Kind = "Internal"
)

// BuildError is the single error type the driver raises. Line is non-zero
// only for errors discovered while scanning a parsed source file, in which
// case Error() renders "(Line N)" as spec §7 requires.
type BuildError struct {
	Kind    Kind
	Line    int
	Message string
	Err     error
}

func (e *BuildError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s (Line %d)", e.Kind, e.Message, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, someKindSentinel) style comparisons against the
// sentinels below by matching Kind.
func (e *BuildError) Is(target error) bool {
	var be *BuildError
	if errors.As(target, &be) {
		return be.Kind == e.Kind && be.Line == 0
	}
	return false
}

// New constructs a BuildError with no line context.
func New(kind Kind, format string, args ...any) *BuildError {
	return &BuildError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewAtLine constructs a BuildError citing the offending source line, per
// spec §7's "every report includes (Line N) and the offending fragment".
func NewAtLine(kind Kind, line int, format string, args ...any) *BuildError {
	return &BuildError{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches an underlying cause to a new BuildError of the given kind.
func Wrap(kind Kind, err error, format string, args ...any) *BuildError {
	return &BuildError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Sentinels for errors.Is against a bare kind, e.g. errors.Is(err, entities.ErrDependError).
var (
	ErrBadParams     = &BuildError{Kind: KindBadParams}
	ErrFileFormat    = &BuildError{Kind: KindFileFormat}
	ErrUnexpectedEOF = &BuildError{Kind: KindUnexpectedEOF}
	ErrNotFound      = &BuildError{Kind: KindNotFound}
	ErrAlreadyExists = &BuildError{Kind: KindAlreadyExists}
	ErrIndexError    = &BuildError{Kind: KindIndexError}
	ErrDependError   = &BuildError{Kind: KindDependError}
	ErrCreateError   = &BuildError{Kind: KindCreateError}
	ErrOpenError     = &BuildError{Kind: KindOpenError}
	ErrReadError     = &BuildError{Kind: KindReadError}
	ErrSeekError     = &BuildError{Kind: KindSeekError}
	ErrQueryError    = &BuildError{Kind: KindQueryError}
	ErrCopyFailed    = &BuildError{Kind: KindCopyFailed}
	ErrBuildError    = &BuildError{Kind: KindBuildError}
	ErrFull          = &BuildError{Kind: KindFull}
	ErrInternal      = &BuildError{Kind: KindInternal}
)

// KindOf extracts the Kind from err if it is (or wraps) a *BuildError.
func KindOf(err error) (Kind, bool) {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return "", false
}
