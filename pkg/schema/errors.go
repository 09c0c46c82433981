package schema

import (
	"errors"
	"fmt"
)

// Kind classifies a validation failure.
type Kind uint8

const (
	// MissingField: a required map key, or a required list position, is absent.
	MissingField Kind = iota + 1
	// TypeMismatch: the value has the wrong structural kind or primitive type.
	TypeMismatch
	// PredicateFailed: a predicate returned false.
	PredicateFailed
	// ValueMismatch: the value differs from a literal.
	ValueMismatch
	// DecodeError: the input text is not valid JSON.
	DecodeError
	// DepthExceeded: the schema nests deeper than the validator allows.
	DepthExceeded
)

var (
	ErrMissingField    = errors.New("missing field")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrPredicateFailed = errors.New("predicate failed")
	ErrValueMismatch   = errors.New("value mismatch")
	ErrDecode          = errors.New("decode error")
	ErrDepthExceeded   = errors.New("depth exceeded")
)

func (k Kind) String() string {
	switch k {
	case MissingField:
		return "MissingField"
	case TypeMismatch:
		return "TypeMismatch"
	case PredicateFailed:
		return "PredicateFailed"
	case ValueMismatch:
		return "ValueMismatch"
	case DecodeError:
		return "DecodeError"
	case DepthExceeded:
		return "DepthExceeded"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Sentinel returns the sentinel error matched by errors.Is for this kind.
func (k Kind) Sentinel() error {
	switch k {
	case MissingField:
		return ErrMissingField
	case TypeMismatch:
		return ErrTypeMismatch
	case PredicateFailed:
		return ErrPredicateFailed
	case ValueMismatch:
		return ErrValueMismatch
	case DecodeError:
		return ErrDecode
	case DepthExceeded:
		return ErrDepthExceeded
	default:
		return nil
	}
}

// Error is the single failure reported by a validation call.
type Error struct {
	Kind    Kind
	Path    Path
	Message string // Human-readable, already includes the rendered path
	Got     string // Rendered data value for PredicateFailed and ValueMismatch
	Err     error  // Underlying decoder error for DecodeError
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.Sentinel()
	return s != nil && target == s
}

// AsError returns the *Error inside err, if any.
func AsError(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// KindOf returns the Kind of a validation error, or false when err is not one.
func KindOf(err error) (Kind, bool) {
	if verr, ok := AsError(err); ok {
		return verr.Kind, true
	}
	return 0, false
}

func newError(kind Kind, path Path, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}
