package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultMaxDepth bounds how deep a schema may nest before validation gives
// up with DepthExceeded.
const DefaultMaxDepth = 1000

// Validator runs schema matches with a fixed root label and depth bound.
// A Validator holds no per-call state and is safe for concurrent use.
type Validator struct {
	root     string
	maxDepth int
}

// Option configures a Validator.
type Option func(*Validator)

// WithRoot sets the label rendered in front of every path,
// e.g. "hpos-config.json: ".
func WithRoot(label string) Option {
	return func(v *Validator) {
		v.root = label
	}
}

// WithMaxDepth sets the maximum schema nesting. Zero or less disables the bound.
func WithMaxDepth(depth int) Option {
	return func(v *Validator) {
		v.maxDepth = depth
	}
}

// NewValidator creates a Validator.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = NewValidator()

// Validate matches data against node starting at the root path.
// Returns nil or the first *Error found.
func (v *Validator) Validate(node Node, data any) error {
	return v.match(node, data, Root(v.root), 0)
}

// ValidateJSON decodes text and validates the result.
// Malformed text yields a DecodeError, never a schema mismatch.
func (v *Validator) ValidateJSON(node Node, text string) error {
	return v.ValidateBytes(node, []byte(text))
}

// ValidateBytes is ValidateJSON for a byte slice.
func (v *Validator) ValidateBytes(node Node, data []byte) error {
	decoded, err := v.Decode(data)
	if err != nil {
		return err
	}
	return v.Validate(node, decoded)
}

// Decode is DecodeJSON reporting failures as a DecodeError *Error
// rooted at the validator's label.
func (v *Validator) Decode(data []byte) (any, error) {
	decoded, err := DecodeJSON(data)
	if err != nil {
		return nil, v.decodeError(err)
	}
	return decoded, nil
}

// Match matches data against node at path.
func (v *Validator) Match(node Node, data any, path Path) error {
	return v.match(node, data, path, 0)
}

func (v *Validator) decodeError(err error) *Error {
	root := Root(v.root)
	label := strings.TrimRight(v.root, ": ")
	msg := "Failed to decode JSON"
	if label != "" {
		msg += " for " + label
	}
	return &Error{
		Kind:    DecodeError,
		Path:    root,
		Message: fmt.Sprintf("%s: %v", msg, err),
		Err:     err,
	}
}

func (v *Validator) match(node Node, data any, path Path, depth int) error {
	if v.maxDepth > 0 && depth > v.maxDepth {
		return newError(DepthExceeded, path, "Exceeded maximum schema depth %d at %s", v.maxDepth, where(path))
	}

	switch n := node.(type) {
	case *Fields:
		obj, ok := asMap(data)
		if !ok {
			return mismatch(path, "object", data)
		}
		for _, def := range n.defs {
			sub := path.Key(def.Name)
			value, found := obj[def.Name]
			if !found {
				return newError(MissingField, sub, "Missing %s with schema %s", sub, describe(def.Node))
			}
			if err := v.match(def.Node, value, sub, depth+1); err != nil {
				return err
			}
		}
		return nil

	case *List:
		items, ok := asList(data)
		if !ok {
			return mismatch(path, "array", data)
		}
		size := len(n.elems)
		for i, item := range items {
			var elem Node
			switch {
			case size == 1:
				elem = n.elems[0]
			case i < size:
				elem = n.elems[i]
			default:
				continue
			}
			if err := v.match(elem, item, path.Index(i), depth+1); err != nil {
				return err
			}
		}
		if size > 1 && len(items) < size {
			sub := path.Span(len(items), size)
			return newError(MissingField, sub, "Missing %s with schema %s", sub, describeAll(n.elems[len(items):]))
		}
		return nil

	case Type:
		if !n.Accepts(data) {
			return mismatch(path, n.Name(), data)
		}
		return nil

	case *Predicate:
		if !n.Test(data) {
			err := newError(PredicateFailed, path, "Expected %s to satisfy predicate %s", where(path), n.name)
			err.Got = formatValue(data)
			return err
		}
		return nil

	case *Literal:
		if !equalValues(n.value, data) {
			got := formatValue(data)
			err := newError(ValueMismatch, path, "Expected %s == %s, got %s", where(path), formatValue(n.value), got)
			err.Got = got
			return err
		}
		return nil

	default:
		return newError(TypeMismatch, path, "Expected %s to match a schema, got unsupported schema node %T", where(path), node)
	}
}

func mismatch(path Path, expected string, data any) *Error {
	return newError(TypeMismatch, path, "Expected %s of type %s, got %s", where(path), expected, kindName(data))
}

// where renders path for messages; the bare root reads as "document".
func where(path Path) string {
	if path.Len() == 0 {
		if path.root == "" {
			return "document"
		}
		return strings.TrimRight(path.root, ": ")
	}
	return path.String()
}

// Match matches data against node at path using the default validator.
func Match(node Node, data any, path Path) error {
	return defaultValidator.Match(node, data, path)
}

// Validate matches data against node with an empty initial path.
func Validate(node Node, data any) error {
	return defaultValidator.Validate(node, data)
}

// ValidateJSON decodes text and validates the result against node.
func ValidateJSON(node Node, text string) error {
	return defaultValidator.ValidateJSON(node, text)
}

// DecodeJSON decodes a single JSON value, keeping numbers as json.Number so
// integer and float literals stay distinguishable. Trailing data is an error.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("invalid character after top-level value at offset %d", dec.InputOffset())
	}
	return v, nil
}
