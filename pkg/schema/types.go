package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Node is one position of a schema tree.
// The set of implementations is closed: *Fields, *List, Type, *Predicate and *Literal.
type Node interface {
	// Describe returns a compact rendering of the node used in failure messages.
	Describe() string

	schemaNode()
}

// FieldDef is a single declared key of a Fields node.
type FieldDef struct {
	Name string
	Node Node
}

// Field pairs a key with the node its value must match.
func Field(name string, node Node) FieldDef {
	return FieldDef{Name: name, Node: node}
}

// Fields matches a map that holds every declared key.
// Keys are checked in declaration order.
type Fields struct {
	defs []FieldDef
}

// Object creates a Fields node. The definitions are copied.
func Object(defs ...FieldDef) *Fields {
	cp := make([]FieldDef, len(defs))
	copy(cp, defs)
	return &Fields{defs: cp}
}

// Len returns the number of declared keys.
func (f *Fields) Len() int { return len(f.defs) }

// Fields returns a copy of the declared keys in order.
func (f *Fields) Fields() []FieldDef {
	cp := make([]FieldDef, len(f.defs))
	copy(cp, f.defs)
	return cp
}

// Get returns the node declared for name.
func (f *Fields) Get(name string) (Node, bool) {
	for _, d := range f.defs {
		if d.Name == name {
			return d.Node, true
		}
	}
	return nil, false
}

func (f *Fields) Describe() string {
	parts := make([]string, len(f.defs))
	for i, d := range f.defs {
		parts[i] = fmt.Sprintf("%q: %s", d.Name, describe(d.Node))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (*Fields) schemaNode() {}

// List is a list pattern.
type List struct {
	elems []Node
}

// ListOf creates a List node. The elements are copied.
//
// With no elements any list matches. With one element every data element must
// match it. With more, data element i matches pattern element i and the data
// must hold at least as many elements as the pattern.
func ListOf(elems ...Node) *List {
	cp := make([]Node, len(elems))
	copy(cp, elems)
	return &List{elems: cp}
}

// Len returns the number of pattern positions.
func (l *List) Len() int { return len(l.elems) }

// Elems returns a copy of the pattern positions.
func (l *List) Elems() []Node {
	cp := make([]Node, len(l.elems))
	copy(cp, l.elems)
	return cp
}

func (l *List) Describe() string {
	return "[" + describeAll(l.elems) + "]"
}

func (*List) schemaNode() {}

// Type is a primitive type tag. Matching is by exact type: an Int tag rejects
// 1.5 and a Float tag rejects 1.
type Type uint8

const (
	String Type = iota + 1
	Int
	Float
	Bool
	Null
)

var typeNames = map[Type]string{
	String: "string",
	Int:    "int",
	Float:  "float",
	Bool:   "bool",
	Null:   "null",
}

// Name returns the human-readable name of the type (e.g., "string", "int").
func (t Type) Name() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

func (t Type) Describe() string { return t.Name() }

// Accepts reports whether value has exactly this type.
// Integers and floats decoded with json.Decoder.UseNumber are told apart by
// their literal text.
func (t Type) Accepts(value any) bool {
	if n, ok := value.(json.Number); ok {
		switch t {
		case Int:
			return isIntegral(n)
		case Float:
			return !isIntegral(n)
		default:
			return false
		}
	}
	if value == nil {
		return t == Null
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.String:
		return t == String
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return t == Int
	case reflect.Float32, reflect.Float64:
		return t == Float
	case reflect.Bool:
		return t == Bool
	default:
		return false
	}
}

func (Type) schemaNode() {}

// ParseType converts a type name to a Type.
// Supports "string", "int", "float", "bool" and "null".
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unsupported type: %s", name)
}

// Predicate applies a named user-defined check.
type Predicate struct {
	name string
	test func(any) bool
}

// Pred creates a predicate node. The name is reported when the check fails.
// fn receives the raw data value and must not modify it.
func Pred(name string, fn func(any) bool) *Predicate {
	return &Predicate{name: name, test: fn}
}

func (p *Predicate) Name() string { return p.name }

// Test runs the predicate.
func (p *Predicate) Test(value any) bool {
	if p.test == nil {
		return false
	}
	return p.test(value)
}

func (p *Predicate) Describe() string { return p.name }

func (*Predicate) schemaNode() {}

// Literal matches a value equal to a fixed scalar.
// Numbers compare by numeric value across representations, so Lit(1) matches
// json.Number("1"), int64(1) and 1.0.
type Literal struct {
	value any
}

// Lit creates a literal node.
func Lit(value any) *Literal {
	return &Literal{value: value}
}

func (l *Literal) Value() any { return l.value }

func (l *Literal) Describe() string { return formatValue(l.value) }

func (*Literal) schemaNode() {}

func describe(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Describe()
}

func describeAll(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = describe(n)
	}
	return strings.Join(parts, ", ")
}

func isIntegral(n json.Number) bool {
	return !strings.ContainsAny(string(n), ".eE")
}
