package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeAccepts(t *testing.T) {
	type named string

	tests := []struct {
		typ   Type
		value any
		want  bool
	}{
		{String, "hello", true},
		{String, "", true},
		{String, named("x"), true},
		{String, json.Number("1"), false},
		{String, 42, false},
		{String, nil, false},

		{Int, 42, true},
		{Int, int8(4), true},
		{Int, uint64(4), true},
		{Int, json.Number("42"), true},
		{Int, json.Number("-7"), true},
		{Int, json.Number("42.0"), false},
		{Int, json.Number("1e3"), false},
		{Int, 42.0, false},
		{Int, true, false},
		{Int, "42", false},

		{Float, 3.14, true},
		{Float, float32(3.14), true},
		{Float, json.Number("3.14"), true},
		{Float, json.Number("1E-2"), true},
		{Float, json.Number("3"), false},
		{Float, 3, false},

		{Bool, true, true},
		{Bool, false, true},
		{Bool, 1, false},
		{Bool, "true", false},

		{Null, nil, true},
		{Null, "", false},
		{Null, 0, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.Accepts(tt.value), "%s.Accepts(%#v)", tt.typ.Name(), tt.value)
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		want    Type
		wantErr bool
	}{
		{"string", String, false},
		{"int", Int, false},
		{"float", Float, false},
		{"bool", Bool, false},
		{"null", Null, false},
		{"[string]", 0, true},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		typ, err := ParseType(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "ParseType(%q)", tt.input)
			continue
		}
		require.NoError(t, err, "ParseType(%q)", tt.input)
		assert.Equal(t, tt.want, typ)
		assert.Equal(t, tt.input, typ.Name())
	}
}

func TestConstructorsCopyInputs(t *testing.T) {
	defs := []FieldDef{Field("a", Int)}
	obj := Object(defs...)
	defs[0] = Field("b", String)

	n, ok := obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, Int, n)
	_, ok = obj.Get("b")
	assert.False(t, ok)

	elems := []Node{Int, String}
	list := ListOf(elems...)
	elems[0] = Bool
	assert.Equal(t, []Node{Int, String}, list.Elems())

	got := obj.Fields()
	got[0].Name = "mutated"
	assert.Equal(t, "a", obj.Fields()[0].Name)
}

func TestDescribe(t *testing.T) {
	isEmail := Pred("is_email", func(any) bool { return true })
	s := Object(
		Field("name", String),
		Field("tags", ListOf(String)),
		Field("pair", ListOf(Int, Float)),
		Field("any", ListOf()),
		Field("email", isEmail),
		Field("version", Lit(1)),
		Field("kind", Lit("admin")),
		Field("gone", Lit(nil)),
	)

	assert.Equal(t,
		`{"name": string, "tags": [string], "pair": [int, float], "any": [], "email": is_email, "version": 1, "kind": "admin", "gone": null}`,
		s.Describe())
}

func TestPredicateNilFunc(t *testing.T) {
	p := Pred("broken", nil)
	assert.False(t, p.Test("anything"))
	assert.Equal(t, "broken", p.Name())
}
