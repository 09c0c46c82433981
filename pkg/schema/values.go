package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
)

// asMap returns data as a string-keyed map. Decoded JSON is always
// map[string]any; other string-keyed maps are viewed through reflection.
func asMap(data any) (map[string]any, bool) {
	if m, ok := data.(map[string]any); ok {
		return m, true
	}
	if data == nil {
		return nil, false
	}
	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}

// asList returns data as a slice of elements.
func asList(data any) ([]any, bool) {
	if l, ok := data.([]any); ok {
		return l, true
	}
	if data == nil {
		return nil, false
	}
	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	l := make([]any, rv.Len())
	for i := range l {
		l[i] = rv.Index(i).Interface()
	}
	return l, true
}

// kindName names the structural kind of a data value for messages.
func kindName(v any) string {
	if _, ok := asMap(v); ok {
		return "object"
	}
	if _, ok := asList(v); ok {
		return "array"
	}
	for _, t := range []Type{String, Int, Float, Bool, Null} {
		if t.Accepts(v) {
			return t.Name()
		}
	}
	return fmt.Sprintf("%T", v)
}

// formatValue renders a data or literal value for messages.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case json.Number:
		return x.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// number is a numeric value normalized for comparison.
// Integers keep arbitrary precision; everything else is a float64.
type number struct {
	integer *big.Int
	float   float64
}

func toNumber(v any) (number, bool) {
	switch x := v.(type) {
	case json.Number:
		if isIntegral(x) {
			if i, ok := new(big.Int).SetString(string(x), 10); ok {
				return number{integer: i}, true
			}
		}
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return number{}, false
		}
		return number{float: f}, true
	case nil, bool:
		return number{}, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{integer: big.NewInt(rv.Int())}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return number{integer: new(big.Int).SetUint64(rv.Uint())}, true
	case reflect.Float32, reflect.Float64:
		return number{float: rv.Float()}, true
	default:
		return number{}, false
	}
}

func (n number) equal(o number) bool {
	if n.integer != nil && o.integer != nil {
		return n.integer.Cmp(o.integer) == 0
	}
	if n.integer != nil {
		return intEqualsFloat(n.integer, o.float)
	}
	if o.integer != nil {
		return intEqualsFloat(o.integer, n.float)
	}
	return n.float == o.float
}

func intEqualsFloat(i *big.Int, f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return new(big.Float).SetInt(i).Cmp(big.NewFloat(f)) == 0
}

// equalValues implements literal matching: numbers by numeric value, other
// scalars by exact value. Booleans are never numbers.
func equalValues(want, got any) bool {
	if wn, ok := toNumber(want); ok {
		gn, ok := toNumber(got)
		return ok && wn.equal(gn)
	}
	switch w := want.(type) {
	case nil:
		return got == nil
	case string:
		g, ok := got.(string)
		return ok && g == w
	case bool:
		g, ok := got.(bool)
		return ok && g == w
	}
	return reflect.DeepEqual(want, got)
}
