// Copyright (C) 2024 The rill authors. All rights reserved.

// Package ast defines a concrete representation for JSON values, a parser
// that builds values from JSON source, and serializers that render values
// back into JSON text.
package ast

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/rilljson/rill"
)

// A Value is an arbitrary JSON value. The JSON method renders the value as
// compact JSON text.
type Value interface {
	JSON() string
}

// Null is the JSON null constant.
var Null Value = nullValue{}

type nullValue struct{}

// JSON satisfies the Value interface.
func (nullValue) JSON() string { return "null" }

func (nullValue) String() string { return "null" }

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string {
	if b {
		return "true"
	}
	return "false"
}

// A Number is a JSON number, represented as a float64.
type Number float64

// JSON satisfies the Value interface.
func (n Number) JSON() string { return string(appendNumber(nil, n)) }

// Float64 returns the value of n as a float64.
func (n Number) Float64() float64 { return float64(n) }

// Float constructs a Number from a float64.
func Float(f float64) Number { return Number(f) }

// Int constructs a Number from an int64.
func Int(z int64) Number { return Number(z) }

// A String is a JSON string value. Its contents are unencoded; escaping is
// applied during serialization.
type String string

// JSON satisfies the Value interface.
func (s String) JSON() string { return rill.Quote(string(s)) }

// An Array is an ordered sequence of values.
type Array []Value

// JSON satisfies the Value interface.
func (a Array) JSON() string { return string(appendValue(nil, a)) }

// Len returns the number of elements in a.
func (a Array) Len() int { return len(a) }

// An Object is a mapping from keys to values. Keys are unique and their
// order is unspecified; serialization renders them in sorted order.
type Object map[string]Value

// JSON satisfies the Value interface.
func (o Object) JSON() string { return string(appendValue(nil, o)) }

// Len returns the number of members of o.
func (o Object) Len() int { return len(o) }

// sortedKeys returns the keys of o in sorted order.
func (o Object) sortedKeys() []string {
	keys := make([]string, 0, len(o))
	for key := range o {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// ToValue converts a plain Go value of a compatible type into a Value.
// It supports nil, bool, string, the built-in numeric types, ast.Value,
// []any, and map[string]any. ToValue panics if it is given a value outside
// this set.
func ToValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		return Float(t)
	case string:
		return String(t)
	case []any:
		out := make(Array, len(t))
		for i, elt := range t {
			out[i] = ToValue(elt)
		}
		return out
	case map[string]any:
		out := make(Object, len(t))
		for key, elt := range t {
			out[key] = ToValue(elt)
		}
		return out
	case Value:
		return t
	default:
		panic(fmt.Sprintf("invalid value %T", v))
	}
}

// appendValue appends the compact JSON rendering of v to buf.
func appendValue(buf []byte, v Value) []byte {
	switch t := v.(type) {
	case nullValue:
		return append(buf, "null"...)
	case Bool:
		return append(buf, t.JSON()...)
	case Number:
		return appendNumber(buf, t)
	case String:
		return append(buf, rill.Quote(string(t))...)
	case Array:
		buf = append(buf, '[')
		for i, elt := range t {
			if i != 0 {
				buf = append(buf, ',')
			}
			buf = appendValue(buf, elt)
		}
		return append(buf, ']')
	case Object:
		buf = append(buf, '{')
		for i, key := range t.sortedKeys() {
			if i != 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, rill.Quote(key)...)
			buf = append(buf, ':')
			buf = appendValue(buf, t[key])
		}
		return append(buf, '}')
	default:
		return append(buf, v.JSON()...)
	}
}

// appendNumber appends the text rendering of n to buf, using the shortest
// representation that parses back to the same value.
func appendNumber(buf []byte, n Number) []byte {
	return strconv.AppendFloat(buf, float64(n), 'g', -1, 64)
}
