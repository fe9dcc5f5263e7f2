// Copyright (C) 2024 The rill authors. All rights reserved.

package ast

import (
	"io"

	"github.com/rilljson/rill"
)

// indentUnit is the indentation added per nesting level when pretty-printing.
const indentUnit = "  "

// Format renders a pretty-printed representation of v to w: two-space
// indentation per nesting level, one element per line, and empty arrays and
// objects rendered on one line as "[]" and "{}". The output has no trailing
// newline.
func Format(w io.Writer, v Value) error {
	_, err := w.Write(appendPretty(nil, v, ""))
	return err
}

// FormatToString renders a pretty-printed representation of v to a string.
func FormatToString(v Value) string { return string(appendPretty(nil, v, "")) }

// appendPretty appends the indented rendering of v to buf. The indent is the
// prefix for the current nesting level; it is applied to nested elements and
// to closing brackets, not to v itself.
func appendPretty(buf []byte, v Value, indent string) []byte {
	switch t := v.(type) {
	case Array:
		if len(t) == 0 {
			return append(buf, "[]"...)
		}
		inner := indent + indentUnit
		buf = append(buf, '[', '\n')
		for i, elt := range t {
			if i != 0 {
				buf = append(buf, ',', '\n')
			}
			buf = append(buf, inner...)
			buf = appendPretty(buf, elt, inner)
		}
		buf = append(buf, '\n')
		buf = append(buf, indent...)
		return append(buf, ']')
	case Object:
		if len(t) == 0 {
			return append(buf, "{}"...)
		}
		inner := indent + indentUnit
		buf = append(buf, '{', '\n')
		for i, key := range t.sortedKeys() {
			if i != 0 {
				buf = append(buf, ',', '\n')
			}
			buf = append(buf, inner...)
			buf = append(buf, rill.Quote(key)...)
			buf = append(buf, ':', ' ')
			buf = appendPretty(buf, t[key], inner)
		}
		buf = append(buf, '\n')
		buf = append(buf, indent...)
		return append(buf, '}')
	default:
		return appendValue(buf, v)
	}
}
