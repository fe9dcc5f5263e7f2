// Copyright (C) 2024 The rill authors. All rights reserved.

package rill

import (
	"errors"

	"github.com/rilljson/rill/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return `"` + string(escape.Quote(mem.S(src))) + `"` }

// Unquote decodes a JSON string value. Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
// Surrogate pairs of Unicode escapes are combined. Unquote reports an error
// for an invalid or incomplete escape sequence and for an unpaired surrogate.
func Unquote(src []byte) ([]byte, error) {
	if len(src) < 2 || src[0] != '"' || src[len(src)-1] != '"' {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(mem.B(src[1 : len(src)-1]))
}
