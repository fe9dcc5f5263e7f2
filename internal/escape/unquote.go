// Copyright (C) 2024 The rill authors. All rights reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. A surrogate
// pair of Unicode escapes is combined into the single rune it denotes.
// Unquote reports an error for an invalid or incomplete escape sequence, and
// for a surrogate escape without its mate.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		dec = mem.Append(dec, src)
		return dec, nil
	}

	putByte := func(bs ...byte) { dec = append(dec, bs...) }
	putRune := func(r rune) {
		var buf [6]byte
		n := utf8.EncodeRune(buf[:], r)
		dec = append(dec, buf[:n]...)
	}
	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))

		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}
		r, n := mem.DecodeRune(src)
		if n == 0 {
			n++
		}

		src = src.SliceFrom(n)
		switch r {
		case '"', '\\', '/':
			putByte(byte(r))
		case 'b':
			putByte('\b')
		case 'f':
			putByte('\f')
		case 'n':
			putByte('\n')
		case 'r':
			putByte('\r')
		case 't':
			putByte('\t')
		case 'u':
			v, rest, err := decodeHex(src)
			if err != nil {
				return nil, err
			}
			src = rest
			if utf16.IsSurrogate(v) {
				// A high surrogate must be immediately followed by a low
				// surrogate escape, together denoting one code point.
				w, rest, err := decodeSurrogate(src)
				if err != nil {
					return nil, err
				}
				c := utf16.DecodeRune(v, w)
				if c == utf8.RuneError {
					return nil, fmt.Errorf("unpaired surrogate %04x", v)
				}
				src = rest
				putRune(c)
			} else {
				putRune(v)
			}
		default:
			return nil, fmt.Errorf("invalid %q after escape", r)
		}

		// Look for the next escape sequence, and if one is not found we can blit
		// the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// decodeHex decodes a 4-digit hexadecimal rune value from the front of src,
// returning the value and the unconsumed remainder of src.
func decodeHex(src mem.RO) (rune, mem.RO, error) {
	if src.Len() < 4 {
		return 0, src, errors.New("incomplete Unicode escape")
	}
	v, err := parseHex(src.SliceTo(4))
	if err != nil {
		return 0, src, err
	}
	return rune(v), src.SliceFrom(4), nil
}

// decodeSurrogate decodes a full `\uXXXX` escape from the front of src.
func decodeSurrogate(src mem.RO) (rune, mem.RO, error) {
	if src.Len() < 2 || src.At(0) != '\\' || src.At(1) != 'u' {
		return 0, src, errors.New("unpaired surrogate")
	}
	return decodeHex(src.SliceFrom(2))
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}
