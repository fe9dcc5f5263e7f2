// Copyright (C) 2024 The rill authors. All rights reserved.

package rill

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/rilljson/rill/internal/escape"
	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Number               // number literal
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// A LexError reports a lexical error at a specific location in the input.
type LexError struct {
	Pos    LineCol // position of the offending input
	Offset int     // byte offset of the offending input, 0-based
	err    error
}

func (e *LexError) Error() string { return fmt.Sprintf("at %s: %s", e.Pos, e.err.Error()) }

// Unwrap supports error wrapping.
func (e *LexError) Unwrap() error { return e.err }

// A Scanner reads lexical tokens from an input stream. Each call to Next
// advances the scanner to the next token, or reports an error.
type Scanner struct {
	r   *bufio.Reader
	buf bytes.Buffer // current token, as written in the input
	dec []byte       // decoded text of the current string token
	tok Token
	err error

	pos, end int // start and end offsets of current token
	last     int // size in bytes of last-read input rune

	// Line and column offsets (0-based internally)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br}
}

// Next advances s to the next token of the input and reports whether one is
// available. Once Next has returned false, it returns false forever.
// Call Err to distinguish an error from the end of the input.
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}
	s.buf.Reset()
	s.dec = nil
	s.tok = Invalid
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol

	for {
		ch, err := s.rune()
		if err == io.EOF {
			return false
		} else if err != nil {
			return s.fail(err)
		}

		// Discard whitespace.
		if isSpace(ch) {
			if ch == '\n' {
				s.eline++
				s.ecol = 0
			}
			s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
			continue
		}

		// Handle punctuation.
		if t, ok := selfDelim(ch); ok {
			s.buf.WriteRune(ch)
			s.tok = t
			return true
		}

		// Handle numbers.
		if isNumStart(ch) {
			return s.scanNumber(ch)
		}

		// Handle string values.
		if ch == '"' {
			return s.scanString(ch)
		}

		// Handle constants: true, false, null
		var want mem.RO
		switch ch {
		case 't':
			s.tok = True
			want = mem.S("true")
		case 'f':
			s.tok = False
			want = mem.S("false")
		case 'n':
			s.tok = Null
			want = mem.S("null")
		default:
			return s.failf("unexpected %q", ch)
		}
		if !s.scanName(ch) {
			return false
		} else if got := mem.B(s.buf.Bytes()); !got.Equal(want) {
			return s.failf("unknown constant %q", got.StringCopy())
		}
		return true // OK, token is already set
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the error that terminated scanning, or nil if scanning ended at
// the end of the input without error.
func (s *Scanner) Err() error { return s.err }

// Text returns the text of the current token as written in the input.
// The return value is only valid until the next call of Next. The caller must
// copy the contents of the returned slice if it is needed beyond that.
func (s *Scanner) Text() []byte { return s.buf.Bytes() }

// Unescape returns the decoded text of the current token. For a String token
// this is the content of the string with quotes removed and escapes replaced;
// for all other tokens it is the token text.
func (s *Scanner) Unescape() string {
	if s.tok == String {
		return string(s.dec)
	}
	return s.buf.String()
}

// Float64 returns the value of the current token as a float64.
// It panics if the current token is not a Number.
func (s *Scanner) Float64() float64 {
	if s.tok != Number {
		panic("token is not a number")
	}
	v, err := strconv.ParseFloat(s.buf.String(), 64)
	if err != nil {
		panic(err)
	}
	return v
}

// Bool returns the truth value of the current token.
// It panics if the current token is not True or False.
func (s *Scanner) Bool() bool {
	if s.tok != True && s.tok != False {
		panic("token is not a Boolean constant")
	}
	return s.tok == True
}

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol + 1},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol + 1},
	}
}

func (s *Scanner) scanString(open rune) bool {
	s.buf.WriteRune(open)
	for {
		ch, err := s.rune()
		if err == io.EOF {
			return s.failf("unterminated string")
		} else if err != nil {
			return s.fail(err)
		} else if ch == open {
			s.buf.WriteRune(ch)
			s.tok = String
			return s.decodeString()
		}
		if ch == '\\' {
			if !s.scanEscape() {
				return false
			}
		} else if ch < ' ' {
			return s.failf("unescaped control %q", ch)
		} else if ch > unicode.MaxRune {
			return s.failf("invalid Unicode rune %q", ch)
		} else {
			s.buf.WriteRune(ch)
		}
	}
}

// scanEscape consumes the remainder of a \-escape whose backslash has already
// been read, validating that it denotes a character. A `\u` escape for a high
// surrogate must be followed by a `\u` escape for a low surrogate, together
// denoting a single character; an unpaired surrogate is a lexical error.
func (s *Scanner) scanEscape() bool {
	s.buf.WriteByte('\\')
	ch, err := s.rune()
	if err != nil {
		return s.fail(err)
	}
	switch ch {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		s.buf.WriteByte(byte(ch))
		return true
	case 'u':
		s.buf.WriteByte(byte(ch))
		v, err := s.readHex4()
		if err != nil {
			return s.failf("invalid Unicode escape: %w", err)
		}
		if !utf16.IsSurrogate(v) {
			return true
		} else if v >= 0xDC00 {
			return s.failf("unpaired low surrogate %04x", v)
		}
		return s.scanLowSurrogate(v)
	default:
		return s.failf("invalid %q after escape", ch)
	}
}

// scanLowSurrogate consumes the `\uXXXX` escape that must follow the high
// surrogate hi.
func (s *Scanner) scanLowSurrogate(hi rune) bool {
	for _, want := range "\\u" {
		ch, err := s.rune()
		if err != nil || ch != want {
			return s.failf("unpaired high surrogate %04x", hi)
		}
		s.buf.WriteByte(byte(ch))
	}
	lo, err := s.readHex4()
	if err != nil {
		return s.failf("invalid Unicode escape: %w", err)
	} else if lo < 0xDC00 || lo > 0xDFFF {
		return s.failf("unpaired high surrogate %04x", hi)
	}
	return true
}

// decodeString records the decoded text of the string token.
// Precondition: s.buf holds a complete string token including its quotes,
// with all escapes already validated.
func (s *Scanner) decodeString() bool {
	raw := s.buf.Bytes()
	dec, err := escape.Unquote(mem.B(raw[1 : len(raw)-1]))
	if err != nil {
		return s.fail(err)
	}
	s.dec = dec
	return true
}

func (s *Scanner) scanNumber(start rune) bool {
	s.buf.WriteRune(start)
	s.tok = Number

	if start == '-' {
		// If there is a leading sign, we need at least one digit.
		// Otherwise, we already have one in start.
		ch, ok := s.require(isDigit, "digit")
		if !ok {
			return false
		}
		s.buf.WriteRune(ch)
	}

	// Consume the remainder of an integer.
	_, ch, err := s.readWhile(isDigit)
	if err == io.EOF {
		if hasExtraLeadingZeroes(s.buf.Bytes()) {
			return s.failf("extra leading zeroes")
		}
		return true
	} else if err != nil {
		return s.fail(err)
	}

	// Check for extra leading zeroes, which are disallowed by the JSON spec.
	// That is: 0.12 is OK, 01.2 is not.
	if hasExtraLeadingZeroes(s.buf.Bytes()) {
		return s.failf("extra leading zeroes")
	}

	// If a decimal point follows, consume a fractional part.
	if ch == '.' {
		s.buf.WriteRune(ch)
		var nr int
		nr, ch, err = s.readWhile(isDigit)
		if err != nil && err != io.EOF {
			return s.fail(err)
		} else if nr == 0 {
			return s.failf("no digits after decimal point")
		} else if err == io.EOF {
			return true
		}
	}

	// If an exponent follows, consume it.
	if ch != 'E' && ch != 'e' {
		s.unrune()
		return true
	}

	s.buf.WriteRune(ch)
	ch, ok := s.require(isExpStart, "sign or digit")
	if !ok {
		return false
	}
	s.buf.WriteRune(ch)
	nr, _, err := s.readWhile(isDigit)
	if nr == 0 && (ch == '-' || ch == '+') {
		// It's OK to have no digits if the previous rune was not a sign,
		// otherwise we have to have at least one.
		return s.failf("missing exponent digits")
	} else if err == io.EOF {
		return true
	} else if err != nil {
		return s.fail(err)
	}
	s.unrune()
	return true
}

// scanName consumes the tail of a bare name constant beginning with first.
func (s *Scanner) scanName(first rune) bool {
	s.buf.WriteRune(first)
	_, _, err := s.readWhile(isNameRune)
	if err == io.EOF {
		return true
	} else if err != nil {
		return s.fail(err)
	}
	s.unrune()
	return true
}

func (s *Scanner) rune() (rune, error) {
	ch, nb, err := s.r.ReadRune()
	s.last = nb
	s.end += nb
	if nb > 0 {
		s.ecol++ // columns count runes, offsets count bytes
	}
	return ch, err
}

func (s *Scanner) unrune() {
	s.end -= s.last
	if s.last > 0 {
		s.ecol--
	}
	s.last = 0
	s.r.UnreadRune()
}

// require reads a single rune matching f from the input, or reports an error
// mentioning the desired label.
func (s *Scanner) require(f func(rune) bool, label string) (rune, bool) {
	ch, err := s.rune()
	if err != nil {
		return 0, s.failf("want %s, got error: %w", label, err)
	} else if !f(ch) {
		return 0, s.failf("got %q, want %s", ch, label)
	}
	return ch, true
}

// readWhile consumes runes matching f from the input until EOF or until a rune
// not matching f is found. The first non-matching rune (if any) is returned.
// It is the caller's responsibility to unread this rune, if desired.
// The int reports the number of runes consumed.
func (s *Scanner) readWhile(f func(rune) bool) (int, rune, error) {
	var nr int
	for {
		ch, err := s.rune()
		if err != nil {
			return nr, 0, err
		} else if !f(ch) {
			return nr, ch, nil
		}
		s.buf.WriteRune(ch)
		nr++
	}
}

// readHex4 reads exactly 4 hexadecimal digits from the input and returns the
// rune value they denote.
func (s *Scanner) readHex4() (rune, error) {
	var v rune
	for i := 0; i < 4; i++ {
		ch, err := s.rune()
		if err != nil {
			return 0, err
		} else if !isHexDigit(ch) {
			return 0, fmt.Errorf("not a hex digit: %q", ch)
		}
		s.buf.WriteRune(ch)
		v = v<<4 | hexValue(ch)
	}
	return v, nil
}

func (s *Scanner) fail(err error) bool {
	s.err = &LexError{Pos: s.errPos(), Offset: s.end - s.last, err: err}
	return false
}

func (s *Scanner) failf(msg string, args ...any) bool {
	return s.fail(fmt.Errorf(msg, args...))
}

// errPos returns the position of the last-read rune, at which an error is
// reported.
func (s *Scanner) errPos() LineCol {
	col := s.ecol
	if s.last > 0 {
		col-- // back up to the offending rune
	}
	return LineCol{Line: s.eline + 1, Column: col + 1}
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch rune) bool { return ch == '-' || isDigit(ch) }
func isExpStart(ch rune) bool { return ch == '-' || ch == '+' || isDigit(ch) }
func isDigit(ch rune) bool    { return '0' <= ch && ch <= '9' }
func isNameRune(ch rune) bool { return ch >= 'a' && ch <= 'z' }

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch rune) rune {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0'
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10
	default:
		return ch - 'A' + 10
	}
}

// hasExtraLeadingZeroes reports whether the representation of an integer in
// buf has redundant leading zeroes, which JSON disallows.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(buf []byte) bool {
	if buf[0] == '-' {
		buf = buf[1:] // skip leading sign
	}
	if buf[0] == '0' {
		// A leading zero is OK if it's the only digit.
		return len(buf) > 1
	}
	return false
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch rune) (Token, bool) {
	i := strings.IndexRune("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
