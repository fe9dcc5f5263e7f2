// Copyright (C) 2024 The rill authors. All rights reserved.

package rill

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// An EventKind describes the kind of a parse event.
type EventKind byte

// Constants defining the valid EventKind values.
const (
	NoEvent      EventKind = iota // no event; the zero value
	BeginObject                   // the opening brace of an object
	EndObject                     // the closing brace of an object
	BeginArray                    // the opening bracket of an array
	EndArray                      // the closing bracket of an array
	ObjectKey                     // the key of an object member
	NullScalar                    // the null constant
	BoolScalar                    // a true or false constant
	NumberScalar                  // a number value
	StringScalar                  // a string value
)

var eventStr = [...]string{
	NoEvent:      "no event",
	BeginObject:  "BeginObject",
	EndObject:    "EndObject",
	BeginArray:   "BeginArray",
	EndArray:     "EndArray",
	ObjectKey:    "ObjectKey",
	NullScalar:   "Null",
	BoolScalar:   "Bool",
	NumberScalar: "Number",
	StringScalar: "String",
}

func (k EventKind) String() string {
	v := int(k)
	if v >= len(eventStr) {
		return eventStr[NoEvent]
	}
	return eventStr[v]
}

// An Event is a single unit of structural parsing output. Events are produced
// in document order; a BeginObject or BeginArray event always has a matching
// EndObject or EndArray at the same nesting depth unless an error terminates
// the stream first.
type Event struct {
	Kind EventKind
	Text string   // decoded text of an ObjectKey or StringScalar
	Num  float64  // value of a NumberScalar
	Bool bool     // value of a BoolScalar
	Loc  Location // location of the token that produced the event
}

// Sentinel errors reported (wrapped in a *SyntaxError) by the parser.
var (
	// ErrUnexpectedEOF is reported when the input ends with open containers,
	// or before any value has been seen.
	ErrUnexpectedEOF = errors.New("unexpected end of input")

	// ErrTrailingData is reported when non-blank input remains after the
	// single top-level value.
	ErrTrailingData = errors.New("trailing data after value")
)

// SyntaxError is the concrete type of structural errors reported by the
// parser.
type SyntaxError struct {
	Location LineCol
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// A context records what the parser expects next inside the innermost open
// container. The stack of contexts replaces the call stack of a recursive
// descent, so that parsing can be suspended and resumed between events and
// nesting depth is limited only by memory.
type context byte

const (
	arrayEmpty  context = iota // after "[": a value or "]"
	arrayComma                 // after ",": a value
	arrayNext                  // after a value: "," or "]"
	objectEmpty                // after "{": a key or "}"
	objectComma                // after ",": a key
	objectColon                // after a key: ":"
	objectValue                // after ":": a value
	objectNext                 // after a value: "," or "}"
)

// A Parser is a pull parser that consumes tokens from a Scanner and delivers
// a stream of events corresponding with the structure of the input. Each call
// to Next advances the parser by exactly one token beyond what is needed to
// determine the next event.
//
// The input must comprise exactly one JSON value: input that ends early and
// input with trailing non-blank data are both syntax errors.
type Parser struct {
	sc   *Scanner
	stk  []context // open containers, innermost last
	done bool      // the top-level value is complete
	end  bool      // the event stream is exhausted
	evt  Event
	err  error
}

// NewParser constructs a new Parser that consumes input from r.
func NewParser(r io.Reader) *Parser { return &Parser{sc: NewScanner(r)} }

// NewParserWithScanner constructs a new Parser that consumes input from sc.
func NewParserWithScanner(sc *Scanner) *Parser { return &Parser{sc: sc} }

// Next advances p to the next event of the input and reports whether one is
// available. Once Next has returned false, it returns false forever.
// Call Err to distinguish an error from the end of the document.
func (p *Parser) Next() bool {
	if p.err != nil || p.end {
		return false
	}
	for {
		if !p.sc.Next() {
			if err := p.sc.Err(); err != nil {
				p.err = err
			} else if len(p.stk) != 0 || !p.done {
				p.err = &SyntaxError{
					Location: p.sc.Location().Last,
					Message:  ErrUnexpectedEOF.Error(),
					err:      ErrUnexpectedEOF,
				}
			} else {
				p.end = true
			}
			return false
		}
		emitted, err := p.step(p.sc.Token())
		if err != nil {
			p.err = err
			return false
		} else if emitted {
			return true
		}
		// The token only changed state (":" or ","); pull another.
	}
}

// Event returns the current event. It is valid until the next call of Next.
func (p *Parser) Event() Event { return p.evt }

// Err returns the error that terminated parsing, or nil if parsing ended at
// the end of a complete document without error.
func (p *Parser) Err() error { return p.err }

// step consumes one token, updating the context stack. It reports whether an
// event was emitted; a token may legally change state without producing an
// event.
func (p *Parser) step(tok Token) (bool, error) {
	if len(p.stk) == 0 {
		if p.done {
			return false, p.syntaxError(ErrTrailingData, "%s %q", ErrTrailingData, p.sc.Text())
		}
		return p.stepValue(tok)
	}
	switch p.top() {
	case arrayEmpty:
		if tok == RSquare {
			p.pop()
			p.emit(EndArray)
			p.complete()
			return true, nil
		}
		return p.stepValue(tok)

	case arrayComma:
		return p.stepValue(tok)

	case arrayNext:
		switch tok {
		case Comma:
			p.setTop(arrayComma)
			return false, nil
		case RSquare:
			p.pop()
			p.emit(EndArray)
			p.complete()
			return true, nil
		}
		return false, p.unexpected(tok, Comma, RSquare)

	case objectEmpty:
		if tok == RBrace {
			p.pop()
			p.emit(EndObject)
			p.complete()
			return true, nil
		}
		return p.stepKey(tok, RBrace, String)

	case objectComma:
		return p.stepKey(tok, String)

	case objectColon:
		if tok != Colon {
			return false, p.unexpected(tok, Colon)
		}
		p.setTop(objectValue)
		return false, nil

	case objectValue:
		return p.stepValue(tok)

	case objectNext:
		switch tok {
		case Comma:
			p.setTop(objectComma)
			return false, nil
		case RBrace:
			p.pop()
			p.emit(EndObject)
			p.complete()
			return true, nil
		}
		return false, p.unexpected(tok, Comma, RBrace)
	}
	panic("unknown parser context") // unreachable
}

// stepValue consumes a token in value position.
func (p *Parser) stepValue(tok Token) (bool, error) {
	switch tok {
	case LBrace:
		p.push(objectEmpty)
		p.emit(BeginObject)
	case LSquare:
		p.push(arrayEmpty)
		p.emit(BeginArray)
	case String:
		p.emit(StringScalar)
		p.complete()
	case Number:
		p.emit(NumberScalar)
		p.complete()
	case True, False:
		p.emit(BoolScalar)
		p.complete()
	case Null:
		p.emit(NullScalar)
		p.complete()
	default:
		return false, p.syntaxError(nil, "expected a value, got %v", tok)
	}
	return true, nil
}

// stepKey consumes a token in object key position.
func (p *Parser) stepKey(tok Token, expected ...Token) (bool, error) {
	if tok != String {
		return false, p.unexpected(tok, expected...)
	}
	p.setTop(objectColon)
	p.emit(ObjectKey)
	return true, nil
}

// complete records that a value has been finished at the current nesting
// depth, advancing the enclosing container to its separator state.
func (p *Parser) complete() {
	if len(p.stk) == 0 {
		p.done = true
		return
	}
	switch p.top() {
	case arrayEmpty, arrayComma:
		p.setTop(arrayNext)
	case objectValue:
		p.setTop(objectNext)
	}
}

// emit records the current token as the current event.
func (p *Parser) emit(kind EventKind) {
	p.evt = Event{Kind: kind, Loc: p.sc.Location()}
	switch kind {
	case ObjectKey, StringScalar:
		p.evt.Text = p.sc.Unescape()
	case NumberScalar:
		p.evt.Num = p.sc.Float64()
	case BoolScalar:
		p.evt.Bool = p.sc.Bool()
	}
}

func (p *Parser) top() context     { return p.stk[len(p.stk)-1] }
func (p *Parser) setTop(c context) { p.stk[len(p.stk)-1] = c }
func (p *Parser) push(c context)   { p.stk = append(p.stk, c) }
func (p *Parser) pop()             { p.stk = p.stk[:len(p.stk)-1] }

func (p *Parser) unexpected(tok Token, expected ...Token) error {
	return p.syntaxError(nil, "%s", tokLabel(expected, tok))
}

func (p *Parser) syntaxError(err error, msg string, args ...any) error {
	return &SyntaxError{
		Location: p.sc.Location().First,
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	}
}

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token, got any) string {
	if len(tokens) == 0 {
		return fmt.Sprint(got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, len(tokens)-1)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}
