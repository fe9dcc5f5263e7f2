// Copyright (C) 2024 The rill authors. All rights reserved.

package rill

import "io"

// A Handler handles events from parsing an input stream. If a method reports
// an error, parsing stops and that error is returned to the caller.
// The parser ensures objects and arrays are correctly balanced.
type Handler interface {
	// Begin a new object, whose open brace produced e.
	BeginObject(e Event) error

	// End the most-recently-opened object, whose close brace produced e.
	EndObject(e Event) error

	// Begin a new array, whose open bracket produced e.
	BeginArray(e Event) error

	// End the most-recently-opened array, whose close bracket produced e.
	EndArray(e Event) error

	// Begin a new object member. The event is the member's key, with its
	// text already decoded.
	BeginMember(e Event) error

	// End the current object member. The event is the one that completed the
	// member's value.
	EndMember(e Event) error

	// Report a scalar value. The kind of the value and its decoded contents
	// are carried on the event.
	Value(e Event) error

	// EndOfInput reports the end of the input stream.
	EndOfInput(e Event)
}

// Stream adapts the event stream of a Parser to a push interface, delivering
// events to a Handler corresponding with the structure of the input.
type Stream struct {
	p *Parser
}

// NewStream constructs a new Stream that consumes input from r.
func NewStream(r io.Reader) *Stream { return &Stream{p: NewParser(r)} }

// NewStreamWithParser constructs a new Stream that consumes events from p.
func NewStreamWithParser(p *Parser) *Stream { return &Stream{p: p} }

// streamLevel records, for each open container, whether it is an object and
// whether one of its members is awaiting its value.
type streamLevel struct {
	object bool
	member bool
}

// Parse parses the input stream and delivers events to h until either an
// error occurs or the document is complete. In case of a syntax error, the
// returned error has type [*SyntaxError]; a lexical error has type
// [*LexError].
func (s *Stream) Parse(h Handler) error {
	var stk []streamLevel
	var last Event

	// endMember closes the pending member, if any, of the innermost open
	// container after one of its values has been completed by e.
	endMember := func(e Event) error {
		if n := len(stk); n != 0 && stk[n-1].object && stk[n-1].member {
			stk[n-1].member = false
			return h.EndMember(e)
		}
		return nil
	}

	for s.p.Next() {
		e := s.p.Event()
		last = e

		var err error
		switch e.Kind {
		case BeginObject:
			stk = append(stk, streamLevel{object: true})
			err = h.BeginObject(e)
		case BeginArray:
			stk = append(stk, streamLevel{})
			err = h.BeginArray(e)
		case ObjectKey:
			stk[len(stk)-1].member = true
			err = h.BeginMember(e)
		case EndObject:
			stk = stk[:len(stk)-1]
			if err = h.EndObject(e); err == nil {
				err = endMember(e)
			}
		case EndArray:
			stk = stk[:len(stk)-1]
			if err = h.EndArray(e); err == nil {
				err = endMember(e)
			}
		default:
			if err = h.Value(e); err == nil {
				err = endMember(e)
			}
		}
		if err != nil {
			return err
		}
	}
	if err := s.p.Err(); err != nil {
		return err
	}
	h.EndOfInput(Event{Kind: NoEvent, Loc: last.Loc})
	return nil
}
