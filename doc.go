// Copyright (C) 2024 The rill authors. All rights reserved.

// Package rill implements a JSON scanner and a pull-based streaming parser.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON. Construct a scanner
// from an io.Reader and call its Next method to iterate over the stream. Next
// advances to the next input token and reports whether one is available:
//
//	s := rill.NewScanner(input)
//	for s.Next() {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Once the input is exhausted or an error occurs, Next returns false. Err
// reports the error that ended the scan, or nil at a clean end of input.
// Lexical errors have concrete type [*LexError] and carry the line and column
// of the offending input.
//
//	if s.Err() != nil {
//	   log.Fatalf("Scanning failed: %v", s.Err())
//	}
//
// # Parsing
//
// The Parser type implements a streaming parser for JSON. The parser pulls
// tokens from a scanner and delivers a sequence of events describing the
// structure of the input: objects and arrays opening and closing, object
// keys, and scalar values. Events are delivered one at a time, on demand, in
// document order, so a consumer may stop at any point without reading the
// rest of the input:
//
//	p := rill.NewParser(input)
//	for p.Next() {
//	   log.Printf("Event: %v", p.Event().Kind)
//	}
//	if p.Err() != nil {
//	   log.Fatalf("Parse failed: %v", p.Err())
//	}
//
// The parser keeps an explicit stack of open containers rather than
// recursing, so deeply nested input costs heap proportional to its depth and
// cannot exhaust the call stack. An input must contain exactly one JSON
// value; structural errors have concrete type [*SyntaxError].
//
// # Handlers
//
// The Stream type adapts the event stream to a push interface. Its Parse
// method walks the events of a document and invokes the corresponding
// methods of a Handler value:
//
//	JSON type  | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { ... }
//	array      | BeginArray, EndArray      | [ ... ]
//	member     | BeginMember, EndMember    | "key": value
//	value      | Value                     | true, false, null, number, string
//	--         | EndOfInput                | end of input
//
// If a handler method reports an error, parsing stops and that error is
// returned to the caller.
//
// To materialize a document as a concrete value, use the ast subpackage.
package rill
