// Copyright (C) 2024 The rill authors. All rights reserved.

package rill_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rilljson/rill"
)

func TestStream(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`true`, "Value true\n."},
		{`"a b c"`, `
Value string "a b c"
.`},

		{`{}`, "BeginObject\nEndObject\n."},
		{`[]`, "BeginArray\nEndArray\n."},

		{`{"a":15}`, `
BeginObject
BeginMember "a"
Value number 15
EndMember
EndObject
.`},

		{`{"x":null, "y":[true]}`, `
BeginObject
BeginMember "x"
Value null
EndMember
BeginMember "y"
BeginArray
Value true
EndArray
EndMember
EndObject
.`},

		{`{"out":{"in":[0]}}`, `
BeginObject
BeginMember "out"
BeginObject
BeginMember "in"
BeginArray
Value number 0
EndArray
EndMember
EndObject
EndMember
EndObject
.`},
	}

	for _, test := range tests {
		st := rill.NewStream(strings.NewReader(test.input))
		th := new(testHandler)
		if err := st.Parse(th); err != nil {
			t.Errorf("Parse failed: %v", err)
		}

		if diff := diffStrings(test.want, th.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestStreamErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`{`, `BeginObject`},
		{`{"true":}`, "BeginObject\nBeginMember \"true\""},
		{`[15,]`, "BeginArray\nValue number 15"},
		{`"what did you`, ``},
	}

	for _, test := range tests {
		st := rill.NewStream(strings.NewReader(test.input))
		th := new(testHandler)
		err := st.Parse(th)
		if err == nil {
			t.Errorf("Input: %#q\nParse did not report an error", test.input)
			continue
		}
		if diff := diffStrings(test.want, th.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
	}
}

// An error from a handler method must stop the parse and surface unchanged.
func TestStreamHandlerError(t *testing.T) {
	errStop := errors.New("stop here")
	st := rill.NewStream(strings.NewReader(`[1, [2], 3]`))
	th := &testHandler{failArray: errStop}

	if err := st.Parse(th); !errors.Is(err, errStop) {
		t.Errorf("Parse: got %v, want %v", err, errStop)
	}
	const want = "BeginArray\nValue number 1"
	if diff := diffStrings(want, th.output()); diff != "" {
		t.Errorf("Output: (-want, +got)\n%s", diff)
	}
}

func diffStrings(want, got string) string {
	return cmp.Diff(strings.Split(strings.TrimSpace(want), "\n"),
		strings.Split(strings.TrimSpace(got), "\n"))
}

type testHandler struct {
	buf       bytes.Buffer
	narray    int
	failArray error // if set, fail the second BeginArray with this error
}

func (t *testHandler) pr(msg string, args ...any) {
	fmt.Fprintf(&t.buf, msg+"\n", args...)
}

func (t *testHandler) output() string { return t.buf.String() }

func (t *testHandler) BeginObject(rill.Event) error { t.pr("BeginObject"); return nil }
func (t *testHandler) EndObject(rill.Event) error   { t.pr("EndObject"); return nil }
func (t *testHandler) EndArray(rill.Event) error    { t.pr("EndArray"); return nil }
func (t *testHandler) EndMember(rill.Event) error   { t.pr("EndMember"); return nil }
func (t *testHandler) EndOfInput(rill.Event)        { t.pr(".") }

func (t *testHandler) BeginArray(rill.Event) error {
	t.narray++
	if t.failArray != nil && t.narray > 1 {
		return t.failArray
	}
	t.pr("BeginArray")
	return nil
}

func (t *testHandler) BeginMember(e rill.Event) error {
	t.pr("BeginMember %q", e.Text)
	return nil
}

func (t *testHandler) Value(e rill.Event) error {
	switch e.Kind {
	case rill.NullScalar:
		t.pr("Value null")
	case rill.BoolScalar:
		t.pr("Value %v", e.Bool)
	case rill.NumberScalar:
		t.pr("Value number %v", e.Num)
	case rill.StringScalar:
		t.pr("Value string %q", e.Text)
	default:
		t.pr("Value ??? %v", e.Kind)
	}
	return nil
}
