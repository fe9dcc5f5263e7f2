// Copyright (C) 2024 The rill authors. All rights reserved.

package ast_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rilljson/rill"
	"github.com/rilljson/rill/ast"
)

func TestParse(t *testing.T) {
	input, err := os.ReadFile("../testdata/input.json")
	if err != nil {
		t.Fatalf("Reading test input: %v", err)
	}

	start := time.Now()
	v, err := ast.Parse(bytes.NewReader(input))
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	t.Logf("Parsed %d bytes [%v elapsed]", len(input), elapsed)

	// Inspect some of the structure of the test value to make sure we got
	// something approximating sense.
	//
	// If the testdata file changes, this may need to be updated.

	root, ok := v.(ast.Object)
	if !ok {
		t.Fatalf("Root is %T, not object", v)
	}
	lst, ok := root["stations"].(ast.Array)
	if !ok {
		t.Fatalf(`Key "stations" value is %T, not array`, root["stations"])
	} else if len(lst) == 0 {
		t.Fatal("Array value is empty")
	}
	obj, ok := lst[1].(ast.Object)
	if !ok {
		t.Fatalf("Array entry is %T, not object", lst[1])
	}
	check[ast.String](t, obj, "name", func(s ast.String) {
		t.Logf("String field value: %s", s)
	})
	check[ast.Number](t, obj, "elevationMeters", func(v ast.Number) {
		t.Logf("Number field value: %v", v)
	})
	check[ast.Bool](t, obj, "active", func(v ast.Bool) {
		t.Logf("Bool field value: %v", v)
	})
	if got := root["operators"].(ast.Object)["escalation"]; got != ast.Null {
		t.Errorf(`Key "escalation" value is %v, want null`, got)
	}
}

func check[T any](t *testing.T, obj ast.Object, key string, f func(T)) {
	t.Helper()
	v, ok := obj[key]
	if !ok {
		t.Fatalf("Key %q not found", key)
	} else if tv, ok := v.(T); !ok {
		var zero T
		t.Fatalf("Key %q value is %T, not %T", key, v, zero)
	} else if f != nil {
		f(tv)
	}
}

func TestParseEmpty(t *testing.T) {
	a, err := ast.Parse(strings.NewReader(`[]`))
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if arr, ok := a.(ast.Array); !ok {
		t.Errorf("Got %T, want array", a)
	} else if arr == nil || len(arr) != 0 {
		t.Errorf("Got %v, want an empty non-nil array", arr)
	}

	o, err := ast.Parse(strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if obj, ok := o.(ast.Object); !ok {
		t.Errorf("Got %T, want object", o)
	} else if obj == nil || len(obj) != 0 {
		t.Errorf("Got %v, want an empty non-nil object", obj)
	}
}

// Duplicate keys keep the last value seen in the input.
func TestParseDuplicateKeys(t *testing.T) {
	v, err := ast.Parse(strings.NewReader(`{"a": 1, "a": 2}`))
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if got, want := v.JSON(), `{"a":2}`; got != want {
		t.Errorf("JSON: got %#q, want %#q", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		``,
		`{"no":`,
		`[1, 2,]`,
		`"broken`,
		`true false`,
	}
	for _, test := range tests {
		v, err := ast.Parse(strings.NewReader(test))
		if err == nil {
			t.Errorf("Parse %#q: got %v, wanted error", test, v)
		} else {
			t.Logf("Parse %#q: got expected error: %v", test, err)
		}
	}

	var serr *rill.SyntaxError
	if _, err := ast.Parse(strings.NewReader(`[1 2]`)); !errors.As(err, &serr) {
		t.Errorf("Parse: got %v, want a syntax error", err)
	} else if got, want := serr.Location.String(), "1:4"; got != want {
		t.Errorf("Error location: got %q, want %q", got, want)
	}
}
