// Copyright (C) 2024 The rill authors. All rights reserved.

package cursor_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rilljson/rill/ast"
	"github.com/rilljson/rill/ast/cursor"
)

const testJSON = `{
  "list": [
    {
      "x": 1
    },
    {
      "x": 2
    }
  ],
  "y": {
    "hello": "there"
  },
  "o": [
    "hi",
    "yourself"
  ],
  "xyz": {
    "p": true,
    "d": true,
    "q": false
  }
}`

func TestCursor(t *testing.T) {
	v, err := ast.Parse(strings.NewReader(testJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		name string
		path []any
		want ast.Value
		fail bool
	}{
		{"NilInput", nil, v, false},
		{"NoMatch", []any{"nonesuch"}, v, true},
		{"WrongType", []any{11}, v, true},

		{"ArrayPos", []any{"list", 1},
			v.(ast.Object)["list"].(ast.Array)[1],
			false,
		},
		{"ArrayNeg", []any{"list", -1},
			v.(ast.Object)["list"].(ast.Array)[1],
			false,
		},
		{"ArrayRange", []any{"o", 25},
			v.(ast.Object)["o"],
			true,
		},
		{"ObjPath", []any{"xyz", "d"},
			v.(ast.Object)["xyz"].(ast.Object)["d"],
			false,
		},

		{"FuncArray", []any{"o", testPathFunc}, ast.ToValue(2), false},
		{"FuncObj", []any{"xyz", testPathFunc}, ast.ToValue(3), false},
		{"FuncWrong", []any{"xyz", "d", testPathFunc},
			v.(ast.Object)["xyz"].(ast.Object)["d"],
			true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := cursor.New(v).Down(tc.path...)
			err := c.Err()
			if err != nil {
				if tc.fail {
					t.Logf("Got expected error: %v", err)
				} else {
					t.Fatalf("Down %+v: unexpected error: %v", tc.path, err)
				}
			}
			got := c.Value()
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("Down %+v: wrong result (-got, +want):\n%s", tc.path, diff)
			} else if err == nil {
				t.Logf("Found %s OK", got.JSON())
			}
		})
	}
}

func TestCursorMoves(t *testing.T) {
	v, err := ast.Parse(strings.NewReader(testJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	c := cursor.New(v).Down("list", 0, "x")
	if err := c.Err(); err != nil {
		t.Fatalf("Down: unexpected error: %v", err)
	}
	if got, want := c.Value().JSON(), `1`; got != want {
		t.Errorf("Value: got %#q, want %#q", got, want)
	}
	if n := len(c.Path()); n != 4 {
		t.Errorf("Path: got %d values, want 4", n)
	}

	if got, want := c.Up().Value().JSON(), `{"x":1}`; got != want {
		t.Errorf("Up: got %#q, want %#q", got, want)
	}

	c.Reset()
	if !c.AtOrigin() {
		t.Error("Reset: cursor is not at origin")
	}
	if diff := cmp.Diff(c.Origin(), v); diff != "" {
		t.Errorf("Origin: wrong value (-got, +want):\n%s", diff)
	}
}

func testPathFunc(v ast.Value) (ast.Value, error) {
	switch t := v.(type) {
	case ast.Array:
		return ast.ToValue(len(t)), nil
	case ast.Object:
		return ast.ToValue(len(t)), nil
	default:
		return nil, errors.New("not a thing with length")
	}
}
