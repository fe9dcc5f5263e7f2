// Copyright (C) 2024 The rill authors. All rights reserved.

package ast

import (
	"io"

	"github.com/rilljson/rill"
)

// Parse parses a single JSON value from r. The input must contain exactly
// one value; trailing non-blank input is reported as an error by the parser.
func Parse(r io.Reader) (Value, error) {
	return build(rill.NewParser(r))
}

// A frame is an accumulator for one open container. Exactly one of obj and
// isArr is set.
type frame struct {
	obj   Object
	arr   []Value
	isArr bool
	key   string
}

// build folds the events of p into a value. The accumulator stack mirrors
// the parser's container stack, so materialization is iterative and
// terminates when the parser's event stream does.
func build(p *rill.Parser) (Value, error) {
	var stk []*frame
	var root Value

	// attach adds a completed value to the innermost open container, or
	// records it as the root when no container is open.
	attach := func(v Value) {
		if len(stk) == 0 {
			root = v
			return
		}
		top := stk[len(stk)-1]
		if top.isArr {
			top.arr = append(top.arr, v)
		} else {
			top.obj[top.key] = v
		}
	}
	pop := func() *frame {
		top := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		return top
	}

	for p.Next() {
		switch e := p.Event(); e.Kind {
		case rill.BeginObject:
			stk = append(stk, &frame{obj: Object{}})
		case rill.BeginArray:
			stk = append(stk, &frame{isArr: true, arr: []Value{}})
		case rill.ObjectKey:
			stk[len(stk)-1].key = e.Text
		case rill.EndObject:
			attach(pop().obj)
		case rill.EndArray:
			attach(Array(pop().arr))
		case rill.NullScalar:
			attach(Null)
		case rill.BoolScalar:
			attach(Bool(e.Bool))
		case rill.NumberScalar:
			attach(Number(e.Num))
		case rill.StringScalar:
			attach(String(e.Text))
		}
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return root, nil
}
