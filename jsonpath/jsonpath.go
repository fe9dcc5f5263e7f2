// Copyright (C) 2024 The rill authors. All rights reserved.

// Package jsonpath implements a minimal JSONPath expression parser and a
// compiler from parsed expressions to tq queries.
//
// The supported grammar is a subset of the draft JSONPath proposal:
//
//	 expr = root steps
//	 root = "$"
//	steps = step [steps]
//	 step = "." name
//	 step = ".." name
//	 step = "[" value "]"
//	 step = "[" slice "]"
//	 name = WORD
//	 name = "'" QTEXT "'"
//	 name = "*"
//	value = "'" QTEXT "'"
//	value = "*"
//	value = INDEX ["," INDEX ...]
//	slice = [INDEX] ":" [INDEX]
//
//	 WORD = RE `\w+`
//	QTEXT = RE `([^']|\\')*`
//	INDEX = RE `-?\d+`
//
// Script and filter expressions from the draft are not supported.
//
// Source:
//
//	https://www.ietf.org/archive/id/draft-goessner-dispatch-jsonpath-00.html
package jsonpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rilljson/rill/tq"
)

// An Op is a path operator.
type Op byte

const (
	Invalid  Op = iota // invalid operator
	Member             // member lookup (.name or ['name'])
	Recur              // recursive member lookup (..name)
	Index              // array index lookup ([i] or [i,j,k])
	Slice              // array slice ([lo:hi])
	Wildcard           // wildcard expansion (* or [*])
)

// A Step is a single step of a JSONPath expression. The fields that are
// meaningful depend on the operator: Name for Member and Recur, Indices for
// Index, and Lo, Hi for Slice.
type Step struct {
	Op      Op
	Name    string
	Indices []int
	Lo, Hi  int
}

// An Expr is a parsed JSONPath expression.
type Expr []Step

// Parse parses s as a JSONPath expression.
func Parse(s string) (Expr, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, errors.New("missing root marker")
	}
	var steps Expr
	for t != "" {
		step, rest, err := parseStep(t)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
		t = rest
	}
	return steps, nil
}

// Query compiles e into an equivalent query. Member and Recur steps become
// key lookups, Index steps become offset lookups or picks, Slice steps become
// slices, and Wildcard steps expand to the values of their input, object
// values ordered by key.
func (e Expr) Query() tq.Query {
	q := make(tq.Seq, 0, len(e))
	for _, s := range e {
		switch s.Op {
		case Member:
			q = append(q, tq.Path(s.Name))
		case Recur:
			q = append(q, tq.Recur(s.Name))
		case Wildcard:
			q = append(q, tq.Glob())
		case Index:
			if len(s.Indices) == 1 {
				q = append(q, tq.Path(s.Indices[0]))
			} else {
				q = append(q, tq.Pick(s.Indices...))
			}
		case Slice:
			q = append(q, tq.Slice(s.Lo, s.Hi))
		}
	}
	return q
}

// String renders e in canonical form: word names use dot notation, other
// member names are bracketed and quoted, and slices render both bounds.
func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		switch s.Op {
		case Member:
			if wordRE.MatchString(s.Name) {
				fmt.Fprintf(&buf, ".%s", s.Name)
			} else {
				fmt.Fprintf(&buf, "['%s']", s.Name)
			}
		case Recur:
			if wordRE.MatchString(s.Name) {
				fmt.Fprintf(&buf, "..%s", s.Name)
			} else {
				fmt.Fprintf(&buf, "..'%s'", s.Name)
			}
		case Index:
			buf.WriteString("[")
			for i, off := range s.Indices {
				if i != 0 {
					buf.WriteString(",")
				}
				fmt.Fprintf(&buf, "%d", off)
			}
			buf.WriteString("]")
		case Slice:
			if s.Hi == 0 {
				fmt.Fprintf(&buf, "[%d:]", s.Lo)
			} else {
				fmt.Fprintf(&buf, "[%d:%d]", s.Lo, s.Hi)
			}
		case Wildcard:
			buf.WriteString(".*")
		}
	}
	return buf.String()
}

func parseStep(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, ".."); ok {
		name, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid ..name: %w", err)
		} else if name == "*" {
			return Step{}, s, errors.New("cannot recur on a wildcard")
		}
		return Step{Op: Recur, Name: name}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		name, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid .name: %w", err)
		} else if name == "*" {
			return Step{Op: Wildcard}, u, nil
		}
		return Step{Op: Member, Name: name}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		step, u, err := parseBracket(t)
		if err != nil {
			return Step{}, s, err
		}
		u, ok := strings.CutPrefix(u, "]")
		if !ok {
			return Step{}, s, errors.New("missing close bracket")
		}
		return step, u, nil
	}
	return Step{}, s, errors.New("invalid path step")
}

// parseBracket parses the interior of a bracketed step: a quoted name, a
// wildcard, an index list, or a slice.
func parseBracket(s string) (_ Step, rest string, _ error) {
	if strings.HasPrefix(s, "?(") || strings.HasPrefix(s, "(") {
		return Step{}, s, errors.New("script expressions are not supported")
	}
	if t, ok := strings.CutPrefix(s, "*"); ok {
		return Step{Op: Wildcard}, t, nil
	}
	if m := quoteRE.FindStringSubmatch(s); m != nil {
		return Step{Op: Member, Name: m[1]}, s[len(m[0]):], nil
	}

	lo, t, err := parseIndex(s)
	if err != nil {
		// A slice may omit its lower bound.
		if u, ok := strings.CutPrefix(s, ":"); ok {
			return parseSliceEnd(0, u)
		}
		return Step{}, s, fmt.Errorf("invalid step value: %w", err)
	}
	if u, ok := strings.CutPrefix(t, ":"); ok {
		return parseSliceEnd(lo, u)
	}
	offs := []int{lo}
	for {
		u, ok := strings.CutPrefix(t, ",")
		if !ok {
			break
		}
		off, rest, err := parseIndex(u)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid index: %w", err)
		}
		offs = append(offs, off)
		t = rest
	}
	return Step{Op: Index, Indices: offs}, t, nil
}

// parseSliceEnd parses the upper bound of a slice whose lower bound is lo.
// An omitted upper bound denotes the length of the array.
func parseSliceEnd(lo int, s string) (Step, string, error) {
	hi, t, err := parseIndex(s)
	if err != nil {
		return Step{Op: Slice, Lo: lo, Hi: 0}, s, nil
	}
	return Step{Op: Slice, Lo: lo, Hi: hi}, t, nil
}

func parseName(s string) (name, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "*"); ok {
		return "*", t, nil
	}
	if m := wordStartRE.FindString(s); m != "" {
		return m, s[len(m):], nil
	}
	if m := quoteRE.FindStringSubmatch(s); m != nil {
		return m[1], s[len(m[0]):], nil
	}
	return "", s, errors.New("invalid name")
}

func parseIndex(s string) (int, string, error) {
	m := indexRE.FindString(s)
	if m == "" {
		return 0, s, errors.New("invalid index")
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, s, err
	}
	return v, s[len(m):], nil
}

var (
	wordRE      = regexp.MustCompile(`^\w+$`)
	wordStartRE = regexp.MustCompile(`^\w+`)
	indexRE     = regexp.MustCompile(`^-?\d+`)
	quoteRE     = regexp.MustCompile(`^'([^']*)'`)
)
