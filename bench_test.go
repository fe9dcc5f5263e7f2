// Copyright (C) 2024 The rill authors. All rights reserved.

package rill_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/rilljson/rill"
)

func BenchmarkScanner(b *testing.B) {
	input, err := os.ReadFile("testdata/input.json")
	if err != nil {
		b.Fatalf("Reading test input: %v", err)
	}
	b.Logf("Benchmark input: %d bytes", len(input))

	b.Run("Decoder", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			dec := json.NewDecoder(bytes.NewReader(input))
			for {
				_, err := dec.Token()
				if err == io.EOF {
					break
				} else if err != nil {
					b.Fatalf("Unexpected error: %v", err)
				}
			}
		}
	})

	b.Run("Scanner", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			sc := rill.NewScanner(bytes.NewReader(input))
			for sc.Next() {
				// The standard library Decoder converts tokens to values.
				// For a fair comparison, do the same for strings and numbers.
				switch sc.Token() {
				case rill.String:
					sc.Unescape()
				case rill.Number:
					sc.Float64()
				}
			}
			if err := sc.Err(); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})
}

func BenchmarkParser(b *testing.B) {
	input, err := os.ReadFile("testdata/input.json")
	if err != nil {
		b.Fatalf("Reading test input: %v", err)
	}

	for i := 0; i < b.N; i++ {
		p := rill.NewParser(bytes.NewReader(input))
		for p.Next() {
		}
		if err := p.Err(); err != nil {
			b.Fatalf("Unexpected error: %v", err)
		}
	}
}
