// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scan

import (
	"context"
	"iter"

	"gitlab.com/tozd/go/errors"
)

// ErrSyntax is returned by structural scans of input that does not parse
var ErrSyntax = errors.Base("syntax error")

// 🧩 Span is a piece of the input eligible for word replacement.
//
// Row is the 0-based line of the original text the span starts on and Col
// the 0-based byte offset within that line. Text may contain newlines; lines
// after the first start at column 0.
type Span struct {
	Row  int
	Col  int
	Text string
}

// 🔍 Scanner finds the spans of an input. The sequence is lazy; a scan
// failure is yielded once, as the last element, with a zero Span.
type Scanner interface {
	Scan(ctx context.Context, content []byte) iter.Seq2[Span, error]
}

// Collect drains a scan into a slice, stopping at the first error
func Collect(seq iter.Seq2[Span, error]) ([]Span, error) {
	var spans []Span
	for span, err := range seq {
		if err != nil {
			return nil, err
		}
		spans = append(spans, span)
	}
	return spans, nil
}

// 📄 WholeText treats the entire input as one span
type WholeText struct{}

// NewWholeText creates a scanner for plain prose files
func NewWholeText() *WholeText {
	return &WholeText{}
}

// Scan implements Scanner
func (WholeText) Scan(_ context.Context, content []byte) iter.Seq2[Span, error] {
	return func(yield func(Span, error) bool) {
		yield(Span{Row: 0, Col: 0, Text: string(content)}, nil)
	}
}
