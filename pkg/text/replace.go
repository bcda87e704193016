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

package text

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrOutOfRange = errors.Base("edit out of range")
	ErrMismatch   = errors.Base("edit does not match text")
)

// ✏️ Edit replaces one run of characters on a single line of the original
// text. Row and Col are 0-based; Col is a byte offset into the line.
type Edit struct {
	Row  int
	Col  int
	From string
	To   string
}

// String returns a row:col position with the replacement, 1-based like an editor
func (e Edit) String() string {
	return fmt.Sprintf("%d:%d %s -> %s", e.Row+1, e.Col+1, e.From, e.To)
}

// 📄 Result is the outcome of applying a set of edits
type Result struct {
	Original         string
	Modified         string
	Edits            []Edit
	ReplacementCount int
	WasModified      bool
}

// Plan returns the edits sorted bottom-to-top, right-to-left. Applying edits
// in this order only ever changes text at or after positions still pending,
// so every pending edit keeps its original coordinates.
func Plan(edits []Edit) []Edit {
	planned := slices.Clone(edits)
	slices.SortStableFunc(planned, func(a, b Edit) int {
		if c := cmp.Compare(b.Row, a.Row); c != 0 {
			return c
		}
		return cmp.Compare(b.Col, a.Col)
	})
	return planned
}

// Apply applies planned edits (see Plan) to content. Either every edit is
// applied or an error is returned and nothing is.
func Apply(content string, planned []Edit) (*Result, error) {
	result := &Result{
		Original: content,
		Modified: content,
		Edits:    planned,
	}

	if len(planned) == 0 {
		return result, nil
	}

	lines := strings.Split(content, "\n")
	for _, e := range planned {
		if e.Row < 0 || e.Row >= len(lines) {
			return nil, errors.Errorf("%w: %s: row %d of %d", ErrOutOfRange, e, e.Row, len(lines))
		}

		line := lines[e.Row]
		end := e.Col + len(e.From)
		if e.Col < 0 || end > len(line) {
			return nil, errors.Errorf("%w: %s: line has %d bytes", ErrOutOfRange, e, len(line))
		}
		if line[e.Col:end] != e.From {
			return nil, errors.Errorf("%w: %s: found %q", ErrMismatch, e, line[e.Col:end])
		}

		lines[e.Row] = line[:e.Col] + e.To + line[end:]
	}

	result.Modified = strings.Join(lines, "\n")
	result.ReplacementCount = len(planned)
	result.WasModified = result.Modified != content
	return result, nil
}

// Replace plans and applies edits in one step
func Replace(content string, edits []Edit) (*Result, error) {
	return Apply(content, Plan(edits))
}
