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

// Package match finds dictionary words inside spans and turns them into edits.
package match

import (
	"regexp"
	"strings"

	"github.com/walteh/engfix/pkg/scan"
	"github.com/walteh/engfix/pkg/text"
)

// MinWordLength is the shortest letter run considered a word
const MinWordLength = 4

// ASCII only: (?i)[a-z] would also fold in the Kelvin sign and long s
var wordPattern = regexp.MustCompile(`[A-Za-z]{4,}`)

// 📖 Words is the lookup a Matcher needs from a dictionary
type Words interface {
	Lookup(word string) (string, bool)
}

// Find returns one edit per dictionary word found in span, in original-text
// coordinates
func Find(span scan.Span, words Words) []text.Edit {
	var edits []text.Edit
	for offset, line := range strings.Split(span.Text, "\n") {
		col := 0
		if offset == 0 {
			col = span.Col
		}

		for _, loc := range wordPattern.FindAllStringIndex(line, -1) {
			from := line[loc[0]:loc[1]]
			to, ok := words.Lookup(strings.ToLower(from))
			if !ok {
				continue
			}
			if isTitle(from) {
				to = title(to)
			}
			if to == from {
				continue
			}
			edits = append(edits, text.Edit{
				Row:  span.Row + offset,
				Col:  col + loc[0],
				From: from,
				To:   to,
			})
		}
	}
	return edits
}

// isTitle reports whether an ASCII word is upper case followed by lower case
func isTitle(word string) bool {
	if word == "" || !isUpper(word[0]) {
		return false
	}
	for i := 1; i < len(word); i++ {
		if isUpper(word[i]) {
			return false
		}
	}
	return true
}

func title(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
