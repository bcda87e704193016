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
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"gitlab.com/tozd/go/errors"
)

// 🗣️ Language selects the grammar used by structural and permissive scans
type Language string

const (
	Python     Language = "python"
	Go         Language = "go"
	JavaScript Language = "javascript"
)

// grammar describes which nodes of a tree-sitter grammar hold prose
type grammar struct {
	language func() *sitter.Language
	// literal nodes become spans; the walk does not descend into them
	literals map[string]bool
	// child nodes of a literal that are code or escapes, blanked out
	masked map[string]bool
}

var grammars = map[Language]grammar{
	Python: {
		language: python.GetLanguage,
		literals: set("string", "comment"),
		masked:   set("interpolation", "escape_sequence"),
	},
	Go: {
		language: golang.GetLanguage,
		literals: set("interpreted_string_literal", "raw_string_literal", "comment"),
		masked:   set("escape_sequence"),
	},
	JavaScript: {
		language: javascript.GetLanguage,
		literals: set("string", "template_string", "comment"),
		masked:   set("template_substitution", "escape_sequence"),
	},
}

// Languages returns every supported language
func Languages() []Language {
	return []Language{Python, Go, JavaScript}
}

// ParseLanguage resolves a language name; "" means Python
func ParseLanguage(name string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "python", "py":
		return Python, nil
	case "go", "golang":
		return Go, nil
	case "javascript", "js":
		return JavaScript, nil
	default:
		return "", errors.Errorf("unknown language %q", name)
	}
}

// String returns the language name
func (l Language) String() string {
	return string(l)
}

func (l Language) grammar() (grammar, error) {
	g, ok := grammars[l]
	if !ok {
		return grammar{}, errors.Errorf("unknown language %q", string(l))
	}
	return g, nil
}

func set(kinds ...string) map[string]bool {
	m := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		m[k] = true
	}
	return m
}
