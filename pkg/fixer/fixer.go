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

package fixer

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/engfix/pkg/dictionary"
	"github.com/walteh/engfix/pkg/match"
	"github.com/walteh/engfix/pkg/scan"
	"github.com/walteh/engfix/pkg/text"
)

// 🎛️ Mode selects how a fixer finds the text it may rewrite
type Mode string

const (
	ModeStructural Mode = "structural" // parsed literals and comments, input must parse
	ModePermissive Mode = "permissive" // parsed literals and comments, syntax errors tolerated
	ModeText       Mode = "text"       // the whole input
	ModeLiteral    Mode = "literal"    // double-quoted strings, line by line, any language
)

// Modes returns every fixer mode
func Modes() []Mode {
	return []Mode{ModeStructural, ModePermissive, ModeText, ModeLiteral}
}

// ParseMode resolves a mode name; "" means structural
func ParseMode(name string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(name))); m {
	case "":
		return ModeStructural, nil
	case ModeStructural, ModePermissive, ModeText, ModeLiteral:
		return m, nil
	default:
		return "", errors.Errorf("unknown mode %q", name)
	}
}

// String returns the mode name
func (m Mode) String() string {
	return string(m)
}

// Scanner returns the span scanner for this mode
func (m Mode) Scanner(lang scan.Language) (scan.Scanner, error) {
	switch m {
	case ModeStructural:
		return scan.NewStructural(lang), nil
	case ModePermissive:
		return scan.NewPermissive(lang), nil
	case ModeText:
		return scan.NewWholeText(), nil
	case ModeLiteral:
		return scan.NewQuoted(), nil
	default:
		return nil, errors.Errorf("unknown mode %q", string(m))
	}
}

// 🔧 Options configures a Fixer
type Options struct {
	Content  string
	Target   dictionary.Target
	Mode     Mode
	Language scan.Language
	// Loader defaults to dictionary.DefaultLoader()
	Loader *dictionary.Loader
}

// 🔤 Fixer rewrites the spellings of one input
type Fixer struct {
	content string
	mode    Mode
	scanner scan.Scanner
	words   *dictionary.Dictionary
}

// New creates a fixer, loading its dictionary. Dictionary errors surface here
// before any input is scanned.
func New(ctx context.Context, opts Options) (*Fixer, error) {
	if opts.Target == "" {
		opts.Target = dictionary.TargetUS
	}
	if opts.Mode == "" {
		opts.Mode = ModeStructural
	}
	if opts.Language == "" {
		opts.Language = scan.Python
	}
	if opts.Loader == nil {
		opts.Loader = dictionary.DefaultLoader()
	}

	scanner, err := opts.Mode.Scanner(opts.Language)
	if err != nil {
		return nil, errors.Errorf("creating fixer: %w", err)
	}

	words, err := opts.Loader.Load(ctx, opts.Target)
	if err != nil {
		return nil, errors.Errorf("creating fixer: %w", err)
	}

	return &Fixer{
		content: opts.Content,
		mode:    opts.Mode,
		scanner: scanner,
		words:   words,
	}, nil
}

// Mode returns the mode the fixer scans with
func (f *Fixer) Mode() Mode {
	return f.mode
}

// Replacements returns every edit for the input in application order
func (f *Fixer) Replacements(ctx context.Context) ([]text.Edit, error) {
	var edits []text.Edit
	spans := 0
	for span, err := range f.scanner.Scan(ctx, []byte(f.content)) {
		if err != nil {
			return nil, errors.Errorf("scanning %s: %w", f.mode, err)
		}
		spans++
		edits = append(edits, match.Find(span, f.words)...)
	}

	zerolog.Ctx(ctx).Trace().
		Str("mode", f.mode.String()).
		Int("spans", spans).
		Int("edits", len(edits)).
		Msg("collected replacements")

	return text.Plan(edits), nil
}

// Fix applies every replacement and reports what changed
func (f *Fixer) Fix(ctx context.Context) (*text.Result, error) {
	edits, err := f.Replacements(ctx)
	if err != nil {
		return nil, err
	}

	result, err := text.Apply(f.content, edits)
	if err != nil {
		return nil, errors.Errorf("applying replacements: %w", err)
	}
	return result, nil
}

// Apply returns the rewritten input
func (f *Fixer) Apply(ctx context.Context) (string, error) {
	result, err := f.Fix(ctx)
	if err != nil {
		return "", err
	}
	return result.Modified, nil
}
