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

	"github.com/rs/zerolog"
	sitter "github.com/smacker/go-tree-sitter"
	"gitlab.com/tozd/go/errors"
)

// 🌳 Tree scans string literals and comments out of a tree-sitter parse.
//
// In strict mode any ERROR or MISSING node fails the scan. Otherwise the
// parser's error recovery is trusted and literals are taken from wherever
// they were recognized.
type Tree struct {
	lang   Language
	strict bool
}

// NewStructural creates a scanner that requires the input to parse cleanly
func NewStructural(lang Language) *Tree {
	return &Tree{lang: lang, strict: true}
}

// NewPermissive creates a scanner that tolerates syntax errors
func NewPermissive(lang Language) *Tree {
	return &Tree{lang: lang, strict: false}
}

// Language returns the grammar this scanner parses with
func (s *Tree) Language() Language {
	return s.lang
}

// Strict reports whether syntax errors fail the scan
func (s *Tree) Strict() bool {
	return s.strict
}

// Scan implements Scanner
func (s *Tree) Scan(ctx context.Context, content []byte) iter.Seq2[Span, error] {
	return func(yield func(Span, error) bool) {
		g, err := s.lang.grammar()
		if err != nil {
			yield(Span{}, err)
			return
		}

		// parsers are not safe for concurrent use, so each scan gets its own
		parser := sitter.NewParser()
		defer parser.Close()
		parser.SetLanguage(g.language())

		tree, err := parser.ParseCtx(ctx, nil, content)
		if err != nil {
			yield(Span{}, errors.Errorf("parsing %s: %w", s.lang, err))
			return
		}
		defer tree.Close()

		root := tree.RootNode()
		if root == nil {
			yield(Span{}, errors.Errorf("parsing %s: no syntax tree", s.lang))
			return
		}

		if root.HasError() {
			bad := firstError(root)
			pos := bad.StartPoint()
			if s.strict {
				yield(Span{}, errors.Errorf("%w: %s: line %d column %d", ErrSyntax, s.lang, pos.Row+1, pos.Column+1))
				return
			}
			zerolog.Ctx(ctx).Debug().
				Str("language", s.lang.String()).
				Uint32("line", pos.Row+1).
				Uint32("column", pos.Column+1).
				Msg("scanning past syntax error")
		}

		walk(root, content, g, yield)
	}
}

// walk yields every literal under n in document order
func walk(n *sitter.Node, content []byte, g grammar, yield func(Span, error) bool) bool {
	if g.literals[n.Type()] {
		return yield(literalSpan(n, content, g), nil)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if !walk(child, content, g, yield) {
			return false
		}
	}
	return true
}

func literalSpan(n *sitter.Node, content []byte, g grammar) Span {
	start, end := n.StartByte(), n.EndByte()
	buf := make([]byte, end-start)
	copy(buf, content[start:end])
	mask(n, start, buf, g)

	pos := n.StartPoint()
	return Span{
		Row:  int(pos.Row),
		Col:  int(pos.Column),
		Text: string(buf),
	}
}

// mask blanks the bytes of masked descendants of n inside buf, which holds
// the source of n starting at byte offset base
func mask(n *sitter.Node, base uint32, buf []byte, g grammar) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if !g.masked[child.Type()] {
			mask(child, base, buf, g)
			continue
		}
		for b := child.StartByte() - base; b < child.EndByte()-base && int(b) < len(buf); b++ {
			if buf[b] != '\n' {
				buf[b] = ' '
			}
		}
	}
}

// firstError finds the first ERROR or MISSING node in document order
func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		return firstError(child)
	}
	return n
}
