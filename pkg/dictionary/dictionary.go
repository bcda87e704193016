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

package dictionary

import (
	"bufio"
	"context"
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

//go:embed words.txt
var embedded embed.FS

// EmbeddedName is the name of the built-in word list inside the embedded FS
const EmbeddedName = "words.txt"

var (
	ErrMalformed = errors.Base("malformed word list line")
	ErrDuplicate = errors.Base("duplicate source word")
)

// 📦 Source identifies one word list resource
type Source struct {
	FS   fs.FS
	Name string
}

// EmbeddedSource returns the built-in British/American word list
func EmbeddedSource() Source {
	return Source{FS: embedded, Name: EmbeddedName}
}

// FileSource returns a Source for a word list on disk
func FileSource(path string) Source {
	return Source{FS: os.DirFS(filepath.Dir(path)), Name: filepath.Base(path)}
}

// Pair is a single source -> target mapping
type Pair struct {
	From string
	To   string
}

// 📚 Dictionary is an immutable mapping for one target direction
type Dictionary struct {
	target Target
	words  map[string]string
}

// Lookup returns the target spelling for a lowercase source word
func (d *Dictionary) Lookup(word string) (string, bool) {
	to, ok := d.words[word]
	return to, ok
}

// Len returns the number of source words
func (d *Dictionary) Len() int {
	return len(d.words)
}

// Target returns the direction this dictionary rewrites toward
func (d *Dictionary) Target() Target {
	return d.target
}

// Pairs returns every mapping sorted by source word
func (d *Dictionary) Pairs() []Pair {
	pairs := make([]Pair, 0, len(d.words))
	for from, to := range d.words {
		pairs = append(pairs, Pair{From: from, To: to})
	}
	slices.SortFunc(pairs, func(a, b Pair) int {
		return strings.Compare(a.From, b.From)
	})
	return pairs
}

// 🏭 Loader builds dictionaries from word list sources, once per target
type Loader struct {
	sources []Source

	mu    sync.Mutex
	cache map[Target]*Dictionary
}

// NewLoader creates a loader over the given sources. Later sources override
// pairs of earlier ones for the same source word.
func NewLoader(sources ...Source) *Loader {
	return &Loader{
		sources: sources,
		cache:   make(map[Target]*Dictionary, 2),
	}
}

// DefaultLoader creates a loader over the embedded word list only
func DefaultLoader() *Loader {
	return NewLoader(EmbeddedSource())
}

// Load returns the dictionary for target, reading the sources on first use
func (l *Loader) Load(ctx context.Context, target Target) (*Dictionary, error) {
	if !target.Valid() {
		return nil, errors.Errorf("loading dictionary: unknown target %q", target)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if d, ok := l.cache[target]; ok {
		return d, nil
	}

	logger := zerolog.Ctx(ctx)

	words := make(map[string]string)
	for _, src := range l.sources {
		n, err := readSource(src, target, words)
		if err != nil {
			return nil, errors.Errorf("loading dictionary %s: %w", src.Name, err)
		}
		logger.Debug().Str("source", src.Name).Str("target", target.String()).Int("pairs", n).Msg("loaded word list")
	}

	d := &Dictionary{target: target, words: words}
	l.cache[target] = d
	return d, nil
}

// readSource merges one word list into words for the given direction
func readSource(src Source, target Target, words map[string]string) (int, error) {
	if src.FS == nil {
		return 0, errors.Errorf("no filesystem for %q", src.Name)
	}

	f, err := src.FS.Open(src.Name)
	if err != nil {
		return 0, errors.Errorf("opening word list: %w", err)
	}
	defer f.Close()

	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) != 2 || cols[0] == "" || cols[1] == "" {
			return 0, errors.Errorf("%w: line %d: %q", ErrMalformed, lineNo, line)
		}

		uk, us := cols[0], cols[1]
		from, to := uk, us
		if target == TargetUK {
			from, to = us, uk
		}

		if _, dup := seen[from]; dup {
			return 0, errors.Errorf("%w: line %d: %q", ErrDuplicate, lineNo, from)
		}
		seen[from] = struct{}{}
		words[from] = to
	}
	if err := scanner.Err(); err != nil {
		return 0, errors.Errorf("reading word list: %w", err)
	}

	return len(seen), nil
}
