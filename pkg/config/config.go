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

package config

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/engfix/pkg/dictionary"
	"github.com/walteh/engfix/pkg/fixer"
	"github.com/walteh/engfix/pkg/scan"
)

const (
	DefaultEncoding = "utf-8"
	DefaultWorkers  = 4
)

// 📚 Config is the complete engfix configuration
type Config struct {
	TargetName   string   `json:"target,omitempty" yaml:"target,omitempty" hcl:"target,optional"`
	Encoding     string   `json:"encoding,omitempty" yaml:"encoding,omitempty" hcl:"encoding,optional"`
	Workers      int      `json:"workers,omitempty" yaml:"workers,omitempty" hcl:"workers,optional"`
	FailFast     bool     `json:"fail_fast,omitempty" yaml:"fail_fast,omitempty" hcl:"fail_fast,optional"`
	Include      []string `json:"include,omitempty" yaml:"include,omitempty" hcl:"include,optional"`
	Exclude      []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`
	Dictionaries []string `json:"dictionaries,omitempty" yaml:"dictionaries,omitempty" hcl:"dictionaries,optional"`
	Rules        []*Rule  `json:"rules,omitempty" yaml:"rules,omitempty" hcl:"rule,block"`

	location string
	target   dictionary.Target
	byExt    map[string]*Rule
}

// 🔧 Rule maps file extensions to a fixer mode
type Rule struct {
	Extensions   []string `json:"extensions" yaml:"extensions" hcl:"extensions"`
	ModeName     string   `json:"mode" yaml:"mode" hcl:"mode"`
	LanguageName string   `json:"language,omitempty" yaml:"language,omitempty" hcl:"language,optional"`

	mode     fixer.Mode
	language scan.Language
}

// Mode returns the validated fixer mode
func (r *Rule) Mode() fixer.Mode {
	return r.mode
}

// Language returns the validated language
func (r *Rule) Language() scan.Language {
	return r.language
}

// String returns a short description of the rule
func (r *Rule) String() string {
	if r.mode == fixer.ModeStructural || r.mode == fixer.ModePermissive {
		return fmt.Sprintf("%s/%s", r.mode, r.language)
	}
	return r.mode.String()
}

// DefaultRules returns the extension mapping used when a config has none
func DefaultRules() []*Rule {
	return []*Rule{
		{Extensions: []string{".py", ".pyi", ".pyw"}, ModeName: "structural", LanguageName: "python"},
		{Extensions: []string{".go"}, ModeName: "structural", LanguageName: "go"},
		{Extensions: []string{".js", ".mjs", ".cjs", ".jsx"}, ModeName: "structural", LanguageName: "javascript"},
		{Extensions: []string{".txt", ".md", ".rst"}, ModeName: "text"},
		{
			Extensions: []string{".c", ".h", ".cpp", ".hpp", ".java", ".rs", ".ts", ".tsx", ".rb", ".php", ".swift", ".kt", ".cs", ".sh"},
			ModeName:   "literal",
		},
	}
}

// DefaultExclude returns the globs skipped when a config sets no exclude list
func DefaultExclude() []string {
	return []string{"**/.git", "**/.git/**", "**/node_modules", "**/node_modules/**", "**/.venv", "**/.venv/**"}
}

// Default returns a validated configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	if err := cfg.Validate(context.Background()); err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}

// Validate checks the configuration, fills in defaults and resolves names
func (cfg *Config) Validate(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	if cfg.TargetName == "" {
		cfg.TargetName = dictionary.TargetUS.String()
	}
	target, err := dictionary.ParseTarget(cfg.TargetName)
	if err != nil {
		return errors.Errorf("target: %w", err)
	}
	cfg.target = target
	cfg.TargetName = target.String()

	if cfg.Encoding == "" {
		cfg.Encoding = DefaultEncoding
	}

	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}

	if cfg.Exclude == nil {
		cfg.Exclude = DefaultExclude()
	}
	for _, pattern := range append(append([]string{}, cfg.Include...), cfg.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid glob pattern %q", pattern)
		}
	}

	if len(cfg.Rules) == 0 {
		logger.Debug().Msg("no rules configured, using defaults")
		cfg.Rules = DefaultRules()
	}

	cfg.byExt = make(map[string]*Rule)
	for i, rule := range cfg.Rules {
		if err := rule.validate(); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
		for _, ext := range rule.Extensions {
			if prev, dup := cfg.byExt[ext]; dup && prev != rule {
				return errors.Errorf("rule %d: extension %q is already mapped to %s", i, ext, prev)
			}
			cfg.byExt[ext] = rule
		}
	}

	return nil
}

func (r *Rule) validate() error {
	if len(r.Extensions) == 0 {
		return errors.New("extensions are required")
	}
	for i, ext := range r.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if ext == "." {
			return errors.Errorf("extension %d is empty", i)
		}
		r.Extensions[i] = ext
	}

	mode, err := fixer.ParseMode(r.ModeName)
	if err != nil {
		return err
	}
	r.mode = mode
	r.ModeName = mode.String()

	lang, err := scan.ParseLanguage(r.LanguageName)
	if err != nil {
		return err
	}
	r.language = lang
	r.LanguageName = lang.String()

	return nil
}

// Target returns the validated spelling target
func (cfg *Config) Target() dictionary.Target {
	return cfg.target
}

// SetTarget overrides the spelling target
func (cfg *Config) SetTarget(target dictionary.Target) {
	cfg.target = target
	cfg.TargetName = target.String()
}

// Location returns the path the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// RuleFor returns the rule for a file path by extension, or nil
func (cfg *Config) RuleFor(file string) *Rule {
	return cfg.byExt[strings.ToLower(filepath.Ext(file))]
}

// Included reports whether a slash-separated path relative to a scan root
// passes the include and exclude globs
func (cfg *Config) Included(rel string) bool {
	rel = path.Clean(filepath.ToSlash(rel))
	if cfg.Excluded(rel) {
		return false
	}
	if len(cfg.Include) == 0 {
		return true
	}
	return matchAny(cfg.Include, rel)
}

// Excluded reports whether a relative path matches an exclude glob
func (cfg *Config) Excluded(rel string) bool {
	return matchAny(cfg.Exclude, path.Clean(filepath.ToSlash(rel)))
}

// DictionaryPaths returns extra word lists, resolved against the config file
func (cfg *Config) DictionaryPaths() []string {
	paths := make([]string, 0, len(cfg.Dictionaries))
	for _, p := range cfg.Dictionaries {
		if !filepath.IsAbs(p) && cfg.location != "" {
			p = filepath.Join(filepath.Dir(cfg.location), p)
		}
		paths = append(paths, p)
	}
	return paths
}

// Loader builds a dictionary loader of the embedded list plus extra word lists
func (cfg *Config) Loader() *dictionary.Loader {
	sources := []dictionary.Source{dictionary.EmbeddedSource()}
	for _, p := range cfg.DictionaryPaths() {
		sources = append(sources, dictionary.FileSource(p))
	}
	return dictionary.NewLoader(sources...)
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		// patterns were validated, so Match cannot fail
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
