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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/engfix/pkg/dictionary"
	"github.com/walteh/engfix/pkg/fixer"
	"github.com/walteh/engfix/pkg/scan"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "yaml_full",
			file: ".engfix.yaml",
			config: `
target: uk
encoding: latin1
workers: 2
fail_fast: true
include:
  - "src/**"
exclude:
  - "**/generated/**"
dictionaries:
  - extra.txt
rules:
  - extensions: [".py"]
    mode: permissive
    language: python
  - extensions: ["MD"]
    mode: text
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, dictionary.TargetUK, cfg.Target(), "target should match")
				assert.Equal(t, "latin1", cfg.Encoding, "encoding should match")
				assert.Equal(t, 2, cfg.Workers, "workers should match")
				assert.True(t, cfg.FailFast, "fail_fast should be set")
				assert.Equal(t, []string{"src/**"}, cfg.Include)
				assert.Equal(t, []string{"**/generated/**"}, cfg.Exclude)
				require.Len(t, cfg.Rules, 2, "should have 2 rules")
				assert.Equal(t, fixer.ModePermissive, cfg.Rules[0].Mode())
				assert.Equal(t, []string{".md"}, cfg.Rules[1].Extensions, "extensions are normalized")
				assert.Equal(t, []string{filepath.Join(filepath.Dir(cfg.Location()), "extra.txt")}, cfg.DictionaryPaths())
			},
		},
		{
			name:   "yaml_empty_uses_defaults",
			file:   ".engfix.yml",
			config: ``,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, dictionary.TargetUS, cfg.Target())
				assert.Equal(t, DefaultEncoding, cfg.Encoding)
				assert.Equal(t, DefaultWorkers, cfg.Workers)
				assert.Equal(t, DefaultExclude(), cfg.Exclude)
				assert.Len(t, cfg.Rules, len(DefaultRules()))
			},
		},
		{
			name: "json",
			file: "engfix.json",
			config: `{
				"target": "us",
				"rules": [{"extensions": [".go"], "mode": "structural", "language": "go"}]
			}`,
			check: func(t *testing.T, cfg *Config) {
				rule := cfg.RuleFor("main.go")
				require.NotNil(t, rule)
				assert.Equal(t, scan.Go, rule.Language())
				assert.Nil(t, cfg.RuleFor("main.py"), "only configured rules apply")
			},
		},
		{
			name: "hcl_with_env",
			file: ".engfix.hcl",
			config: `
target  = env.ENGFIX_TEST_TARGET
workers = 3

rule {
  extensions = [".txt"]
  mode       = "text"
}

rule {
  extensions = [".c", ".h"]
  mode       = "literal"
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, dictionary.TargetUK, cfg.Target())
				assert.Equal(t, 3, cfg.Workers)
				require.Len(t, cfg.Rules, 2)
				assert.Equal(t, fixer.ModeLiteral, cfg.RuleFor("x.h").Mode())
			},
		},
		{
			name:        "yaml_unknown_field",
			file:        ".engfix.yaml",
			config:      "targett: us\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "json_unknown_field",
			file:        "c.json",
			config:      `{"colour": "red"}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "bad_target",
			file:        ".engfix.yaml",
			config:      "target: au\n",
			wantErr:     true,
			errContains: "unknown target",
		},
		{
			name:        "bad_mode",
			file:        ".engfix.yaml",
			config:      "rules:\n  - extensions: [.py]\n    mode: fuzzy\n",
			wantErr:     true,
			errContains: "unknown mode",
		},
		{
			name:        "bad_language",
			file:        ".engfix.yaml",
			config:      "rules:\n  - extensions: [.py]\n    mode: structural\n    language: cobol\n",
			wantErr:     true,
			errContains: "unknown language",
		},
		{
			name:        "duplicate_extension",
			file:        ".engfix.yaml",
			config:      "rules:\n  - extensions: [.py]\n    mode: text\n  - extensions: [.PY]\n    mode: literal\n",
			wantErr:     true,
			errContains: "already mapped",
		},
		{
			name:        "missing_extensions",
			file:        ".engfix.yaml",
			config:      "rules:\n  - mode: text\n",
			wantErr:     true,
			errContains: "extensions are required",
		},
		{
			name:        "bad_glob",
			file:        ".engfix.yaml",
			config:      "exclude: ['[']\n",
			wantErr:     true,
			errContains: "invalid glob",
		},
		{
			name:        "negative_workers",
			file:        ".engfix.yaml",
			config:      "workers: -1\n",
			wantErr:     true,
			errContains: "negative",
		},
		{
			name:        "hcl_syntax",
			file:        ".engfix.hcl",
			config:      "target = \n",
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:        "unsupported_extension",
			file:        "engfix.toml",
			config:      "target = 'us'",
			wantErr:     true,
			errContains: "unsupported file extension",
		},
	}

	t.Setenv("ENGFIX_TEST_TARGET", "uk")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0644), "writing config file")

			logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
			ctx := logger.WithContext(context.Background())

			cfg, err := LoadConfig(ctx, path)
			if tt.wantErr {
				require.Error(t, err, "LoadConfig should fail")
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				}
				return
			}

			require.NoError(t, err, "LoadConfig should succeed")
			assert.Equal(t, path, cfg.Location())
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(context.Background(), filepath.Join(t.TempDir(), ".engfix.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Find(dir), "no config present")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".engfix.hcl"), nil, 0644))
	assert.Equal(t, filepath.Join(dir, ".engfix.hcl"), Find(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".engfix.yaml"), nil, 0644))
	assert.Equal(t, filepath.Join(dir, ".engfix.yaml"), Find(dir), "yaml wins over hcl")
}

func TestDefault(t *testing.T) {
	cfg := Default()

	tests := []struct {
		file     string
		wantMode fixer.Mode
		wantLang scan.Language
		wantNil  bool
	}{
		{file: "pkg/app.py", wantMode: fixer.ModeStructural, wantLang: scan.Python},
		{file: "stubs/app.PYI", wantMode: fixer.ModeStructural, wantLang: scan.Python},
		{file: "main.go", wantMode: fixer.ModeStructural, wantLang: scan.Go},
		{file: "web/app.mjs", wantMode: fixer.ModeStructural, wantLang: scan.JavaScript},
		{file: "README.md", wantMode: fixer.ModeText},
		{file: "src/lib.rs", wantMode: fixer.ModeLiteral},
		{file: "image.png", wantNil: true},
		{file: "Makefile", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			rule := cfg.RuleFor(tt.file)
			if tt.wantNil {
				assert.Nil(t, rule)
				return
			}
			require.NotNil(t, rule)
			assert.Equal(t, tt.wantMode, rule.Mode())
			if tt.wantLang != "" {
				assert.Equal(t, tt.wantLang, rule.Language())
			}
		})
	}
}

func TestIncluded(t *testing.T) {
	cfg := &Config{
		Include: []string{"src/**", "docs/*.md"},
		Exclude: []string{"**/vendor/**"},
	}
	require.NoError(t, cfg.Validate(context.Background()))

	assert.True(t, cfg.Included("src/app.py"))
	assert.True(t, cfg.Included("src/deep/nested/app.py"))
	assert.True(t, cfg.Included("docs/intro.md"))
	assert.False(t, cfg.Included("docs/deep/intro.md"))
	assert.False(t, cfg.Included("tests/app.py"))
	assert.False(t, cfg.Included("src/vendor/lib/x.py"))

	defaults := Default()
	assert.True(t, defaults.Included("anything/at/all.py"))
	assert.False(t, defaults.Included(".git/config"))
	assert.True(t, defaults.Excluded("web/node_modules"))
}

func TestSetTarget(t *testing.T) {
	cfg := Default()
	cfg.SetTarget(dictionary.TargetUK)
	assert.Equal(t, dictionary.TargetUK, cfg.Target())
	assert.Equal(t, "uk", cfg.TargetName)
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.txt"), []byte("mum\tmom\n"), 0644))
	cfgPath := filepath.Join(dir, ".engfix.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("dictionaries: [extra.txt]\n"), 0644))

	cfg, err := LoadConfig(context.Background(), cfgPath)
	require.NoError(t, err)

	d, err := cfg.Loader().Load(context.Background(), dictionary.TargetUS)
	require.NoError(t, err)

	got, ok := d.Lookup("mum")
	assert.True(t, ok)
	assert.Equal(t, "mom", got)

	got, ok = d.Lookup("centre")
	assert.True(t, ok, "embedded list is still loaded")
	assert.Equal(t, "center", got)
}
