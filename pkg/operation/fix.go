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

package operation

import (
	"context"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/engfix/pkg/config"
	"github.com/walteh/engfix/pkg/dictionary"
	"github.com/walteh/engfix/pkg/fixer"
)

// ErrNoRule reports a file whose extension no rule covers
var ErrNoRule = errors.Base("no rule for file")

// 📄 FileOptions configures FixFile
type FileOptions struct {
	Path   string
	Config *config.Config
	Loader *dictionary.Loader
	Codec  *Codec
	DryRun bool
}

// 📄 FileResult is the outcome of fixing one file
type FileResult struct {
	Path         string
	Mode         fixer.Mode
	Replacements int
	Modified     bool
	Original     string
	Fixed        string
}

// 🔧 FixFile reads a file, fixes it with the rule for its extension and, when
// something changed and DryRun is unset, writes it back with its original
// permissions.
func FixFile(ctx context.Context, opts FileOptions) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	loader := opts.Loader
	if loader == nil {
		loader = cfg.Loader()
	}
	codec := opts.Codec
	if codec == nil {
		var err error
		if codec, err = NewCodec(cfg.Encoding); err != nil {
			return nil, err
		}
	}

	rule := cfg.RuleFor(opts.Path)
	if rule == nil {
		return nil, errors.Errorf("%w: %s", ErrNoRule, opts.Path)
	}

	logger := zerolog.Ctx(ctx).With().Str("file", opts.Path).Str("rule", rule.String()).Logger()

	info, err := os.Stat(opts.Path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	data, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}

	content, err := codec.Decode(data)
	if err != nil {
		return nil, errors.Errorf("decoding file: %w", err)
	}

	f, err := fixer.New(ctx, fixer.Options{
		Content:  content,
		Target:   cfg.Target(),
		Mode:     rule.Mode(),
		Language: rule.Language(),
		Loader:   loader,
	})
	if err != nil {
		return nil, err
	}

	res, err := f.Fix(ctx)
	if err != nil {
		return nil, errors.Errorf("fixing file: %w", err)
	}

	result := &FileResult{
		Path:         opts.Path,
		Mode:         rule.Mode(),
		Replacements: res.ReplacementCount,
		Modified:     res.WasModified,
		Original:     res.Original,
		Fixed:        res.Modified,
	}

	if !res.WasModified {
		logger.Debug().Msg("file unchanged")
		return result, nil
	}
	if opts.DryRun {
		logger.Debug().Int("replacements", result.Replacements).Msg("dry run, not writing")
		return result, nil
	}

	out, err := codec.Encode(res.Modified)
	if err != nil {
		return nil, errors.Errorf("encoding file: %w", err)
	}
	if err := writeFileAtomic(opts.Path, out, info.Mode().Perm()); err != nil {
		return nil, err
	}

	logger.Debug().Int("replacements", result.Replacements).Msg("file fixed")
	return result, nil
}

// writeFileAtomic replaces path through a sibling temp file carrying perm
func writeFileAtomic(path string, content []byte, perm fs.FileMode) error {
	tempPath := path + ".engfix.tmp"

	if err := os.WriteFile(tempPath, content, perm); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	// WriteFile is subject to the umask
	if err := os.Chmod(tempPath, perm); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("setting file mode: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
