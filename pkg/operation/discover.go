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
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/engfix/pkg/config"
)

// ownerReadWrite are the permission bits a file needs to be fixed in place
const ownerReadWrite fs.FileMode = 0o600

// 🔍 Discover expands roots into the sorted set of files engfix should process.
// Directories are walked recursively and filtered by the config's globs
// (relative to the root). Files named explicitly skip the globs but still
// need a rule and owner read/write permission.
func Discover(ctx context.Context, cfg *config.Config, roots []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	if cfg == nil {
		cfg = config.Default()
	}

	var found []string
	for _, root := range roots {
		root = filepath.Clean(root)
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Errorf("reading %s: %w", root, err)
		}

		if !info.IsDir() {
			if accept(ctx, cfg, root, "", info) {
				found = append(found, root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return errors.Errorf("walking %s: %w", path, err)
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return errors.Errorf("relative path for %s: %w", path, err)
			}

			if d.IsDir() {
				if rel != "." && cfg.Excluded(rel) {
					logger.Debug().Str("dir", path).Msg("skipping excluded directory")
					return filepath.SkipDir
				}
				return nil
			}

			// symlinks and devices report a non-regular type here
			if !d.Type().IsRegular() {
				logger.Debug().Str("file", path).Msg("skipping non-regular file")
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return errors.Errorf("stat %s: %w", path, err)
			}
			if accept(ctx, cfg, path, rel, info) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.Sort(found)
	found = slices.Compact(found)

	logger.Debug().Int("files", len(found)).Strs("roots", roots).Msg("discovered files")
	return found, nil
}

// accept applies the per-file checks. An empty rel skips the glob filters.
func accept(ctx context.Context, cfg *config.Config, path, rel string, info fs.FileInfo) bool {
	logger := zerolog.Ctx(ctx).With().Str("file", path).Logger()

	switch {
	case !info.Mode().IsRegular():
		logger.Debug().Msg("skipping non-regular file")
		return false
	case info.Mode().Perm()&ownerReadWrite != ownerReadWrite:
		logger.Debug().Str("mode", info.Mode().String()).Msg("skipping file without owner read/write")
		return false
	case rel != "" && !cfg.Included(rel):
		logger.Debug().Msg("skipping file filtered by globs")
		return false
	case cfg.RuleFor(path) == nil:
		logger.Trace().Msg("skipping file without a rule")
		return false
	}
	return true
}
