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

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/engfix/pkg/config"
	"github.com/walteh/engfix/pkg/dictionary"
)

// 🎯 Operation processes a single file
type Operation interface {
	Execute(ctx context.Context, path string) (*FileResult, error)
}

// OperationFunc adapts a function to the Operation interface
type OperationFunc func(ctx context.Context, path string) (*FileResult, error)

// Execute calls f(ctx, path)
func (f OperationFunc) Execute(ctx context.Context, path string) (*FileResult, error) {
	return f(ctx, path)
}

// 🔧 Options contains shared settings for file operations
type Options struct {
	// Config supplies rules and the spelling target (nil means config.Default)
	Config *config.Config
	// Loader is shared by every file (nil means Config.Loader)
	Loader *dictionary.Loader
	// Codec decodes and encodes file content (nil means Config.Encoding)
	Codec *Codec
	// DryRun computes results without writing files
	DryRun bool
}

// 🔧 FixOperation fixes files in place
type FixOperation struct {
	opts Options
}

// 🏭 NewFixOperation resolves defaults once so every file shares one loader
// and codec
func NewFixOperation(opts Options) (*FixOperation, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Loader == nil {
		opts.Loader = opts.Config.Loader()
	}
	if opts.Codec == nil {
		codec, err := NewCodec(opts.Config.Encoding)
		if err != nil {
			return nil, errors.Errorf("creating codec: %w", err)
		}
		opts.Codec = codec
	}
	return &FixOperation{opts: opts}, nil
}

// Execute fixes one file
func (op *FixOperation) Execute(ctx context.Context, path string) (*FileResult, error) {
	return FixFile(ctx, FileOptions{
		Path:   path,
		Config: op.opts.Config,
		Loader: op.opts.Loader,
		Codec:  op.opts.Codec,
		DryRun: op.opts.DryRun,
	})
}

// DryRun reports whether files are left untouched
func (op *FixOperation) DryRun() bool {
	return op.opts.DryRun
}
