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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// ❌ Failure is a file that could not be processed
type Failure struct {
	Path string
	Err  error
}

// 📊 Report collects the outcome of a run, in input path order
type Report struct {
	Results  []*FileResult
	Failures []Failure
}

// Fixed returns how many files were (or in a dry run would be) modified
func (r *Report) Fixed() int {
	n := 0
	for _, res := range r.Results {
		if res.Modified {
			n++
		}
	}
	return n
}

// 🏃 OperationRunner executes an operation over many files
type OperationRunner struct {
	workers  int
	failFast bool
}

// 🏗️ NewRunner creates a runner with at most workers files in flight
func NewRunner(workers int, failFast bool) *OperationRunner {
	if workers < 1 {
		workers = 1
	}
	return &OperationRunner{
		workers:  workers,
		failFast: failFast,
	}
}

// 🏃 Run executes op for every path. Per-file errors are collected into the
// report. With fail fast the first error cancels the remaining files and is
// returned alongside the partial report.
func (r *OperationRunner) Run(ctx context.Context, op Operation, paths []string) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("files", len(paths)).Int("workers", r.workers).Bool("fail_fast", r.failFast).Msg("starting run")

	results := make([]*FileResult, len(paths))
	failures := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := op.Execute(gctx, path)
			if err != nil {
				if r.failFast {
					return errors.Errorf("processing %s: %w", path, err)
				}
				failures[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}

	waitErr := g.Wait()

	report := &Report{}
	for i, path := range paths {
		switch {
		case results[i] != nil:
			report.Results = append(report.Results, results[i])
		case failures[i] != nil:
			report.Failures = append(report.Failures, Failure{Path: path, Err: failures[i]})
		}
	}

	if waitErr != nil {
		return report, waitErr
	}
	if err := ctx.Err(); err != nil {
		return report, errors.Errorf("run cancelled: %w", err)
	}

	logger.Debug().Int("fixed", report.Fixed()).Int("failed", len(report.Failures)).Msg("run complete")
	return report, nil
}
