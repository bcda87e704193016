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
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/goleak"
)

var errBoom = errors.Base("boom")

// fakeOperation marks paths containing "fail" as failures and "fix" as modified
func fakeOperation(calls *atomic.Int32, inFlight, maxInFlight *atomic.Int32) Operation {
	return OperationFunc(func(ctx context.Context, path string) (*FileResult, error) {
		calls.Add(1)
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}

		if strings.Contains(path, "fail") {
			return nil, errors.Errorf("%w: %s", errBoom, path)
		}
		return &FileResult{Path: path, Modified: strings.Contains(path, "fix")}, nil
	})
}

func TestRunner(t *testing.T) {
	defer goleak.VerifyNone(t)

	tests := []struct {
		name         string
		workers      int
		paths        []string
		wantResults  []string
		wantFailures []string
		wantFixed    int
	}{
		{
			name:        "ordered_results",
			workers:     4,
			paths:       []string{"fix-a", "b", "fix-c", "d", "e", "fix-f"},
			wantResults: []string{"fix-a", "b", "fix-c", "d", "e", "fix-f"},
			wantFixed:   3,
		},
		{
			name:         "failures_collected",
			workers:      2,
			paths:        []string{"fix-a", "fail-b", "c", "fail-d"},
			wantResults:  []string{"fix-a", "c"},
			wantFailures: []string{"fail-b", "fail-d"},
			wantFixed:    1,
		},
		{
			name:    "empty",
			workers: 3,
			paths:   nil,
		},
		{
			name:        "zero_workers_runs_serially",
			workers:     0,
			paths:       []string{"a", "fix-b"},
			wantResults: []string{"a", "fix-b"},
			wantFixed:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls, inFlight, maxInFlight atomic.Int32
			runner := NewRunner(tt.workers, false)

			report, err := runner.Run(testContext(t), fakeOperation(&calls, &inFlight, &maxInFlight), tt.paths)
			require.NoError(t, err)

			var gotResults []string
			for _, r := range report.Results {
				gotResults = append(gotResults, r.Path)
			}
			var gotFailures []string
			for _, f := range report.Failures {
				gotFailures = append(gotFailures, f.Path)
				assert.True(t, errors.Is(f.Err, errBoom))
			}

			assert.Equal(t, tt.wantResults, gotResults, "results should keep input order")
			assert.Equal(t, tt.wantFailures, gotFailures, "failures should keep input order")
			assert.Equal(t, tt.wantFixed, report.Fixed())
			assert.Equal(t, int32(len(tt.paths)), calls.Load(), "every path should run")

			limit := int32(max(tt.workers, 1))
			assert.LessOrEqual(t, maxInFlight.Load(), limit, "worker limit should hold")
		})
	}
}

func TestRunner_FailFast(t *testing.T) {
	defer goleak.VerifyNone(t)

	paths := []string{"fail-a"}
	for i := range 20 {
		paths = append(paths, fmt.Sprintf("file-%02d", i))
	}

	var calls, inFlight, maxInFlight atomic.Int32
	report, err := NewRunner(1, true).Run(testContext(t), fakeOperation(&calls, &inFlight, &maxInFlight), paths)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBoom))
	assert.Contains(t, err.Error(), "processing fail-a")

	require.NotNil(t, report)
	assert.Empty(t, report.Failures, "fail fast returns the error instead of collecting it")
	assert.Less(t, calls.Load(), int32(len(paths)), "remaining files should be skipped")
}

func TestRunner_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	var calls, inFlight, maxInFlight atomic.Int32
	_, err := NewRunner(2, false).Run(ctx, fakeOperation(&calls, &inFlight, &maxInFlight), []string{"a", "b", "c"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunner_FixOperation(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := testContext(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.py")
	bad := filepath.Join(dir, "bad.py")
	same := filepath.Join(dir, "same.txt")
	writeFile(t, good, "s = 'grey'\n", 0644)
	writeFile(t, bad, "s = ('grey'\n", 0644)
	writeFile(t, same, "gray\n", 0644)

	paths, err := Discover(ctx, nil, []string{dir})
	require.NoError(t, err)
	require.Equal(t, []string{bad, good, same}, paths)

	op, err := NewFixOperation(Options{})
	require.NoError(t, err)

	report, err := NewRunner(4, false).Run(ctx, op, paths)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Fixed())
	require.Len(t, report.Failures, 1)
	assert.Equal(t, bad, report.Failures[0].Path)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "s = 'gray'\n", readFile(t, good))
	assert.Equal(t, "s = ('grey'\n", readFile(t, bad), "failed files are never written")
}
