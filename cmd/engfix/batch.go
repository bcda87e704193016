package main

import (
	"context"
	"fmt"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/engfix/cmd/engfix/opts"
	"github.com/walteh/engfix/pkg/log"
	"github.com/walteh/engfix/pkg/operation"
)

// batch is the outcome of running the fixer over a set of roots
type batch struct {
	report  *operation.Report
	summary log.Summary
	runErr  error
}

// runBatch discovers files under roots and fixes (or checks) them, logging one
// line per file in path order
func runBatch(ctx context.Context, ro *opts.RootOpts, roots []string, dryRun bool) (*batch, error) {
	if len(roots) == 0 {
		roots = []string{"."}
	}

	files, err := operation.Discover(ctx, ro.Config, roots)
	if err != nil {
		return nil, errors.Errorf("discovering files: %w", err)
	}

	op, err := operation.NewFixOperation(operation.Options{
		Config: ro.Config,
		Loader: ro.Loader,
		DryRun: dryRun,
	})
	if err != nil {
		return nil, err
	}

	console := ro.Console
	console.StartRun(ctx, log.RunOperation{
		Target: ro.Config.Target().String(),
		Files:  len(files),
		DryRun: dryRun,
	})

	report, runErr := operation.NewRunner(ro.Config.Workers, ro.Config.FailFast).Run(ctx, op, files)

	results := make(map[string]*operation.FileResult, len(report.Results))
	for _, res := range report.Results {
		results[res.Path] = res
	}
	failures := make(map[string]error, len(report.Failures))
	for _, f := range report.Failures {
		failures[f.Path] = f.Err
	}

	for _, path := range files {
		if err, ok := failures[path]; ok {
			console.LogFileOperation(ctx, log.FileOperation{Path: path, Mode: modeFor(ro, path), Status: "failed", IsFailed: true})
			console.Errorf("%s: %v", path, err)
			continue
		}
		res, ok := results[path]
		if !ok {
			continue
		}
		console.LogFileOperation(ctx, fileOperation(res, dryRun))
	}

	return &batch{
		report:  report,
		summary: console.EndRun(ctx),
		runErr:  runErr,
	}, nil
}

func fileOperation(res *operation.FileResult, dryRun bool) log.FileOperation {
	status := "unchanged"
	if res.Modified {
		if dryRun {
			status = fmt.Sprintf("would fix (%d)", res.Replacements)
		} else {
			status = fmt.Sprintf("fixed (%d)", res.Replacements)
		}
	}
	return log.FileOperation{
		Path:         res.Path,
		Mode:         res.Mode.String(),
		Status:       status,
		IsModified:   res.Modified,
		DryRun:       dryRun,
		Replacements: res.Replacements,
	}
}

func modeFor(ro *opts.RootOpts, path string) string {
	if rule := ro.Config.RuleFor(path); rule != nil {
		return rule.Mode().String()
	}
	return ""
}
