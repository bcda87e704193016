package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/walteh/engfix/cmd/engfix/opts"
)

// newFixCmd creates the fix command
func newFixCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Fix regional spellings in place",
		Long: `Fix rewrites spellings toward the target in every matching file under
the given paths (default: the working directory).

The exit code is the number of files changed, capped at 125, so scripts can
tell whether anything was rewritten. It is 126 when any file failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd.Context(), ro, args)
		},
	}

	return cmd
}

func runFix(ctx context.Context, ro *opts.RootOpts, roots []string) error {
	b, err := runBatch(ctx, ro, roots, false)
	if err != nil {
		return err
	}

	if b.runErr != nil {
		return &exitError{code: failureExit, err: b.runErr}
	}
	if b.summary.Failed > 0 {
		ro.Console.Warningf("fixed %d files, %d failed", b.summary.Fixed, b.summary.Failed)
		return &exitError{code: failureExit}
	}

	if b.summary.Fixed == 0 {
		ro.Console.Success("nothing to fix")
		return nil
	}

	ro.Console.Successf("fixed %d of %d files", b.summary.Fixed, b.summary.Fixed+b.summary.Unchanged)
	return &exitError{code: min(b.summary.Fixed, maxFixedExit)}
}
