package main

import (
	"github.com/spf13/cobra"

	"github.com/walteh/engfix/cmd/engfix/opts"
)

// newCheckCmd creates the check command
func newCheckCmd(ro *opts.RootOpts) *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report files that would change",
		Long: `Check runs the fixer without writing anything.
It exits 1 when at least one file would change, 126 when any file failed
and 0 otherwise. With --diff the changed lines of each file are printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			b, err := runBatch(ctx, ro, args, true)
			if err != nil {
				return err
			}

			if showDiff {
				for _, res := range b.report.Results {
					if res.Modified {
						ro.Console.Raw(renderDiff(res.Path, res.Original, res.Fixed))
					}
				}
			}

			switch {
			case b.runErr != nil:
				return &exitError{code: failureExit, err: b.runErr}
			case b.summary.Failed > 0:
				return &exitError{code: failureExit}
			case b.summary.Fixed > 0:
				ro.Console.Warningf("%d files would change", b.summary.Fixed)
				return &exitError{code: 1}
			}

			ro.Console.Success("all files use the target spelling")
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "print the changes for each file")

	return cmd
}
