package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/walteh/engfix/cmd/engfix/opts"
	"github.com/walteh/engfix/pkg/log"
	"github.com/walteh/engfix/pkg/operation"
)

// newWatchCmd creates the watch command
func newWatchCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Fix files as they are written",
		Long: `Watch fixes every matching file under the given paths whenever it is
created or saved, until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), ro, args)
		},
	}

	return cmd
}

func runWatch(ctx context.Context, ro *opts.RootOpts, roots []string) error {
	if len(roots) == 0 {
		roots = []string{"."}
	}

	op, err := operation.NewFixOperation(operation.Options{
		Config: ro.Config,
		Loader: ro.Loader,
	})
	if err != nil {
		return err
	}

	console := ro.Console
	w, err := operation.NewWatcher(ctx, roots, operation.WatchOptions{
		Config:    ro.Config,
		Operation: op,
		OnResult: func(path string, res *operation.FileResult, err error) {
			if err != nil {
				console.LogFileOperation(ctx, log.FileOperation{Path: path, Mode: modeFor(ro, path), Status: "failed", IsFailed: true})
				console.Errorf("%s: %v", path, err)
				return
			}
			// only report real edits, the write-back itself triggers a no-op pass
			if res.Modified {
				console.LogFileOperation(ctx, fileOperation(res, false))
			}
		},
	})
	if err != nil {
		return err
	}

	console.Header("watching " + strings.Join(roots, ", ") + " (" + ro.Config.Target().String() + ")")
	return w.Run(ctx)
}
