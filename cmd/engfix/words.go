package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/engfix/cmd/engfix/opts"
)

// newWordsCmd creates the words command
func newWordsCmd(ro *opts.RootOpts) *cobra.Command {
	var contains string

	cmd := &cobra.Command{
		Use:   "words",
		Short: "List the dictionary for the target",
		Long: `Words prints every source spelling and its replacement for the
target selected by --target or the config, including extra word lists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			target := ro.Config.Target()

			dict, err := ro.Loader.Load(ctx, target)
			if err != nil {
				return err
			}

			data := pterm.TableData{{"spelling", target.String()}}
			for _, p := range dict.Pairs() {
				if contains != "" && !strings.Contains(p.From, contains) && !strings.Contains(p.To, contains) {
					continue
				}
				data = append(data, []string{p.From, p.To})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering table: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, table)
			fmt.Fprintf(out, "%d of %d words\n", len(data)-1, dict.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&contains, "contains", "", "only show pairs containing this text")

	return cmd
}
