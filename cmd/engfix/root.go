package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/engfix/cmd/engfix/opts"
	"github.com/walteh/engfix/pkg/config"
	"github.com/walteh/engfix/pkg/dictionary"
	"github.com/walteh/engfix/pkg/log"
)

// rootFlags are the persistent flags shared by every command
type rootFlags struct {
	configFile string
	target     string
	encoding   string
	workers    int
	failFast   bool
	debug      bool
}

// newRootCmd builds the command tree. The root command behaves like fix.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}
	ro := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "engfix [paths...]",
		Short: "Rewrite British and American spellings in source code and text",
		Long: `engfix rewrites regional spellings (colour/color, centre/center, ...)
toward a target locale. In source code only string literals and comments are
touched, so identifiers and keywords keep their spelling.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), flags.debug, stderr)
			cmd.SetContext(ctx)
			return newRootOpts(ctx, cmd, flags, ro, stdout)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd.Context(), ro, args)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newFixCmd(ro),
		newCheckCmd(ro),
		newWatchCmd(ro),
		newWordsCmd(ro),
		newVersionCmd(),
	)

	return rootCmd
}

// newRootOpts loads the config and applies flag overrides
func newRootOpts(ctx context.Context, cmd *cobra.Command, flags *rootFlags, ro *opts.RootOpts, stdout io.Writer) error {
	logger := zerolog.Ctx(ctx)

	path := flags.configFile
	if path == "" {
		path = config.Find(".")
	}

	var cfg *config.Config
	if path == "" {
		logger.Debug().Msg("no config file found, using defaults")
		cfg = config.Default()
	} else {
		loaded, err := config.LoadConfig(ctx, path)
		if err != nil {
			return errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	pf := cmd.Flags()
	if pf.Changed("target") {
		target, err := dictionary.ParseTarget(flags.target)
		if err != nil {
			return err
		}
		cfg.SetTarget(target)
	}
	if pf.Changed("encoding") {
		cfg.Encoding = flags.encoding
	}
	if pf.Changed("workers") {
		if flags.workers < 1 {
			return errors.Errorf("workers must be at least 1, got %d", flags.workers)
		}
		cfg.Workers = flags.workers
	}
	if pf.Changed("fail-fast") {
		cfg.FailFast = flags.failFast
	}

	mirror := zerolog.Nop()
	if flags.debug {
		mirror = *logger
	}

	ro.Config = cfg
	ro.Loader = cfg.Loader()
	ro.Console = log.New(stdout, mirror)
	return nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "config file path (default: .engfix.{yaml,yml,json,hcl} in the working directory)")
	pf.StringVar(&flags.target, "target", "", "spelling target: us or uk (overrides config)")
	pf.StringVar(&flags.encoding, "encoding", "", "file encoding (overrides config)")
	pf.IntVar(&flags.workers, "workers", 0, "files processed in parallel (overrides config)")
	pf.BoolVar(&flags.failFast, "fail-fast", false, "stop at the first file that fails")
	pf.BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
}

// setupLogging installs a zerolog logger on ctx based on flags
func setupLogging(ctx context.Context, debug bool, stderr io.Writer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger().Level(level)
	return logger.WithContext(ctx)
}
