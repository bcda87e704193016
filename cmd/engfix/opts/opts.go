package opts

import (
	"github.com/walteh/engfix/pkg/config"
	"github.com/walteh/engfix/pkg/dictionary"
	"github.com/walteh/engfix/pkg/log"
)

// RootOpts contains shared options used by all commands. It is filled in
// by the root command before any subcommand runs.
type RootOpts struct {
	Config  *config.Config
	Loader  *dictionary.Loader
	Console *log.Logger
}
