// Package cli implements the forcegraph command-line interface.
//
// # Commands
//
//   - layout: run a graph document to convergence and print node positions
//   - random: generate a random graph document
//   - watch: live terminal view of a running layout
//   - serve: HTTP interaction service
//   - completion: shell completion scripts
//
// Settings come from defaults, a TOML config file (--config), FORCEGRAPH_*
// environment variables and command flags, in increasing precedence.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through the command context; in verbose mode it also backs the
// observability hooks so that layout and interaction events are logged.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/buildinfo"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "forcegraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the observability
// hooks are routed to the logger; otherwise they are reset to no-ops.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installLogHooks(c.Logger)
	} else {
		observability.Reset()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "forcegraph lays out graphs with a force-directed simulation",
		Long: `forcegraph positions the nodes of a graph by simulating springs along its
edges and mutual repulsion between nodes until the system settles.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./"+config.DefaultFile+" if present)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.randomCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig layers the config file, environment and the command's flags.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("configuration loaded", "file", c.configPath, "law", cfg.Law, "planar", cfg.Planar)
	return cfg, nil
}
