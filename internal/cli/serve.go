package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/internal/server"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/presenter"
	"github.com/matzehuels/forcegraph/pkg/session"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive layout sessions over HTTP",
		Long: `Serve the interaction API. Each session holds a live simulation that clients
step, inspect, pin and drag. Simulation flags set the parameters of new
sessions. Idle sessions expire after --session-ttl.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())

			printInfo("Serving on %s", StyleValue.Render(cfg.Addr))
			printDetail("sessions expire after %s idle", cfg.SessionTTL)
			printDetail("graphs are limited to %d nodes and %d edges", cfg.MaxNodes, cfg.MaxEdges)
			printNextStep("Create a session", `curl -X POST -d '{"random":{"nodes":20,"edges":30}}' http://localhost`+cfg.Addr+"/sessions")

			srv := server.New(cfg, session.NewMemoryStore(cfg.SessionTTL), logger)
			return srv.ListenAndServe(cmd.Context())
		},
	}

	config.BindSimulationFlags(cmd.Flags())
	cmd.Flags().Int64("seed", 0, "placement seed for nodes without coordinates")
	cmd.Flags().Float64("view-scale", presenter.DefaultViewScale, "simulation-to-view scale for reported positions")
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().Duration("session-ttl", session.DefaultTTL, "idle lifetime of a session")
	config.BindLimitFlags(cmd.Flags())
	config.BindIDFlag(cmd.Flags())

	return cmd
}
