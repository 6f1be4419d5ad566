package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout/force"
	"github.com/matzehuels/forcegraph/pkg/presenter"
	"github.com/matzehuels/forcegraph/pkg/provider"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json|graph.toml]",
		Short: "Run a graph to equilibrium and print node positions",
		Long: `Run a force-directed layout of a graph document until the system's kinetic
energy drops below the threshold or --max-steps is reached.

Nodes without coordinates are scattered deterministically (see --seed) before
the simulation starts. Positions are printed in simulation units. With
--output the graph is also written back as a document holding the settled
positions, in the format of the file extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), cfg, args[0], limit, output)
		},
	}

	config.BindSimulationFlags(cmd.Flags())
	cmd.Flags().Int64("seed", 0, "placement seed for nodes without coordinates")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many nodes (0 = all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the laid out graph to this file (.json or .toml)")
	config.BindIDFlag(cmd.Flags())

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, cfg *config.Config, path string, limit int, output string) error {
	logger := loggerFromContext(ctx)

	src := provider.File{
		Path:    path,
		IDs:     cfg.IDGenerator("e"),
		Scatter: provider.Scatter{Seed: cfg.Seed, Planar: cfg.Planar},
	}
	g, err := src.Graph(ctx)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", path, err)
	}
	sim, err := cfg.NewSimulator(g)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, "Settling layout...")
	sink := presenter.SinkFunc(func(_ context.Context, f presenter.Frame) error {
		spinner.SetMessage(fmt.Sprintf("step %d · energy %.4g", f.Step, f.Energy))
		return nil
	})
	p := presenter.New(sim, presenter.WithSink(sink), presenter.WithViewScale(cfg.ViewScale), presenter.WithLogger(logger))

	prog := newProgress(logger)
	spinner.Start()
	res, err := p.Run(ctx, cfg.TimeStep, cfg.MaxSteps)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("run layout: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Ran %d steps", res.Steps))

	fmt.Println(renderPositions(positionRows(sim, limit), sim.Planar(), ""))
	printNewline()
	if res.Converged {
		printSuccess("Converged")
	} else {
		printWarning("Step limit reached before convergence")
	}
	printKeyValue("Steps", strconv.Itoa(res.Steps))
	printKeyValue("Energy", strconv.FormatFloat(res.Energy, 'g', 6, 64))
	printKeyValue("Law", sim.Law().String())
	printStats(g.NodeCount(), g.EdgeCount(), len(graph.Components(g)))

	if output != "" {
		moved := graph.ApplyPositions(g, sim.ApplyCalculation())
		if err := graph.WriteDocumentFile(graph.FromGraph(g), output); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printNewline()
		printSuccess("Layout written")
		printFile(output)
		printDetail("%d of %d nodes moved", len(moved), g.NodeCount())
	}

	printNewline()
	printNextStep("Watch it settle", appName+" watch "+path)

	return nil
}

// positionRows lists the simulated position of every node in graph order.
func positionRows(sim *force.Simulator, limit int) []positionRow {
	positions := sim.ApplyCalculation()
	nodes := sim.Graph().Nodes()
	if limit > 0 && limit < len(nodes) {
		nodes = nodes[:limit]
	}
	rows := make([]positionRow, 0, len(nodes))
	for _, n := range nodes {
		row := positionRow{ID: n.ID(), Label: n.Label(), Pos: positions[n.ID()]}
		if pt, err := sim.GetPoint(n); err == nil {
			row.Pinned = pt.Pinned
		}
		rows = append(rows, row)
	}
	return rows
}
