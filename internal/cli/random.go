package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/provider"
)

// randomCommand creates the random command.
func (c *CLI) randomCommand() *cobra.Command {
	var (
		output string
		format string
		extent float64
	)

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Generate a random graph document",
		Long: `Generate a random graph with uniformly placed nodes and random edges.

The same --seed always produces the same graph. The document is written to
stdout unless --output is given, in which case the format follows the file
extension.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}

			gen := provider.Random{Nodes: cfg.Nodes, Edges: cfg.Edges, Seed: uint64(cfg.Seed), IDs: cfg.RandomIDs()}
			if extent > 0 {
				gen.Bounds = provider.Bounds{
					Min: r3.Vec{X: -extent, Y: -extent, Z: -extent},
					Max: r3.Vec{X: extent, Y: extent, Z: extent},
				}
			}
			g, err := gen.Graph(cmd.Context())
			if err != nil {
				return err
			}
			doc := graph.FromGraph(g)

			if output == "" {
				return graph.WriteDocument(cmd.OutOrStdout(), doc, graph.Format(format))
			}
			if err := graph.WriteDocumentFile(doc, output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Random graph written")
			printFile(output)
			printStats(g.NodeCount(), g.EdgeCount(), len(graph.Components(g)))
			printNewline()
			printNextStep("Lay it out", appName+" layout "+output)
			return nil
		},
	}

	config.BindRandomFlags(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json or .toml)")
	cmd.Flags().StringVarP(&format, "format", "f", string(graph.FormatJSON), "stdout format: json or toml")
	cmd.Flags().Float64Var(&extent, "extent", 0, "half width of the placement box (default 10)")

	return cmd
}
