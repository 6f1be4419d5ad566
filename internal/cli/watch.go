package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/presenter"
	"github.com/matzehuels/forcegraph/pkg/provider"
)

var (
	watchHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	watchStateStyle = lipgloss.NewStyle().Bold(true)
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		fps int
		top int
	)

	cmd := &cobra.Command{
		Use:   "watch [graph.json|graph.toml]",
		Short: "Watch a layout settle in the terminal",
		Long: `Run a layout one step per frame and show its energy and the most agitated
nodes. Without a file a random graph is generated from --nodes, --edges and
--seed.

Keys: space pause/resume, s single step while paused, q quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if fps <= 0 {
				return fmt.Errorf("--fps must be positive, got %d", fps)
			}

			var src provider.Provider = provider.Random{Nodes: cfg.Nodes, Edges: cfg.Edges, Seed: uint64(cfg.Seed), IDs: cfg.RandomIDs()}
			if len(args) == 1 {
				src = provider.File{Path: args[0], IDs: cfg.IDGenerator("e"), Scatter: provider.Scatter{Seed: cfg.Seed, Planar: cfg.Planar}}
			}
			g, err := src.Graph(cmd.Context())
			if err != nil {
				return err
			}
			sim, err := cfg.NewSimulator(g)
			if err != nil {
				return err
			}

			// The TUI owns the terminal; keep log output off it.
			p := presenter.New(sim, presenter.WithViewScale(cfg.ViewScale))
			m := newWatchModel(cmd.Context(), p, cfg.TimeStep, time.Second/time.Duration(fps), top)
			final, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if wm, ok := final.(watchModel); ok && wm.err != nil {
				return wm.err
			}
			return nil
		},
	}

	config.BindSimulationFlags(cmd.Flags())
	config.BindRandomFlags(cmd.Flags())
	cmd.Flags().IntVar(&fps, "fps", 30, "frames (simulation steps) per second")
	cmd.Flags().IntVar(&top, "top", 10, "number of nodes to list")

	return cmd
}

// =============================================================================
// watchModel
// =============================================================================

type tickMsg time.Time

// watchModel steps the presenter once per tick.
type watchModel struct {
	ctx      context.Context
	p        *presenter.Presenter
	dt       float64
	interval time.Duration
	top      int

	frame  presenter.Frame
	paused bool
	err    error
}

func newWatchModel(ctx context.Context, p *presenter.Presenter, dt float64, interval time.Duration, top int) watchModel {
	return watchModel{
		ctx:      ctx,
		p:        p,
		dt:       dt,
		interval: interval,
		top:      top,
		frame:    p.Snapshot(),
	}
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "s":
			if m.paused {
				return m.step(), nil
			}
		}
	case tickMsg:
		if !m.paused && !m.frame.Converged {
			m = m.step()
			if m.err != nil {
				return m, tea.Quit
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m watchModel) step() watchModel {
	f, err := m.p.Tick(m.ctx, m.dt)
	if err != nil {
		m.err = err
		return m
	}
	m.frame = f
	return m
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("forcegraph"))
	b.WriteString("  ")
	b.WriteString(m.state())
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s   %s %s\n\n",
		StyleDim.Render("step"), StyleNumber.Render(fmt.Sprint(m.frame.Step)),
		StyleDim.Render("energy"), StyleNumber.Render(fmt.Sprintf("%.5g", m.frame.Energy)))

	sim := m.p.Simulator()
	b.WriteString(renderPositions(m.hottest(), sim.Planar(), "Energy"))
	b.WriteString("\n\n")
	b.WriteString(watchHelpStyle.Render("space pause  s step  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m watchModel) state() string {
	switch {
	case m.err != nil:
		return watchStateStyle.Foreground(colorRed).Render("error: " + m.err.Error())
	case m.frame.Converged:
		return watchStateStyle.Foreground(colorGreen).Render("converged")
	case m.paused:
		return watchStateStyle.Foreground(colorYellow).Render("paused")
	default:
		return watchStateStyle.Foreground(colorCyan).Render("running")
	}
}

// hottest returns the nodes with the most kinetic energy, highest first,
// at their view positions.
func (m watchModel) hottest() []positionRow {
	sim := m.p.Simulator()
	type hot struct {
		n      graph.Node
		energy float64
		pinned bool
	}
	var all []hot
	for _, n := range sim.Graph().Nodes() {
		pt, err := sim.GetPoint(n)
		if err != nil {
			continue
		}
		all = append(all, hot{n: n, energy: pt.KineticEnergy(), pinned: pt.Pinned})
	}
	slices.SortStableFunc(all, func(a, b hot) int { return cmp.Compare(b.energy, a.energy) })
	if m.top > 0 && len(all) > m.top {
		all = all[:m.top]
	}

	rows := make([]positionRow, len(all))
	for i, h := range all {
		rows[i] = positionRow{
			ID:     h.n.ID(),
			Label:  h.n.Label(),
			Pos:    m.frame.Positions[h.n.ID()],
			Pinned: h.pinned,
			Extra:  fmt.Sprintf("%.4g", h.energy),
		}
	}
	return rows
}
