// Package presenter drives a force simulation tick by tick and hands the
// resulting positions to a [Sink].
//
// A [Presenter] owns one [force.Simulator]. Each [Presenter.Tick] advances the
// simulation once, converts positions from simulation units to view units
// and forwards a [Frame] to the sink. [Presenter.Run] repeats that until the
// layout converges, a tick budget runs out, or the context is cancelled.
//
// Dragging is built on the simulator's two interaction primitives:
// [Presenter.BeginDrag] pins a node, [Presenter.Drag] moves it, and
// [Presenter.EndDrag] releases it.
//
// A Presenter is not safe for concurrent use.
package presenter

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r3"

	ferrors "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout/force"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// DefaultViewScale converts simulation units to view units.
const DefaultViewScale = 0.01

// Frame is the state published after a tick.
type Frame struct {
	Step      int
	Energy    float64
	Converged bool
	Positions map[graph.ID]r3.Vec // view units
	Changed   []graph.ID          // nodes that moved since the previous frame, in graph order
}

// Sink receives frames. Returning an error stops [Presenter.Run].
type Sink interface {
	Update(ctx context.Context, f Frame) error
}

// SinkFunc adapts a function to a [Sink].
type SinkFunc func(ctx context.Context, f Frame) error

// Update calls fn.
func (fn SinkFunc) Update(ctx context.Context, f Frame) error { return fn(ctx, f) }

type discardSink struct{}

func (discardSink) Update(context.Context, Frame) error { return nil }

// Result summarizes a [Presenter.Run].
type Result struct {
	Steps     int
	Converged bool
	Energy    float64
	Duration  time.Duration
}

// Presenter connects a simulator to a sink.
type Presenter struct {
	sim      *force.Simulator
	sink     Sink
	scale    float64
	interval time.Duration
	logger   *log.Logger

	last     map[graph.ID]r3.Vec
	dragging graph.Node
}

// Option configures a [Presenter].
type Option func(*Presenter)

// WithSink sets the frame receiver. Frames are discarded by default.
func WithSink(s Sink) Option {
	return func(p *Presenter) {
		if s != nil {
			p.sink = s
		}
	}
}

// WithViewScale sets the simulation-to-view factor. Non-positive values are
// ignored.
func WithViewScale(scale float64) Option {
	return func(p *Presenter) {
		if scale > 0 {
			p.scale = scale
		}
	}
}

// WithInterval paces [Presenter.Run] to one tick per interval. Zero runs
// ticks back to back.
func WithInterval(d time.Duration) Option {
	return func(p *Presenter) { p.interval = d }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(p *Presenter) {
		if l == nil {
			l = log.NewWithOptions(io.Discard, log.Options{})
		}
		p.logger = l
	}
}

// New creates a presenter for sim.
func New(sim *force.Simulator, opts ...Option) *Presenter {
	p := &Presenter{
		sim:    sim,
		sink:   discardSink{},
		scale:  DefaultViewScale,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Simulator returns the underlying simulator.
func (p *Presenter) Simulator() *force.Simulator { return p.sim }

// ViewScale returns the simulation-to-view factor.
func (p *Presenter) ViewScale() float64 { return p.scale }

// =============================================================================
// Ticking
// =============================================================================

// Snapshot returns the current state without stepping. Changed is nil.
func (p *Presenter) Snapshot() Frame {
	return Frame{
		Step:      p.sim.Steps(),
		Energy:    p.sim.Energy(),
		Converged: p.sim.WithinThreshold(),
		Positions: p.toView(p.sim.ApplyCalculation()),
	}
}

// Tick advances the simulation by dt and publishes the new frame.
func (p *Presenter) Tick(ctx context.Context, dt float64) (Frame, error) {
	p.sim.Calculate(dt)
	if err := p.sim.Err(); err != nil {
		return Frame{}, err
	}

	f := p.Snapshot()
	f.Changed = p.diff(f.Positions)
	p.last = f.Positions

	observability.Layout().OnStep(ctx, f.Step, f.Energy)
	if err := p.sink.Update(ctx, f); err != nil {
		return f, err
	}
	return f, nil
}

// Run ticks until the layout converges or maxTicks ticks have run. A
// non-positive maxTicks means no limit. Cancelling ctx stops the run between
// ticks; the partial result is returned with the context's error.
func (p *Presenter) Run(ctx context.Context, dt float64, maxTicks int) (Result, error) {
	g := p.sim.Graph()
	observability.Layout().OnLayoutStart(ctx, g.NodeCount(), g.EdgeCount())
	p.logger.Debug("layout started", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "dt", dt, "max_ticks", maxTicks)

	start := time.Now()
	res, err := p.run(ctx, dt, maxTicks)
	res.Duration = time.Since(start)

	observability.Layout().OnLayoutComplete(ctx, res.Steps, res.Converged, res.Duration, err)
	if err != nil {
		p.logger.Debug("layout stopped", "steps", res.Steps, "err", err)
		return res, err
	}
	p.logger.Debug("layout finished", "steps", res.Steps, "converged", res.Converged,
		"energy", res.Energy, "duration", res.Duration.Round(time.Millisecond))
	return res, nil
}

func (p *Presenter) run(ctx context.Context, dt float64, maxTicks int) (Result, error) {
	var res Result
	var ticker *time.Ticker
	if p.interval > 0 {
		ticker = time.NewTicker(p.interval)
		defer ticker.Stop()
	}

	for ticks := 0; maxTicks <= 0 || ticks < maxTicks; ticks++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return res, err
		}

		f, err := p.Tick(ctx, dt)
		if err != nil {
			return res, err
		}
		res.Steps++
		res.Energy = f.Energy
		res.Converged = f.Converged
		if f.Converged {
			break
		}
	}
	return res, nil
}

func (p *Presenter) toView(sim map[graph.ID]r3.Vec) map[graph.ID]r3.Vec {
	out := make(map[graph.ID]r3.Vec, len(sim))
	for id, pos := range sim {
		out[id] = r3.Scale(p.scale, pos)
	}
	return out
}

func (p *Presenter) diff(next map[graph.ID]r3.Vec) []graph.ID {
	var changed []graph.ID
	for _, n := range p.sim.Graph().Nodes() {
		pos, ok := next[n.ID()]
		if !ok {
			continue
		}
		if prev, seen := p.last[n.ID()]; !seen || prev != pos {
			changed = append(changed, n.ID())
		}
	}
	return changed
}

// =============================================================================
// Interaction
// =============================================================================

// NodeAt returns the first node, in graph order, whose view position lies
// within radius of viewPos.
func (p *Presenter) NodeAt(viewPos r3.Vec, radius float64) (graph.Node, bool) {
	positions := p.sim.ApplyCalculation()
	for _, n := range p.sim.Graph().Nodes() {
		pos, ok := positions[n.ID()]
		if !ok {
			continue
		}
		d := r3.Sub(r3.Scale(p.scale, pos), viewPos)
		if r3.Dot(d, d) < radius*radius {
			return n, true
		}
	}
	return nil, false
}

// BeginDrag pins n and makes it the dragged node. A drag already in progress
// is ended first.
func (p *Presenter) BeginDrag(ctx context.Context, n graph.Node) error {
	if p.dragging != nil {
		if err := p.EndDrag(ctx); err != nil {
			return err
		}
	}
	if err := p.sim.PinNode(n, true); err != nil {
		return err
	}
	p.dragging = n
	observability.Interaction().OnPin(ctx, n.ID(), true)
	p.logger.Debug("drag started", "node", n.ID())
	return nil
}

// Drag moves the dragged node to viewPos, given in view units.
func (p *Presenter) Drag(ctx context.Context, viewPos r3.Vec) error {
	if p.dragging == nil {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "no drag in progress")
	}
	if err := p.sim.UpdatePositionInteracted(p.dragging, r3.Scale(1/p.scale, viewPos)); err != nil {
		return err
	}
	observability.Interaction().OnDrag(ctx, p.dragging.ID())
	return nil
}

// EndDrag releases the dragged node. It is a no-op when nothing is dragged.
func (p *Presenter) EndDrag(ctx context.Context) error {
	if p.dragging == nil {
		return nil
	}
	n := p.dragging
	p.dragging = nil
	if err := p.sim.PinNode(n, false); err != nil {
		return err
	}
	observability.Interaction().OnPin(ctx, n.ID(), false)
	p.logger.Debug("drag ended", "node", n.ID())
	return nil
}

// Dragging returns the node being dragged, if any.
func (p *Presenter) Dragging() (graph.Node, bool) {
	return p.dragging, p.dragging != nil
}

// Pin pins or releases n outside of a drag.
func (p *Presenter) Pin(ctx context.Context, n graph.Node, pinned bool) error {
	if err := p.sim.PinNode(n, pinned); err != nil {
		return err
	}
	observability.Interaction().OnPin(ctx, n.ID(), pinned)
	return nil
}
