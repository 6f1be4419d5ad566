package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// the elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Layout converged (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Log-backed Hooks
// =============================================================================

// logHooks reports layout and interaction events at debug level.
type logHooks struct {
	logger *log.Logger
	every  int // log every n-th step
}

func installLogHooks(l *log.Logger) {
	h := &logHooks{logger: l.WithPrefix("hooks"), every: 100}
	observability.SetLayoutHooks(h)
	observability.SetInteractionHooks(h)
}

func (h *logHooks) OnLayoutStart(_ context.Context, nodes, edges int) {
	h.logger.Debug("layout start", "nodes", nodes, "edges", edges)
}

func (h *logHooks) OnStep(_ context.Context, step int, energy float64) {
	if h.every > 0 && step%h.every == 0 {
		h.logger.Debug("step", "n", step, "energy", energy)
	}
}

func (h *logHooks) OnLayoutComplete(_ context.Context, steps int, converged bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout stopped", "steps", steps, "err", err)
		return
	}
	h.logger.Debug("layout complete", "steps", steps, "converged", converged, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnPin(_ context.Context, id graph.ID, pinned bool) {
	h.logger.Debug("pin", "node", id, "pinned", pinned)
}

func (h *logHooks) OnDrag(_ context.Context, id graph.ID) {
	h.logger.Debug("drag", "node", id)
}

var (
	_ observability.LayoutHooks      = (*logHooks)(nil)
	_ observability.InteractionHooks = (*logHooks)(nil)
)
