package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"gonum.org/v1/gonum/spatial/r3"

	ferrors "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/presenter"
	"github.com/matzehuels/forcegraph/pkg/provider"
	"github.com/matzehuels/forcegraph/pkg/session"
)

// =============================================================================
// Wire Types
// =============================================================================

type randomRequest struct {
	Nodes  int     `json:"nodes"`
	Edges  int     `json:"edges"`
	Seed   uint64  `json:"seed"`
	Extent float64 `json:"extent,omitempty"` // half width of the placement box
}

type createRequest struct {
	graph.Document
	Random *randomRequest `json:"random,omitempty"`
}

type stepRequest struct {
	DT    *float64 `json:"dt,omitempty"`
	Steps int      `json:"steps,omitempty"`
}

type pinRequest struct {
	Node   string `json:"node"`
	Pinned bool   `json:"pinned"`
}

// dragRequest moves a node to a view position. Without a node id the drag in
// progress continues, or with a radius the first node within it is picked.
type dragRequest struct {
	Node    string  `json:"node,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Radius  float64 `json:"radius,omitempty"` // pick radius in view units
	Release bool    `json:"release,omitempty"`
}

type nodeView struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Pinned bool    `json:"pinned,omitempty"`
}

type edgeView struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

type sessionView struct {
	ID        string     `json:"id"`
	Step      int        `json:"step"`
	Energy    float64    `json:"energy"`
	Converged bool       `json:"converged"`
	Planar    bool       `json:"planar"`
	Dragging  string     `json:"dragging,omitempty"`
	ExpiresAt time.Time  `json:"expires_at"`
	Nodes     []nodeView `json:"nodes"`
	Edges     []edgeView `json:"edges"`
}

type errorBody struct {
	Code    ferrors.Code `json:"code"`
	Message string       `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.store.Len()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.checkSize(&req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	g, err := s.providerFor(&req).Graph(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sim, err := s.cfg.NewSimulator(g)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p := presenter.New(sim, presenter.WithViewScale(s.cfg.ViewScale), presenter.WithLogger(s.logger))

	sess, err := s.store.Open(ctx, p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("session created", "id", sess.ID, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	s.respond(w, http.StatusCreated, sess)
}

// checkSize rejects requests for graphs above the configured limits before
// anything is allocated.
func (s *Server) checkSize(req *createRequest) error {
	if req.Random != nil {
		return s.cfg.CheckSize(req.Random.Nodes, req.Random.Edges)
	}
	return s.cfg.CheckSize(len(req.Nodes), len(req.Edges))
}

func (s *Server) providerFor(req *createRequest) provider.Provider {
	if req.Random != nil {
		rnd := provider.Random{Nodes: req.Random.Nodes, Edges: req.Random.Edges, Seed: req.Random.Seed, IDs: s.cfg.RandomIDs()}
		if e := req.Random.Extent; e > 0 {
			rnd.Bounds = provider.Bounds{Min: r3.Vec{X: -e, Y: -e, Z: -e}, Max: r3.Vec{X: e, Y: e, Z: e}}
		}
		return rnd
	}
	return provider.Inline{
		Document: &req.Document,
		IDs:      s.cfg.IDGenerator("e"),
		Scatter:  provider.Scatter{Seed: s.cfg.Seed, Planar: s.cfg.Planar},
	}
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, sess)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.Get(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	dt := s.cfg.TimeStep
	if req.DT != nil {
		dt = *req.DT
	}
	steps := req.Steps
	if steps == 0 {
		steps = 1
	}
	if steps < 0 || steps > maxStepsPerCall {
		s.writeError(w, r, ferrors.New(ferrors.ErrCodeInvalidInput, "steps must be between 1 and %d, got %d", maxStepsPerCall, steps))
		return
	}

	s.withSession(w, r, func(p *presenter.Presenter) error {
		ctx := r.Context()
		for range steps {
			// The client is gone; keep the steps taken so far.
			if ctx.Err() != nil {
				break
			}
			f, err := p.Tick(ctx, dt)
			if err != nil {
				return err
			}
			if f.Converged {
				break
			}
		}
		return nil
	})
}

func (s *Server) handlePin(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, func(p *presenter.Presenter) error {
		n, err := lookupNode(p, req.Node)
		if err != nil {
			return err
		}
		return p.Pin(r.Context(), n, req.Pinned)
	})
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, func(p *presenter.Presenter) error {
		ctx := r.Context()
		if req.Release {
			return p.EndDrag(ctx)
		}
		n, err := dragTarget(p, &req)
		if err != nil {
			return err
		}
		if cur, ok := p.Dragging(); !ok || cur.ID() != n.ID() {
			if err := p.BeginDrag(ctx, n); err != nil {
				return err
			}
		}
		return p.Drag(ctx, r3.Vec{X: req.X, Y: req.Y, Z: req.Z})
	})
}

// withSession runs fn under the session lock and responds with the session
// state afterwards.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(p *presenter.Presenter) error) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Do(fn); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, sess)
}

// dragTarget resolves the node a drag request moves.
func dragTarget(p *presenter.Presenter, req *dragRequest) (graph.Node, error) {
	if req.Node != "" {
		return lookupNode(p, req.Node)
	}
	if n, ok := p.Dragging(); ok {
		return n, nil
	}
	if req.Radius <= 0 {
		return lookupNode(p, req.Node)
	}
	pos := r3.Vec{X: req.X, Y: req.Y, Z: req.Z}
	n, ok := p.NodeAt(pos, req.Radius)
	if !ok {
		return nil, ferrors.New(ferrors.ErrCodeNodeNotFound, "no node within %g of (%g, %g, %g)", req.Radius, pos.X, pos.Y, pos.Z)
	}
	return n, nil
}

func lookupNode(p *presenter.Presenter, id string) (graph.Node, error) {
	if err := ferrors.ValidateID("node", id); err != nil {
		return nil, err
	}
	n, ok := p.Simulator().Graph().Node(id)
	if !ok {
		return nil, ferrors.New(ferrors.ErrCodeNodeNotFound, "node %q is not part of the graph", id)
	}
	return n, nil
}

// =============================================================================
// Encoding
// =============================================================================

func (s *Server) respond(w http.ResponseWriter, status int, sess *session.Session) {
	var view sessionView
	_ = sess.Do(func(p *presenter.Presenter) error {
		view = buildView(sess.ID, p)
		return nil
	})
	view.ExpiresAt = sess.ExpiresAt()
	writeJSON(w, status, view)
}

func buildView(id string, p *presenter.Presenter) sessionView {
	sim := p.Simulator()
	f := p.Snapshot()
	view := sessionView{
		ID:        id,
		Step:      f.Step,
		Energy:    f.Energy,
		Converged: f.Converged,
		Planar:    sim.Planar(),
	}
	if n, ok := p.Dragging(); ok {
		view.Dragging = n.ID()
	}
	for _, n := range sim.Graph().Nodes() {
		pos := f.Positions[n.ID()]
		nv := nodeView{ID: n.ID(), Label: n.Label(), X: pos.X, Y: pos.Y, Z: pos.Z}
		if pt, err := sim.GetPoint(n); err == nil {
			nv.Pinned = pt.Pinned
		}
		view.Nodes = append(view.Nodes, nv)
	}
	for _, e := range sim.Graph().Edges() {
		view.Edges = append(view.Edges, edgeView{ID: e.ID(), From: e.Source().ID(), To: e.Target().ID()})
	}
	return view
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := ferrors.GetCode(err)
	status := statusFor(code)
	msg := ferrors.UserMessage(err)
	if code == "" || status == http.StatusInternalServerError {
		s.logger.Error("request error", "path", r.URL.Path, "err", err)
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		if code == "" {
			code = ferrors.ErrCodeInternal
			msg = "internal error"
		}
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func statusFor(code ferrors.Code) int {
	switch code {
	case ferrors.ErrCodeInvalidInput, ferrors.ErrCodeInvalidConfig, ferrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ferrors.ErrCodeNodeNotFound, ferrors.ErrCodeEdgeNotFound, ferrors.ErrCodeFileNotFound,
		ferrors.ErrCodeSessionNotFound, ferrors.ErrCodeSessionExpired:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
