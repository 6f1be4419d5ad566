package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout/force"
	"github.com/matzehuels/forcegraph/pkg/presenter"
)

func newTestWatch(t *testing.T) watchModel {
	t.Helper()
	g := graph.New()
	a := graph.NewNode("a", "", r3.Vec{})
	b := graph.NewNode("b", "", r3.Vec{X: 1})
	if err := g.AddEdge(graph.NewEdge("e0", a, b)); err != nil {
		t.Fatal(err)
	}
	sim, err := force.New(g, force.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	return newWatchModel(context.Background(), presenter.New(sim), 0.016, time.Millisecond, 5)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWatchModelSteps(t *testing.T) {
	m := newTestWatch(t)

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(watchModel)
	if m.frame.Step != 1 {
		t.Fatalf("Step = %d, want 1", m.frame.Step)
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}

	next, _ = m.Update(key(" "))
	m = next.(watchModel)
	if !m.paused {
		t.Fatal("space should pause")
	}
	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(watchModel)
	if m.frame.Step != 1 {
		t.Errorf("Step = %d while paused, want 1", m.frame.Step)
	}

	next, _ = m.Update(key("s"))
	m = next.(watchModel)
	if m.frame.Step != 2 {
		t.Errorf("Step = %d after single step, want 2", m.frame.Step)
	}
	if view := m.View(); !strings.Contains(view, "paused") || !strings.Contains(view, "Energy") {
		t.Errorf("View() =\n%s", view)
	}
}

func TestWatchModelHottestOrder(t *testing.T) {
	m := newTestWatch(t)
	next, _ := m.Update(tickMsg(time.Now()))
	m = next.(watchModel)

	rows := m.hottest()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	sim := m.p.Simulator()
	first, _ := sim.Graph().Node(rows[0].ID)
	second, _ := sim.Graph().Node(rows[1].ID)
	p1, _ := sim.GetPoint(first)
	p2, _ := sim.GetPoint(second)
	if p1.KineticEnergy() < p2.KineticEnergy() {
		t.Errorf("rows not ordered by energy: %v < %v", p1.KineticEnergy(), p2.KineticEnergy())
	}
}

func TestWatchModelQuit(t *testing.T) {
	m := newTestWatch(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
