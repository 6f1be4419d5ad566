package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRandomToStdout(t *testing.T) {
	out, err := execute(t, "random", "--nodes", "6", "--edges", "8", "--seed", "3")
	if err != nil {
		t.Fatalf("random error = %v", err)
	}
	doc, err := graph.ReadDocument(strings.NewReader(out), graph.FormatJSON)
	if err != nil {
		t.Fatalf("output is not a graph document: %v\n%s", err, out)
	}
	if len(doc.Nodes) != 6 {
		t.Errorf("nodes = %d, want 6", len(doc.Nodes))
	}

	again, _ := execute(t, "random", "--nodes", "6", "--edges", "8", "--seed", "3")
	if again != out {
		t.Error("same seed produced a different document")
	}
}

func TestRandomToFileThenLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.toml")
	if _, err := execute(t, "random", "--nodes", "4", "--edges", "3", "-o", path); err != nil {
		t.Fatalf("random error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if _, err := execute(t, "layout", path, "--max-steps", "50", "--planar"); err != nil {
		t.Fatalf("layout error = %v", err)
	}
}

func TestRandomUUIDs(t *testing.T) {
	out, err := execute(t, "random", "--nodes", "3", "--edges", "2", "--ids", "uuid")
	if err != nil {
		t.Fatalf("random error = %v", err)
	}
	doc, err := graph.ReadDocument(strings.NewReader(out), graph.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range doc.Nodes {
		if _, err := uuid.Parse(n.ID); err != nil {
			t.Errorf("node id %q is not a UUID", n.ID)
		}
	}
}

func TestLayoutWritesPositions(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	src := `{
	"nodes": [{"id": "a", "x": 0, "y": 0, "z": 0}, {"id": "b", "x": 1, "y": 0, "z": 0}, {"id": "c", "x": 0, "y": 1, "z": 0}],
	"edges": [{"from": "a", "to": "b"}, {"from": "b", "to": "c"}]
}`
	if err := os.WriteFile(in, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.toml")
	if _, err := execute(t, "layout", in, "--max-steps", "20", "-o", out); err != nil {
		t.Fatalf("layout error = %v", err)
	}

	doc, err := graph.ReadDocumentFile(out)
	if err != nil {
		t.Fatalf("read layout output: %v", err)
	}
	if len(doc.Nodes) != 3 || len(doc.Edges) != 2 {
		t.Fatalf("output has %d nodes, %d edges, want 3, 2", len(doc.Nodes), len(doc.Edges))
	}
	b := doc.Nodes[1]
	if b.ID != "b" || b.X == nil || b.Y == nil {
		t.Fatalf("node b = %+v", b)
	}
	if *b.X == 1 && *b.Y == 0 {
		t.Error("node b was written at its starting position")
	}
}

func TestLayoutErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"layout", filepath.Join(dir, "nope.json")}},
		{"bad extension", []string{"layout", filepath.Join(dir, "g.yaml")}},
		{"bad damping", []string{"layout", filepath.Join(dir, "nope.json"), "--damping", "2"}},
		{"no args", []string{"layout"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error = %v", err)
	}
	if !strings.Contains(out, "forcegraph") {
		t.Error("bash completion does not mention the command")
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
}
