package graph

import (
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestComponents(t *testing.T) {
	tests := []struct {
		name  string
		nodes []ID
		edges [][2]ID
		want  [][]ID
	}{
		{name: "Empty"},
		{
			name:  "Isolated",
			nodes: []ID{"a", "b"},
			want:  [][]ID{{"a"}, {"b"}},
		},
		{
			name:  "Chain",
			nodes: []ID{"a", "b", "c"},
			edges: [][2]ID{{"a", "b"}, {"c", "b"}},
			want:  [][]ID{{"a", "b", "c"}},
		},
		{
			name:  "TwoIslands",
			nodes: []ID{"a", "x", "b", "y"},
			edges: [][2]ID{{"a", "b"}, {"y", "x"}},
			want:  [][]ID{{"a", "b"}, {"x", "y"}},
		},
		{
			name:  "SelfLoopAndParallel",
			nodes: []ID{"a", "b", "c"},
			edges: [][2]ID{{"a", "a"}, {"a", "b"}, {"b", "a"}},
			want:  [][]ID{{"a", "b"}, {"c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			nodes := map[ID]*SimpleNode{}
			for _, id := range tt.nodes {
				nodes[id] = NewNode(id, "", r3.Vec{})
				_ = g.AddNode(nodes[id])
			}
			seq := NewSequence("e")
			for _, e := range tt.edges {
				_ = g.AddEdge(NewEdge(seq.Next(), nodes[e[0]], nodes[e[1]]))
			}

			got := Components(g)
			if !slices.EqualFunc(got, tt.want, slices.Equal[[]ID]) {
				t.Errorf("Components() = %v, want %v", got, tt.want)
			}
		})
	}
}
