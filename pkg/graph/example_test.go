package graph_test

import (
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

func ExampleGraph() {
	g := graph.New()
	a := graph.NewNode("a", "", r3.Vec{})
	b := graph.NewNode("b", "", r3.Vec{X: 1})
	c := graph.NewNode("c", "", r3.Vec{X: 2})

	// Endpoints are added with the edge.
	_ = g.AddEdge(graph.NewEdge("ab", a, b))
	_ = g.AddEdge(graph.NewEdge("bc", b, c))
	fmt.Println("nodes:", g.NodeCount(), "edges:", g.EdgeCount())

	// Removing a node removes its edges.
	g.RemoveNode(b)
	fmt.Println("nodes:", g.NodeCount(), "edges:", g.EdgeCount())
	// Output:
	// nodes: 3 edges: 2
	// nodes: 2 edges: 0
}

func ExampleDocument_Build() {
	src := `{
		"nodes": [
			{"id": "a", "x": 0, "y": 0},
			{"id": "b", "label": "Beta"},
			{"id": "c"}
		],
		"edges": [
			{"from": "a", "to": "b"},
			{"id": "bc", "from": "b", "to": "c"}
		]
	}`

	doc, err := graph.ReadDocument(strings.NewReader(src), graph.FormatJSON)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	g, unplaced, err := doc.Build(graph.NewSequence("e"))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	for _, e := range g.Edges() {
		fmt.Printf("%s: %s -> %s\n", e.ID(), e.Source().Label(), e.Target().Label())
	}
	fmt.Println("unplaced:", unplaced)
	// Output:
	// e0: a -> Beta
	// bc: Beta -> c
	// unplaced: [b c]
}

func ExampleWriteDocument() {
	g := graph.New()
	a := graph.NewNode("a", "", r3.Vec{})
	b := graph.NewNode("b", "Beta", r3.Vec{X: 1})
	_ = g.AddEdge(graph.NewEdge("ab", a, b))

	if err := graph.WriteDocument(os.Stdout, graph.FromGraph(g), graph.FormatJSON); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "a",
	//       "x": 0,
	//       "y": 0,
	//       "z": 0
	//     },
	//     {
	//       "id": "b",
	//       "label": "Beta",
	//       "x": 1,
	//       "y": 0,
	//       "z": 0
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "id": "ab",
	//       "from": "a",
	//       "to": "b"
	//     }
	//   ]
	// }
}
