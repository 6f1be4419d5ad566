package force_test

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout/force"
)

func ExampleSimulator() {
	g := graph.New()
	a := graph.NewNode("a", "", r3.Vec{X: -1})
	b := graph.NewNode("b", "", r3.Vec{X: 1})
	_ = g.AddEdge(graph.NewEdge("ab", a, b))

	sim, err := force.NewPlanar(g, force.DefaultParams())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for range 5 {
		sim.Calculate(0.016)
	}

	pos := sim.ApplyCalculation()
	fmt.Println("steps:", sim.Steps())
	fmt.Println("a left of b:", pos["a"].X < pos["b"].X)
	fmt.Println("graph untouched:", a.Position() == r3.Vec{X: -1})
	// Output:
	// steps: 5
	// a left of b: true
	// graph untouched: true
}
