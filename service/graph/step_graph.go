package graph

import (
	"github.com/viant/careflow/model"
	mgraph "github.com/viant/careflow/model/graph"
)

// stepGraph indexes the steps of a definition for a single validation pass
type stepGraph struct {
	start string
	ids   []string
	steps map[string]*mgraph.Step
}

func newStepGraph(definition *model.WorkflowDefinition) *stepGraph {
	return &stepGraph{
		start: definition.StartStep,
		ids:   definition.Steps.IDs(),
		steps: definition.Steps.Index(),
	}
}

func (g *stepGraph) has(id string) bool {
	_, ok := g.steps[id]
	return ok
}

func (g *stepGraph) step(id string) *mgraph.Step {
	return g.steps[id]
}

// roots returns the start step first, then every step in declaration order
func (g *stepGraph) roots() []string {
	ret := make([]string, 0, len(g.ids)+1)
	if g.has(g.start) {
		ret = append(ret, g.start)
	}
	return append(ret, g.ids...)
}
