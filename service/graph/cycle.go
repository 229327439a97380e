package graph

import (
	"strings"

	"github.com/viant/careflow/model/validation"
)

type color uint8

const (
	white color = iota
	grey
	black
)

// frame is a node on the explicit DFS stack; next indexes its pending edge
type frame struct {
	id   string
	next int
}

// checkCycles runs an iterative three colour DFS over success transitions.
// Roots are the start step followed by the remaining steps in declaration
// order, so every node is explored exactly once and every back edge is seen.
func checkCycles(g *stepGraph, result *validation.Result) {
	colors := make(map[string]color, len(g.ids))
	reported := map[string]bool{}
	for _, root := range g.roots() {
		if colors[root] != white {
			continue
		}
		colors[root] = grey
		stack := []*frame{{id: root}}
		onStack := map[string]int{root: 0}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			edges := g.step(top.id).NextSteps
			if top.next == len(edges) {
				colors[top.id] = black
				delete(onStack, top.id)
				stack = stack[:len(stack)-1]
				continue
			}
			target := edges[top.next]
			top.next++
			if !g.has(target) {
				continue
			}
			switch colors[target] {
			case white:
				colors[target] = grey
				onStack[target] = len(stack)
				stack = append(stack, &frame{id: target})
			case grey:
				cycle := make([]string, 0, len(stack)-onStack[target]+1)
				for _, item := range stack[onStack[target]:] {
					cycle = append(cycle, item.id)
				}
				cycle = append(cycle, target)
				key := strings.Join(cycle, " -> ")
				if reported[key] {
					continue
				}
				reported[key] = true
				issue := result.AddError(stepPath(top.id, "on.success"), validation.CodeCircular, "circular dependency: %v", key)
				issue.Cycle = cycle
			}
		}
	}
}
