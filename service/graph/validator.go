// Package graph analyses the step graph of a converted workflow definition:
// reference resolution, reachability from the start step and cycle detection.
package graph

import (
	"strings"

	"github.com/viant/careflow/model"
	"github.com/viant/careflow/model/validation"
	"go.uber.org/zap"
)

// Validator runs independent graph checks and accumulates every issue;
// it keeps no per call state and is safe for concurrent use
type Validator struct {
	logger *zap.Logger
}

// Option customises a validator
type Option func(*Validator)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger.With(zap.String("component", "graph"))
		}
	}
}

// New creates a graph validator
func New(options ...Option) *Validator {
	ret := &Validator{logger: zap.NewNop()}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Validate checks definition; IsValid is true when no error was reported
func (v *Validator) Validate(definition *model.WorkflowDefinition) *validation.Result {
	result := validation.NewResult()
	if definition == nil {
		result.AddError("", validation.CodeInvalidDocument, "definition is nil")
		return result
	}
	g := newStepGraph(definition)
	checkStart(g, result)
	checkReferences(g, result)
	checkFallbacks(g, result)
	checkIntegrations(definition, result)
	checkReachability(g, result)
	checkCycles(g, result)
	checkConditions(definition, result)
	checkEndSteps(g, result)

	v.logger.Debug("validated workflow graph",
		zap.String("workflow", definition.Name),
		zap.Int("steps", len(g.ids)),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)))
	return result
}

func checkStart(g *stepGraph, result *validation.Result) {
	if !g.has(g.start) {
		result.AddError("start", validation.CodeInvalidStartStep, "start step %q is not defined", g.start)
	}
}

func checkReferences(g *stepGraph, result *validation.Result) {
	for _, id := range g.ids {
		for _, target := range g.step(id).NextSteps {
			if !g.has(target) {
				result.AddError(stepPath(id, "on.success"), validation.CodeInvalidReference, "step %q references undefined step %q", id, target)
			}
		}
	}
}

func checkFallbacks(g *stepGraph, result *validation.Result) {
	for _, id := range g.ids {
		handling := g.step(id).ErrorHandling
		if handling == nil {
			continue
		}
		for _, fallback := range []struct {
			field   string
			targets []string
		}{
			{"on.failure", handling.OnFailure},
			{"on.timeout", handling.OnTimeout},
		} {
			for _, target := range fallback.targets {
				if !g.has(target) {
					result.AddError(stepPath(id, fallback.field), validation.CodeInvalidFallback, "step %q falls back to undefined step %q", id, target)
				}
			}
		}
	}
}

func checkIntegrations(definition *model.WorkflowDefinition, result *validation.Result) {
	for _, step := range definition.Steps {
		if step.Integration != "" && definition.Integration(step.Integration) == nil {
			result.AddError(stepPath(step.ID, "integration"), validation.CodeInvalidIntegRef, "step %q references undefined integration %q", step.ID, step.Integration)
		}
	}
}

// checkReachability walks success transitions breadth first from the start step
func checkReachability(g *stepGraph, result *validation.Result) {
	visited := make(map[string]bool, len(g.ids))
	if g.has(g.start) {
		visited[g.start] = true
		queue := []string{g.start}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			for _, target := range g.step(id).NextSteps {
				if g.has(target) && !visited[target] {
					visited[target] = true
					queue = append(queue, target)
				}
			}
		}
	}
	for _, id := range g.ids {
		if !visited[id] {
			result.AddWarning(stepPath(id, ""), validation.CodeUnreachableStep, "step %q is not reachable from start step %q", id, g.start)
		}
	}
}

func checkConditions(definition *model.WorkflowDefinition, result *validation.Result) {
	known := map[string]bool{}
	for _, name := range definition.Variables.Names() {
		known[name] = true
	}
	for _, step := range definition.Steps {
		for _, output := range step.Outputs {
			known[output] = true
		}
	}
	for _, step := range definition.Steps {
		for _, condition := range step.Conditions {
			if err := condition.Validate(); err != nil {
				result.AddWarning(stepPath(step.ID, "when"), validation.CodeInvalidCondition, "%v", err)
				continue
			}
			for _, name := range condition.Variables {
				if !known[name] {
					result.AddWarning(stepPath(step.ID, "when"), validation.CodeUndefinedVar, "condition references undefined variable %q", name)
				}
			}
		}
	}
}

func checkEndSteps(g *stepGraph, result *validation.Result) {
	if len(g.ids) == 0 {
		return
	}
	for _, id := range g.ids {
		if g.step(id).IsEnd() {
			return
		}
	}
	result.AddWarning("steps", validation.CodeMissingEndStep, "workflow has no end step, every step has a success transition")
}

func stepPath(id, field string) string {
	if field == "" {
		return "steps." + id
	}
	return strings.Join([]string{"steps", id, field}, ".")
}
