package graph

import (
	"github.com/viant/careflow/model/duration"
)

// StepType is the kind of work a step performs
type StepType string

const (
	StepTask         StepType = "task"
	StepDecision     StepType = "decision"
	StepIntegration  StepType = "integration"
	StepWait         StepType = "wait"
	StepParallel     StepType = "parallel"
	StepManual       StepType = "manual"
	StepNotification StepType = "notification"
	StepApproval     StepType = "approval"
	StepSubprocess   StepType = "subprocess"
)

// StepTypes lists every supported step type
var StepTypes = []StepType{
	StepTask, StepDecision, StepIntegration, StepWait, StepParallel,
	StepManual, StepNotification, StepApproval, StepSubprocess,
}

// Executor names resolved by the runtime
const (
	TaskExecutor        = "TaskExecutor"
	DecisionExecutor    = "DecisionExecutor"
	IntegrationExecutor = "IntegrationExecutor"
	WaitExecutor        = "WaitExecutor"
	ParallelExecutor    = "ParallelExecutor"
	ManualExecutor      = "ManualExecutor"
	DefaultExecutor     = "DefaultExecutor"
)

// IsValid reports whether t is a supported step type
func (t StepType) IsValid() bool {
	for _, candidate := range StepTypes {
		if t == candidate {
			return true
		}
	}
	return false
}

// DefaultExecutor returns the executor used when a step does not name one
func (t StepType) DefaultExecutor() string {
	switch t {
	case StepTask:
		return TaskExecutor
	case StepDecision:
		return DecisionExecutor
	case StepIntegration:
		return IntegrationExecutor
	case StepWait:
		return WaitExecutor
	case StepParallel:
		return ParallelExecutor
	case StepManual:
		return ManualExecutor
	}
	return DefaultExecutor
}

type (
	// Step is a single unit of work in the workflow graph
	Step struct {
		ID            string                 `json:"id" yaml:"id"`
		Name          string                 `json:"name" yaml:"name"`
		Description   string                 `json:"description,omitempty" yaml:"description,omitempty"`
		Type          StepType               `json:"type" yaml:"type"`
		Executor      string                 `json:"executor" yaml:"executor"`
		Inputs        []string               `json:"inputs" yaml:"inputs"`
		InputMapping  map[string]interface{} `json:"inputMapping,omitempty" yaml:"inputMapping,omitempty"`
		Outputs       []string               `json:"outputs" yaml:"outputs"`
		Conditions    []*Condition           `json:"conditions,omitempty" yaml:"conditions,omitempty"`
		NextSteps     []string               `json:"nextSteps" yaml:"nextSteps"`
		Timeout       *duration.Duration     `json:"timeout,omitempty" yaml:"timeout,omitempty"`
		ErrorHandling *ErrorHandling         `json:"errorHandling,omitempty" yaml:"errorHandling,omitempty"`
		Integration   string                 `json:"integration,omitempty" yaml:"integration,omitempty"`
	}

	// ErrorHandling captures retry settings and fallback transitions
	ErrorHandling struct {
		Retry     *Retry   `json:"retry,omitempty" yaml:"retry,omitempty"`
		OnFailure []string `json:"onFailure,omitempty" yaml:"onFailure,omitempty"`
		OnTimeout []string `json:"onTimeout,omitempty" yaml:"onTimeout,omitempty"`
	}

	// Retry strategy for a step
	Retry struct {
		MaxAttempts int                `json:"maxAttempts" yaml:"maxAttempts"`
		Delay       *duration.Duration `json:"delay,omitempty" yaml:"delay,omitempty"`
	}
)

// IsEnd reports whether the step has no success transition
func (s *Step) IsEnd() bool {
	return len(s.NextSteps) == 0
}

// FallbackTargets returns failure and timeout targets in that order
func (s *Step) FallbackTargets() []string {
	if s.ErrorHandling == nil {
		return nil
	}
	var result []string
	result = append(result, s.ErrorHandling.OnFailure...)
	return append(result, s.ErrorHandling.OnTimeout...)
}

// WithNext adds a success transition
func (s *Step) WithNext(ids ...string) *Step {
	s.NextSteps = append(s.NextSteps, ids...)
	return s
}

// WithCondition adds a guard condition
func (s *Step) WithCondition(expression string) *Step {
	s.Conditions = append(s.Conditions, NewCondition(expression))
	return s
}

// Clone creates a deep copy of a step
func (s *Step) Clone() *Step {
	if s == nil {
		return nil
	}
	clone := &Step{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Type:        s.Type,
		Executor:    s.Executor,
		Inputs:      cloneStrings(s.Inputs),
		Outputs:     cloneStrings(s.Outputs),
		NextSteps:   cloneStrings(s.NextSteps),
		Timeout:     s.Timeout.Clone(),
		Integration: s.Integration,
	}
	if s.InputMapping != nil {
		clone.InputMapping = make(map[string]interface{}, len(s.InputMapping))
		for k, v := range s.InputMapping {
			clone.InputMapping[k] = v
		}
	}
	for _, condition := range s.Conditions {
		c := *condition
		c.Variables = cloneStrings(condition.Variables)
		clone.Conditions = append(clone.Conditions, &c)
	}
	if eh := s.ErrorHandling; eh != nil {
		clone.ErrorHandling = &ErrorHandling{
			OnFailure: cloneStrings(eh.OnFailure),
			OnTimeout: cloneStrings(eh.OnTimeout),
		}
		if eh.Retry != nil {
			clone.ErrorHandling.Retry = &Retry{MaxAttempts: eh.Retry.MaxAttempts, Delay: eh.Retry.Delay.Clone()}
		}
	}
	return clone
}

// Steps is an ordered collection of steps
type Steps []*Step

// Index returns steps keyed by id
func (s Steps) Index() map[string]*Step {
	result := make(map[string]*Step, len(s))
	for _, step := range s {
		result[step.ID] = step
	}
	return result
}

// Lookup returns a step by id
func (s Steps) Lookup(id string) *Step {
	for _, step := range s {
		if step.ID == id {
			return step
		}
	}
	return nil
}

// IDs returns step ids in declaration order
func (s Steps) IDs() []string {
	result := make([]string, 0, len(s))
	for _, step := range s {
		result = append(result, step.ID)
	}
	return result
}

// Clone creates a deep copy of the collection
func (s Steps) Clone() Steps {
	if s == nil {
		return nil
	}
	result := make(Steps, len(s))
	for i, step := range s {
		result[i] = step.Clone()
	}
	return result
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	result := make([]string, len(values))
	copy(result, values)
	return result
}
