// Package convert maps a structurally valid DSL document into a workflow
// definition, applying defaults and inference rules.
package convert

import (
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/viant/careflow/internal/clock"
	"github.com/viant/careflow/internal/idgen"
	"github.com/viant/careflow/model"
	"github.com/viant/careflow/model/duration"
	"github.com/viant/careflow/model/graph"
	"github.com/viant/careflow/model/state"
	"github.com/viant/careflow/service/dsl"
	"github.com/viant/structology/conv"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

const (
	// DefaultMethod is used by integrations without method
	DefaultMethod = "POST"
	// DefaultAttempts is the retry attempt count used when retry omits attempts
	DefaultAttempts = 3
)

var (
	// DefaultIntegrationTimeout applies to integrations without timeout
	DefaultIntegrationTimeout = duration.Duration{Value: 30, Unit: duration.Second}
	// DefaultRetryDelay is the initial delay of the default retry policy
	DefaultRetryDelay = duration.Duration{Value: 1, Unit: duration.Second}
)

// Converter converts DSL documents; it holds no per call state
type Converter struct {
	logger *zap.Logger
	now    func() time.Time
	values *conv.Converter
}

// New creates a converter
func New(options ...Option) *Converter {
	ret := &Converter{
		logger: zap.NewNop(),
		now:    clock.Now,
		values: conv.NewConverter(conv.DefaultOptions()),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Convert creates a draft definition authored by author. The document must
// have passed schema validation; the only failure modes are malformed
// durations (*duration.FormatError) and defaults that cannot take the declared type.
func (c *Converter) Convert(doc *dsl.Document, author string) (*model.WorkflowDefinition, error) {
	source, err := doc.Decode()
	if err != nil {
		return nil, err
	}
	canonical, err := doc.Canonical()
	if err != nil {
		return nil, fmt.Errorf("failed to render workflow document: %w", err)
	}
	checksum := blake2b.Sum256(canonical)

	processType := model.ProcessType(source.Workflow.Type)
	ret := &model.WorkflowDefinition{
		ID:          idgen.Named(source.Workflow.Name, source.Workflow.Version),
		Name:        source.Workflow.Name,
		Description: source.Workflow.Description,
		Version:     source.Workflow.Version,
		Type:        processType,
		Category:    processType.Category(),
		Status:      model.StatusDraft,
		StartStep:   source.Start,
		Metadata: &model.Metadata{
			CreatedBy: author,
			CreatedAt: c.now(),
			Checksum:  hex.EncodeToString(checksum[:]),
			Source:    doc.URL,
		},
	}
	if ret.Variables, err = c.variables(source.Variables); err != nil {
		return nil, err
	}
	if ret.Steps, err = c.steps(source.Steps); err != nil {
		return nil, err
	}
	ret.EndSteps = endSteps(source.Steps)
	if ret.SLA, err = c.sla(source.SLA); err != nil {
		return nil, err
	}
	ret.Compliance = compliance(source.Compliance)
	if ret.Integrations, err = c.integrations(source.Integrations); err != nil {
		return nil, err
	}
	ret.Monitoring = monitoring(ret)

	c.logger.Debug("converted workflow",
		zap.String("workflow", ret.Name),
		zap.String("version", ret.Version),
		zap.Int("steps", len(ret.Steps)),
		zap.Int("integrations", len(ret.Integrations)))
	return ret, nil
}

func (c *Converter) variables(source dsl.Variables) (state.Variables, error) {
	ret := make(state.Variables, 0, len(source))
	for _, item := range source {
		variable := &state.Variable{
			Name:        item.Name,
			Type:        state.VariableType(item.Type),
			Description: item.Description,
		}
		if item.Required != nil {
			variable.Required = *item.Required
		}
		if item.Default != nil {
			value, err := c.typedValue(variable.Type, item.Default)
			if err != nil {
				return nil, fmt.Errorf("invalid default of variable %v: %w", item.Name, err)
			}
			variable.Default = value
		}
		ret.Add(variable)
	}
	return ret, nil
}

// typedValue converts a default to the Go representation of the declared type
func (c *Converter) typedValue(varType state.VariableType, value interface{}) (interface{}, error) {
	switch varType {
	case state.TypeString:
		var ret string
		err := c.values.Convert(value, &ret)
		return ret, err
	case state.TypeNumber:
		var ret float64
		err := c.values.Convert(value, &ret)
		return ret, err
	case state.TypeBoolean:
		var ret bool
		err := c.values.Convert(value, &ret)
		return ret, err
	case state.TypeDate:
		switch actual := value.(type) {
		case time.Time:
			return actual, nil
		case string:
			return state.ParseDate(actual)
		}
		return nil, fmt.Errorf("unsupported date value %T", value)
	}
	return value, nil
}

func (c *Converter) steps(source dsl.Steps) (graph.Steps, error) {
	ret := make(graph.Steps, 0, len(source))
	for _, item := range source {
		step, err := c.step(item)
		if err != nil {
			return nil, err
		}
		ret = append(ret, step)
	}
	return ret, nil
}

func (c *Converter) step(source *dsl.Step) (*graph.Step, error) {
	stepType := graph.StepType(source.Type)
	ret := &graph.Step{
		ID:           source.ID,
		Name:         source.Name,
		Description:  source.Description,
		Type:         stepType,
		Executor:     source.Executor,
		Inputs:       sortedKeys(source.Input),
		InputMapping: source.Input,
		Outputs:      append([]string{}, source.Output...),
		NextSteps:    append([]string{}, source.SuccessTargets()...),
		Integration:  source.Integration,
	}
	if ret.Name == "" {
		ret.Name = source.ID
	}
	if ret.Executor == "" {
		ret.Executor = stepType.DefaultExecutor()
	}
	if source.When != "" {
		ret.Conditions = []*graph.Condition{graph.NewCondition(source.When)}
	}
	var err error
	path := "steps." + source.ID
	if ret.Timeout, err = parseDuration(path+".timeout", source.Timeout); err != nil {
		return nil, err
	}

	var handling graph.ErrorHandling
	if source.On != nil {
		handling.OnFailure = append(handling.OnFailure, source.On.Failure...)
		handling.OnTimeout = append(handling.OnTimeout, source.On.Timeout...)
	}
	if source.Retry != nil {
		handling.Retry = &graph.Retry{MaxAttempts: DefaultAttempts}
		if source.Retry.Attempts != nil {
			handling.Retry.MaxAttempts = *source.Retry.Attempts
		}
		if handling.Retry.Delay, err = parseDuration(path+".retry.delay", source.Retry.Delay); err != nil {
			return nil, err
		}
	}
	if handling.Retry != nil || len(handling.OnFailure) > 0 || len(handling.OnTimeout) > 0 {
		ret.ErrorHandling = &handling
	}
	return ret, nil
}

// endSteps returns ids of steps without success transition, in declaration order
func endSteps(source dsl.Steps) []string {
	ret := []string{}
	for _, step := range source {
		if len(step.SuccessTargets()) == 0 {
			ret = append(ret, step.ID)
		}
	}
	return ret
}

func (c *Converter) sla(source *dsl.SLA) (*model.SLA, error) {
	ret := model.DefaultSLA()
	if source == nil {
		return ret, nil
	}
	for _, field := range []struct {
		path  string
		text  string
		value **duration.Duration
	}{
		{"sla.target", source.Target, &ret.Target},
		{"sla.warning", source.Warning, &ret.Warning},
		{"sla.critical", source.Critical, &ret.Critical},
	} {
		parsed, err := parseDuration(field.path, field.text)
		if err != nil {
			return nil, err
		}
		if parsed != nil {
			*field.value = parsed
		}
	}
	for i, item := range source.Escalations {
		after, err := parseDuration(fmt.Sprintf("sla.escalations[%d].after", i), item.After)
		if err != nil {
			return nil, err
		}
		ret.Escalations = append(ret.Escalations, &model.Escalation{
			After:  after,
			Notify: append([]string(nil), item.Notify...),
			Action: item.Action,
		})
	}
	return ret, nil
}

func compliance(names []string) []*model.ComplianceRequirement {
	ret := make([]*model.ComplianceRequirement, 0, len(names))
	for _, name := range names {
		ret = append(ret, &model.ComplianceRequirement{
			ID:            model.ComplianceID(name),
			Name:          name,
			Regulation:    model.RegulationOf(name),
			AuditRequired: true,
		})
	}
	return ret
}

func (c *Converter) integrations(source dsl.Integrations) ([]*model.Integration, error) {
	ret := make([]*model.Integration, 0, len(source))
	for _, item := range source {
		path := "integrations." + item.ID
		integration := &model.Integration{
			ID:       item.ID,
			Type:     model.IntegrationType(item.Type),
			Endpoint: item.Endpoint,
			Method:   item.Method,
			Mapping:  item.Mapping,
			Retry: &model.RetryPolicy{
				MaxAttempts:  DefaultAttempts,
				Backoff:      model.BackoffExponential,
				InitialDelay: DefaultRetryDelay.Clone(),
			},
		}
		if integration.Method == "" {
			integration.Method = DefaultMethod
		}
		timeout, err := parseDuration(path+".timeout", item.Timeout)
		if err != nil {
			return nil, err
		}
		if timeout == nil {
			timeout = DefaultIntegrationTimeout.Clone()
		}
		integration.Timeout = timeout
		if retry := item.Retry; retry != nil {
			if retry.Attempts != nil {
				integration.Retry.MaxAttempts = *retry.Attempts
			}
			if retry.Backoff != "" {
				integration.Retry.Backoff = model.Backoff(retry.Backoff)
			}
			delay, err := parseDuration(path+".retry.delay", retry.Delay)
			if err != nil {
				return nil, err
			}
			if delay != nil {
				integration.Retry.InitialDelay = delay
			}
		}
		if item.Auth != nil {
			integration.Auth = &model.Auth{Type: item.Auth.Type, SecretRef: item.Auth.Secret, Scopes: append([]string(nil), item.Auth.Scopes...)}
		}
		ret = append(ret, integration)
	}
	return ret, nil
}

func monitoring(definition *model.WorkflowDefinition) *model.Monitoring {
	ret := &model.Monitoring{Enabled: true, Tags: []string{string(definition.Type), string(definition.Category)}}
	for _, requirement := range definition.Compliance {
		if requirement.AuditRequired {
			ret.AuditTrail = true
		}
	}
	return ret
}

// parseDuration returns nil for absent values and wraps format errors with the field path
func parseDuration(path, text string) (*duration.Duration, error) {
	if text == "" {
		return nil, nil
	}
	ret, err := duration.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return ret, nil
}

func sortedKeys(values map[string]interface{}) []string {
	ret := make([]string, 0, len(values))
	for key := range values {
		ret = append(ret, key)
	}
	sort.Strings(ret)
	return ret
}
