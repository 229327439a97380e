package model

import (
	"strings"
	"time"

	"github.com/viant/careflow/model/duration"
	"github.com/viant/careflow/model/graph"
	"github.com/viant/careflow/model/state"
)

// WorkflowDefinition represents a compiled, executable workflow
type WorkflowDefinition struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string      `json:"version" yaml:"version"`
	Type        ProcessType `json:"type" yaml:"type"`
	Category    Category    `json:"category" yaml:"category"`
	Status      Status      `json:"status" yaml:"status"`

	// Variables are declared in document order
	Variables state.Variables `json:"variables" yaml:"variables"`

	// Steps are declared in document order, ids are unique
	Steps graph.Steps `json:"steps" yaml:"steps"`

	StartStep    string                   `json:"startStep" yaml:"startStep"`
	EndSteps     []string                 `json:"endSteps" yaml:"endSteps"`
	SLA          *SLA                     `json:"sla" yaml:"sla"`
	Compliance   []*ComplianceRequirement `json:"compliance" yaml:"compliance"`
	Integrations []*Integration           `json:"integrations" yaml:"integrations"`
	Metadata     *Metadata                `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Monitoring   *Monitoring              `json:"monitoring,omitempty" yaml:"monitoring,omitempty"`
}

type (
	// SLA holds target completion thresholds
	SLA struct {
		Target      *duration.Duration `json:"target" yaml:"target"`
		Warning     *duration.Duration `json:"warning" yaml:"warning"`
		Critical    *duration.Duration `json:"critical" yaml:"critical"`
		Escalations []*Escalation      `json:"escalations,omitempty" yaml:"escalations,omitempty"`
	}

	// Escalation notifies or acts once a running instance exceeds After
	Escalation struct {
		After  *duration.Duration `json:"after" yaml:"after"`
		Notify []string           `json:"notify,omitempty" yaml:"notify,omitempty"`
		Action string             `json:"action,omitempty" yaml:"action,omitempty"`
	}

	// ComplianceRequirement ties a workflow to a regulation
	ComplianceRequirement struct {
		ID            string     `json:"id" yaml:"id"`
		Name          string     `json:"name" yaml:"name"`
		Regulation    Regulation `json:"regulation" yaml:"regulation"`
		AuditRequired bool       `json:"auditRequired" yaml:"auditRequired"`
	}

	// Integration describes an external system endpoint used by steps
	Integration struct {
		ID       string                 `json:"id" yaml:"id"`
		Type     IntegrationType        `json:"type" yaml:"type"`
		Endpoint string                 `json:"endpoint" yaml:"endpoint"`
		Method   string                 `json:"method" yaml:"method"`
		Timeout  *duration.Duration     `json:"timeout" yaml:"timeout"`
		Retry    *RetryPolicy           `json:"retry" yaml:"retry"`
		Auth     *Auth                  `json:"auth,omitempty" yaml:"auth,omitempty"`
		Mapping  map[string]interface{} `json:"mapping,omitempty" yaml:"mapping,omitempty"`
	}

	// RetryPolicy controls integration call retries
	RetryPolicy struct {
		MaxAttempts  int                `json:"maxAttempts" yaml:"maxAttempts"`
		Backoff      Backoff            `json:"backoff" yaml:"backoff"`
		InitialDelay *duration.Duration `json:"initialDelay" yaml:"initialDelay"`
	}

	// Auth describes how to authenticate against an integration; secrets are referenced, never embedded
	Auth struct {
		Type      string   `json:"type" yaml:"type"`
		SecretRef string   `json:"secretRef,omitempty" yaml:"secretRef,omitempty"`
		Scopes    []string `json:"scopes,omitempty" yaml:"scopes,omitempty"`
	}

	// Metadata carries audit information
	Metadata struct {
		CreatedBy string    `json:"createdBy" yaml:"createdBy"`
		CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
		Checksum  string    `json:"checksum,omitempty" yaml:"checksum,omitempty"`
		Source    string    `json:"source,omitempty" yaml:"source,omitempty"`
	}

	// Monitoring carries runtime observability hints
	Monitoring struct {
		Enabled    bool     `json:"enabled" yaml:"enabled"`
		AuditTrail bool     `json:"auditTrail" yaml:"auditTrail"`
		Tags       []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	}
)

// DefaultSLA returns the SLA applied when a document declares none
func DefaultSLA() *SLA {
	return &SLA{
		Target:   duration.New(2, duration.Hour),
		Warning:  duration.New(1, duration.Hour),
		Critical: duration.New(4, duration.Hour),
	}
}

// ComplianceID normalizes a requirement name: lowercase, whitespace runs replaced by "_"
func ComplianceID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// Step returns a step by id
func (d *WorkflowDefinition) Step(id string) *graph.Step {
	return d.Steps.Lookup(id)
}

// Integration returns an integration by id
func (d *WorkflowDefinition) Integration(id string) *Integration {
	for _, integration := range d.Integrations {
		if integration.ID == id {
			return integration
		}
	}
	return nil
}

// Regulations returns distinct regulation codes in declaration order
func (d *WorkflowDefinition) Regulations() []Regulation {
	var result []Regulation
	seen := map[Regulation]bool{}
	for _, requirement := range d.Compliance {
		if !seen[requirement.Regulation] {
			seen[requirement.Regulation] = true
			result = append(result, requirement.Regulation)
		}
	}
	return result
}

// Clone creates a deep copy of the definition
func (d *WorkflowDefinition) Clone() *WorkflowDefinition {
	if d == nil {
		return nil
	}
	clone := *d
	clone.Variables = d.Variables.Clone()
	clone.Steps = d.Steps.Clone()
	if d.EndSteps != nil {
		clone.EndSteps = append([]string{}, d.EndSteps...)
	}
	if d.SLA != nil {
		sla := &SLA{Target: d.SLA.Target.Clone(), Warning: d.SLA.Warning.Clone(), Critical: d.SLA.Critical.Clone()}
		for _, escalation := range d.SLA.Escalations {
			sla.Escalations = append(sla.Escalations, &Escalation{
				After:  escalation.After.Clone(),
				Notify: append([]string(nil), escalation.Notify...),
				Action: escalation.Action,
			})
		}
		clone.SLA = sla
	}
	if d.Compliance != nil {
		clone.Compliance = make([]*ComplianceRequirement, len(d.Compliance))
		for i, requirement := range d.Compliance {
			c := *requirement
			clone.Compliance[i] = &c
		}
	}
	if d.Integrations != nil {
		clone.Integrations = make([]*Integration, len(d.Integrations))
		for i, integration := range d.Integrations {
			clone.Integrations[i] = integration.Clone()
		}
	}
	if d.Metadata != nil {
		metadata := *d.Metadata
		clone.Metadata = &metadata
	}
	if d.Monitoring != nil {
		monitoring := *d.Monitoring
		monitoring.Tags = append([]string(nil), d.Monitoring.Tags...)
		clone.Monitoring = &monitoring
	}
	return &clone
}

// Clone creates a deep copy of the integration; mapping values are shared
func (i *Integration) Clone() *Integration {
	if i == nil {
		return nil
	}
	clone := *i
	clone.Timeout = i.Timeout.Clone()
	if i.Retry != nil {
		retry := *i.Retry
		retry.InitialDelay = i.Retry.InitialDelay.Clone()
		clone.Retry = &retry
	}
	if i.Auth != nil {
		auth := *i.Auth
		auth.Scopes = append([]string(nil), i.Auth.Scopes...)
		clone.Auth = &auth
	}
	if i.Mapping != nil {
		clone.Mapping = make(map[string]interface{}, len(i.Mapping))
		for k, v := range i.Mapping {
			clone.Mapping[k] = v
		}
	}
	return &clone
}

// NewDefinition creates an empty draft definition
func NewDefinition(name, version string) *WorkflowDefinition {
	return &WorkflowDefinition{
		Name:         name,
		Version:      version,
		Type:         ProcessCustom,
		Category:     CategoryGeneral,
		Status:       StatusDraft,
		SLA:          DefaultSLA(),
		Variables:    state.Variables{},
		Steps:        graph.Steps{},
		EndSteps:     []string{},
		Compliance:   []*ComplianceRequirement{},
		Integrations: []*Integration{},
	}
}

// NewStep creates a step with the type's default executor and appends it to the definition
func (d *WorkflowDefinition) NewStep(id string, stepType graph.StepType) *graph.Step {
	step := &graph.Step{
		ID:        id,
		Name:      id,
		Type:      stepType,
		Executor:  stepType.DefaultExecutor(),
		Inputs:    []string{},
		Outputs:   []string{},
		NextSteps: []string{},
	}
	d.Steps = append(d.Steps, step)
	return step
}

// WithStart sets the start step
func (d *WorkflowDefinition) WithStart(id string) *WorkflowDefinition {
	d.StartStep = id
	return d
}

// WithVariable declares a variable
func (d *WorkflowDefinition) WithVariable(name string, varType state.VariableType, required bool) *WorkflowDefinition {
	d.Variables.Add(&state.Variable{Name: name, Type: varType, Required: required})
	return d
}
