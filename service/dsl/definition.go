package dsl

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type (
	// Definition is the typed view of a DSL document
	Definition struct {
		Workflow     Header       `yaml:"workflow"`
		Variables    Variables    `yaml:"variables,omitempty"`
		Steps        Steps        `yaml:"steps"`
		Start        string       `yaml:"start"`
		SLA          *SLA         `yaml:"sla,omitempty"`
		Compliance   []string     `yaml:"compliance,omitempty"`
		Integrations Integrations `yaml:"integrations,omitempty"`
	}

	// Header holds workflow metadata
	Header struct {
		Name        string `yaml:"name"`
		Version     string `yaml:"version"`
		Type        string `yaml:"type"`
		Description string `yaml:"description,omitempty"`
	}

	Variable struct {
		Name        string      `yaml:"-"`
		Type        string      `yaml:"type"`
		Default     interface{} `yaml:"default,omitempty"`
		Required    *bool       `yaml:"required,omitempty"`
		Description string      `yaml:"description,omitempty"`
	}

	Step struct {
		ID          string                 `yaml:"-"`
		Type        string                 `yaml:"type"`
		Name        string                 `yaml:"name,omitempty"`
		Description string                 `yaml:"description,omitempty"`
		Executor    string                 `yaml:"executor,omitempty"`
		Input       map[string]interface{} `yaml:"input,omitempty"`
		Output      []string               `yaml:"output,omitempty"`
		When        string                 `yaml:"when,omitempty"`
		Timeout     string                 `yaml:"timeout,omitempty"`
		Retry       *Retry                 `yaml:"retry,omitempty"`
		Integration string                 `yaml:"integration,omitempty"`
		On          *Transitions           `yaml:"on,omitempty"`
	}

	Retry struct {
		Attempts *int   `yaml:"attempts,omitempty"`
		Delay    string `yaml:"delay,omitempty"`
		Backoff  string `yaml:"backoff,omitempty"`
	}

	// Transitions are keyed by step outcome
	Transitions struct {
		Success Targets `yaml:"success,omitempty"`
		Failure Targets `yaml:"failure,omitempty"`
		Timeout Targets `yaml:"timeout,omitempty"`
	}

	SLA struct {
		Target      string        `yaml:"target,omitempty"`
		Warning     string        `yaml:"warning,omitempty"`
		Critical    string        `yaml:"critical,omitempty"`
		Escalations []*Escalation `yaml:"escalations,omitempty"`
	}

	Escalation struct {
		After  string  `yaml:"after"`
		Notify Targets `yaml:"notify,omitempty"`
		Action string  `yaml:"action,omitempty"`
	}

	Integration struct {
		ID       string                 `yaml:"-"`
		Type     string                 `yaml:"type"`
		Endpoint string                 `yaml:"endpoint"`
		Method   string                 `yaml:"method,omitempty"`
		Timeout  string                 `yaml:"timeout,omitempty"`
		Auth     *Auth                  `yaml:"auth,omitempty"`
		Mapping  map[string]interface{} `yaml:"mapping,omitempty"`
		Retry    *Retry                 `yaml:"retry,omitempty"`
	}

	Auth struct {
		Type   string  `yaml:"type,omitempty"`
		Secret string  `yaml:"secret,omitempty"`
		Scopes Targets `yaml:"scopes,omitempty"`
	}
)

// SuccessTargets returns on.success targets
func (s *Step) SuccessTargets() []string {
	if s.On == nil {
		return nil
	}
	return s.On.Success
}

// Targets is a list of step ids written either as a single id or a sequence
type Targets []string

func (t *Targets) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value != "" {
			*t = Targets{node.Value}
		}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*t = items
		return nil
	}
	return fmt.Errorf("line %d: expected string or sequence of strings", node.Line)
}

// Variables keeps declaration order of the variables mapping
type Variables []*Variable

func (v *Variables) UnmarshalYAML(node *yaml.Node) error {
	return decodeOrdered(node, func(key string, value *yaml.Node) error {
		item := &Variable{}
		if err := value.Decode(item); err != nil {
			return err
		}
		item.Name = key
		*v = append(*v, item)
		return nil
	})
}

// MarshalYAML renders variables back as a mapping
func (v Variables) MarshalYAML() (interface{}, error) {
	return encodeOrdered(len(v), func(i int) (string, interface{}) { return v[i].Name, v[i] })
}

// Steps keeps declaration order of the steps mapping
type Steps []*Step

func (s *Steps) UnmarshalYAML(node *yaml.Node) error {
	return decodeOrdered(node, func(key string, value *yaml.Node) error {
		item := &Step{}
		if err := value.Decode(item); err != nil {
			return err
		}
		item.ID = key
		*s = append(*s, item)
		return nil
	})
}

// MarshalYAML renders steps back as a mapping
func (s Steps) MarshalYAML() (interface{}, error) {
	return encodeOrdered(len(s), func(i int) (string, interface{}) { return s[i].ID, s[i] })
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

// Integrations keeps declaration order of the integrations mapping
type Integrations []*Integration

func (i *Integrations) UnmarshalYAML(node *yaml.Node) error {
	return decodeOrdered(node, func(key string, value *yaml.Node) error {
		item := &Integration{}
		if err := value.Decode(item); err != nil {
			return err
		}
		item.ID = key
		*i = append(*i, item)
		return nil
	})
}

// MarshalYAML renders integrations back as a mapping
func (i Integrations) MarshalYAML() (interface{}, error) {
	return encodeOrdered(len(i), func(j int) (string, interface{}) { return i[j].ID, i[j] })
}

func decodeOrdered(node *yaml.Node, callback func(key string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := callback(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func encodeOrdered(size int, entry func(i int) (string, interface{})) (interface{}, error) {
	ret := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i < size; i++ {
		key, value := entry(i)
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(value); err != nil {
			return nil, err
		}
		ret.Content = append(ret.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, valueNode)
	}
	return ret, nil
}
