package state

import (
	"fmt"
	"time"
)

// DateLayouts lists accepted date formats of date variables
var DateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate parses a date variable value
func ParseDate(value string) (time.Time, error) {
	for _, layout := range DateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", value)
}

// VariableType is the declared data type of a workflow variable
type VariableType string

const (
	TypeString  VariableType = "string"
	TypeNumber  VariableType = "number"
	TypeBoolean VariableType = "boolean"
	TypeDate    VariableType = "date"
	TypeObject  VariableType = "object"
	TypeArray   VariableType = "array"
)

// VariableTypes lists every supported variable type
var VariableTypes = []VariableType{TypeString, TypeNumber, TypeBoolean, TypeDate, TypeObject, TypeArray}

// IsValid reports whether t is a supported variable type
func (t VariableType) IsValid() bool {
	for _, candidate := range VariableTypes {
		if t == candidate {
			return true
		}
	}
	return false
}

// Variable represents a named, typed workflow variable
type Variable struct {
	Name        string       `json:"name" yaml:"name"`
	Type        VariableType `json:"type" yaml:"type"`
	Default     interface{}  `json:"default,omitempty" yaml:"default,omitempty"`
	Required    bool         `json:"required" yaml:"required"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
}

// Variables is an ordered collection of variables
type Variables []*Variable

// Add appends a variable to the collection
func (v *Variables) Add(variable *Variable) {
	*v = append(*v, variable)
}

// Get retrieves a variable by name
func (v Variables) Get(name string) (*Variable, bool) {
	for _, variable := range v {
		if variable.Name == name {
			return variable, true
		}
	}
	return nil, false
}

// Names returns variable names in declaration order
func (v Variables) Names() []string {
	result := make([]string, 0, len(v))
	for _, variable := range v {
		result = append(result, variable.Name)
	}
	return result
}

// Defaults returns default values keyed by variable name, skipping variables without default
func (v Variables) Defaults() map[string]interface{} {
	result := make(map[string]interface{})
	for _, variable := range v {
		if variable.Default != nil {
			result[variable.Name] = variable.Default
		}
	}
	return result
}

// Clone returns a copy of the collection; default values are shared
func (v Variables) Clone() Variables {
	if v == nil {
		return nil
	}
	result := make(Variables, len(v))
	for i, variable := range v {
		clone := *variable
		result[i] = &clone
	}
	return result
}
