// Package schema checks the structure of a raw workflow DSL document before
// any semantic interpretation takes place.
package schema

import (
	"strconv"
	"strings"

	"github.com/viant/careflow/internal/yml"
	"github.com/viant/careflow/model/state"
	"github.com/viant/careflow/model/validation"
	"github.com/viant/careflow/service/dsl"
	"github.com/viant/toolbox"
	"gopkg.in/yaml.v3"
)

// Validator validates documents against an immutable schema; it is safe for concurrent use
type Validator struct {
	root *Field
}

// New creates a validator for the workflow DSL schema
func New() *Validator {
	return &Validator{root: Definition()}
}

// NewWithSchema creates a validator for a custom schema
func NewWithSchema(root *Field) *Validator {
	return &Validator{root: root}
}

// Validate collects every structural violation of doc
func (v *Validator) Validate(doc *dsl.Document) *validation.Result {
	result := validation.NewResult()
	if doc == nil || doc.Root() == nil {
		result.AddError("", validation.CodeInvalidDocument, "document is empty")
		return result
	}
	v.validate("", v.root, doc.Root(), result)
	return result
}

func (v *Validator) validate(path string, field *Field, node *yml.Node, result *validation.Result) {
	if !field.matches(node) {
		at(result.AddError(path, validation.CodeInvalidType, "expected %v, got %v", field.Kind, node.KindName()), node)
		return
	}
	switch field.Kind {
	case KindString:
		v.validateString(path, field, node, result)
	case KindInt:
		if field.HasMin && toolbox.AsInt(node.Value) < field.Min {
			at(result.AddError(path, validation.CodeInvalidRange, "value %v must be greater than or equal to %v", node.Value, field.Min), node)
		}
	case KindMap:
		v.validateMap(path, field, node, result)
	case KindSequence:
		if field.NonEmpty && len(node.Content) == 0 {
			at(result.AddError(path, validation.CodeEmptyCollection, "must not be empty"), node)
		}
		if field.Value != nil {
			_ = node.Items(func(index int, item *yml.Node) error {
				v.validate(path+"["+strconv.Itoa(index)+"]", field.Value, item, result)
				return nil
			})
		}
	case KindTargets:
		if node.IsSequence() {
			_ = node.Items(func(index int, item *yml.Node) error {
				if !item.IsString() {
					at(result.AddError(path+"["+strconv.Itoa(index)+"]", validation.CodeInvalidType, "expected string, got %v", item.KindName()), item)
				}
				return nil
			})
		}
	}
	if field.Check != nil {
		field.Check(path, node, result)
	}
}

func (v *Validator) validateString(path string, field *Field, node *yml.Node, result *validation.Result) {
	if field.Pattern != nil && !field.Pattern.MatchString(node.Value) {
		at(result.AddError(path, validation.CodePatternMismatch, "value %q does not match pattern %v", node.Value, field.Pattern), node)
	}
	if len(field.Enum) > 0 && !contains(field.Enum, node.Value) {
		at(result.AddError(path, validation.CodeInvalidEnum, "value %q is not one of [%v]", node.Value, strings.Join(field.Enum, ", ")), node)
	}
}

func (v *Validator) validateMap(path string, field *Field, node *yml.Node, result *validation.Result) {
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := (*yml.Node)(node.Content[i])
		if seen[key.Value] {
			at(result.AddError(join(path, key.Value), validation.CodeDuplicateKey, "duplicate key %q", key.Value), key)
		}
		seen[key.Value] = true
	}

	if field.Value != nil {
		if field.NonEmpty && len(node.Content) == 0 {
			at(result.AddError(path, validation.CodeEmptyCollection, "must not be empty"), node)
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := (*yml.Node)(node.Content[i])
			if field.KeyPattern != nil && !field.KeyPattern.MatchString(key.Value) {
				at(result.AddError(join(path, key.Value), validation.CodePatternMismatch, "key %q does not match pattern %v", key.Value, field.KeyPattern), key)
			}
			v.validate(join(path, key.Value), field.Value, (*yml.Node)(node.Content[i+1]), result)
		}
		return
	}
	if len(field.Fields) == 0 {
		return
	}
	for _, child := range field.Fields {
		v.validateValue(join(path, child.Name), child, node.Lookup(child.Name), result)
		if child.Required && node.Lookup(child.Name).IsNull() {
			at(result.AddError(join(path, child.Name), validation.CodeRequiredField, "%v is required", child.Name), node)
		}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := (*yml.Node)(node.Content[i])
		if field.Lookup(key.Value) == nil {
			at(result.AddWarning(join(path, key.Value), validation.CodeUnknownField, "unknown field %q", key.Value), key)
		}
	}
}

// validateValue skips absent and null optional values
func (v *Validator) validateValue(path string, field *Field, node *yml.Node, result *validation.Result) {
	if node.IsNull() {
		return
	}
	v.validate(path, field, node, result)
}

// checkDefault verifies a variable default can be converted to the declared type
func checkDefault(path string, node *yml.Node, result *validation.Result) {
	value := node.Lookup("default")
	if value.IsNull() || !node.Lookup("type").IsString() {
		return
	}
	varType := state.VariableType(node.Lookup("type").Value)
	if !varType.IsValid() || compatible(varType, value) {
		return
	}
	at(result.AddError(join(path, "default"), validation.CodeInvalidType, "default %v is not a valid %v", value.KindName(), varType), value)
}

func compatible(varType state.VariableType, node *yml.Node) bool {
	switch varType {
	case state.TypeString:
		return node.Kind == yaml.ScalarNode
	case state.TypeNumber:
		if node.IsNumber() {
			return true
		}
		_, err := strconv.ParseFloat(node.Value, 64)
		return node.IsString() && err == nil
	case state.TypeBoolean:
		if node.IsBool() {
			return true
		}
		_, err := strconv.ParseBool(node.Value)
		return node.IsString() && err == nil
	case state.TypeDate:
		if node.Tag == "!!timestamp" {
			return true
		}
		_, err := state.ParseDate(node.Value)
		return node.IsString() && err == nil
	case state.TypeObject:
		return node.IsMap()
	case state.TypeArray:
		return node.IsSequence()
	}
	return false
}

func at(issue *validation.Error, node *yml.Node) {
	if node != nil {
		issue.Line = node.Line
		issue.Column = node.Column
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func contains(values []string, candidate string) bool {
	for _, value := range values {
		if value == candidate {
			return true
		}
	}
	return false
}
