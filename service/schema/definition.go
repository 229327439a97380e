package schema

import (
	"regexp"

	"github.com/viant/careflow/internal/yml"
	"github.com/viant/careflow/model"
	"github.com/viant/careflow/model/duration"
	"github.com/viant/careflow/model/graph"
	"github.com/viant/careflow/model/state"
	"github.com/viant/careflow/model/validation"
)

var (
	// SemVerPattern matches workflow versions
	SemVerPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)
	// IdentifierPattern matches step ids
	IdentifierPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
)

func enum[T ~string](values []T) []string {
	result := make([]string, len(values))
	for i, value := range values {
		result[i] = string(value)
	}
	return result
}

func durationField(name string, required bool) *Field {
	return &Field{Name: name, Kind: KindString, Required: required, Check: checkDuration}
}

// checkDuration accepts intervals such as "2 hours" using the duration parser
func checkDuration(path string, node *yml.Node, result *validation.Result) {
	if !duration.IsValid(node.Value) {
		at(result.AddError(path, validation.CodePatternMismatch, "value %q is not a duration such as \"2 hours\"", node.Value), node)
	}
}

func retryField(extra ...*Field) *Field {
	fields := []*Field{
		{Name: "attempts", Kind: KindInt, Min: 1, HasMin: true},
		durationField("delay", false),
	}
	return &Field{Name: "retry", Kind: KindMap, Fields: append(fields, extra...)}
}

// Definition returns the structural schema of a workflow DSL document
func Definition() *Field {
	return &Field{Kind: KindMap, Fields: []*Field{
		{Name: "workflow", Kind: KindMap, Required: true, Fields: []*Field{
			{Name: "name", Kind: KindString, Required: true},
			{Name: "version", Kind: KindString, Required: true, Pattern: SemVerPattern},
			{Name: "type", Kind: KindString, Required: true, Enum: enum(model.ProcessTypes)},
			{Name: "description", Kind: KindString},
		}},
		{Name: "variables", Kind: KindMap, Value: &Field{Kind: KindMap, Check: checkDefault, Fields: []*Field{
			{Name: "type", Kind: KindString, Required: true, Enum: enum(state.VariableTypes)},
			{Name: "default", Kind: KindAny},
			{Name: "required", Kind: KindBool},
			{Name: "description", Kind: KindString},
		}}},
		{Name: "steps", Kind: KindMap, Required: true, NonEmpty: true, KeyPattern: IdentifierPattern, Value: &Field{Kind: KindMap, Fields: []*Field{
			{Name: "type", Kind: KindString, Required: true, Enum: enum(graph.StepTypes)},
			{Name: "name", Kind: KindString},
			{Name: "description", Kind: KindString},
			{Name: "executor", Kind: KindString},
			{Name: "input", Kind: KindMap},
			{Name: "output", Kind: KindSequence, Value: &Field{Kind: KindString}},
			{Name: "when", Kind: KindString},
			durationField("timeout", false),
			retryField(),
			{Name: "integration", Kind: KindString},
			{Name: "on", Kind: KindMap, Fields: []*Field{
				{Name: "success", Kind: KindTargets},
				{Name: "failure", Kind: KindTargets},
				{Name: "timeout", Kind: KindTargets},
			}},
		}}},
		{Name: "start", Kind: KindString, Required: true},
		{Name: "sla", Kind: KindMap, Fields: []*Field{
			durationField("target", false),
			durationField("warning", false),
			durationField("critical", false),
			{Name: "escalations", Kind: KindSequence, Value: &Field{Kind: KindMap, Fields: []*Field{
				durationField("after", true),
				{Name: "notify", Kind: KindTargets},
				{Name: "action", Kind: KindString},
			}}},
		}},
		{Name: "compliance", Kind: KindSequence, Value: &Field{Kind: KindString}},
		{Name: "integrations", Kind: KindMap, Value: &Field{Kind: KindMap, Fields: []*Field{
			{Name: "type", Kind: KindString, Required: true, Enum: enum(model.IntegrationTypes)},
			{Name: "endpoint", Kind: KindString, Required: true},
			{Name: "method", Kind: KindString, Enum: model.Methods},
			durationField("timeout", false),
			{Name: "auth", Kind: KindMap, Fields: []*Field{
				{Name: "type", Kind: KindString},
				{Name: "secret", Kind: KindString},
				{Name: "scopes", Kind: KindTargets},
			}},
			{Name: "mapping", Kind: KindMap},
			retryField(&Field{Name: "backoff", Kind: KindString, Enum: enum(model.Backoffs)}),
		}}},
	}}
}
