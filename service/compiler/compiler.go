// Package compiler runs the schema validator, the conversion layer and the
// graph validator in sequence and merges their findings.
package compiler

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/careflow/model"
	"github.com/viant/careflow/model/validation"
	"github.com/viant/careflow/service/convert"
	"github.com/viant/careflow/service/dsl"
	"github.com/viant/careflow/service/graph"
	"github.com/viant/careflow/service/schema"
	"github.com/viant/careflow/tracing"
	"go.uber.org/zap"
)

// Output is the result of a compilation
type Output struct {
	// Definition is nil when the document failed schema validation
	Definition *model.WorkflowDefinition `json:"definition,omitempty" yaml:"definition,omitempty"`
	Validation *validation.Result        `json:"validation" yaml:"validation"`
}

// SchemaError reports a structurally invalid document; conversion was not attempted
type SchemaError struct {
	Result *validation.Result
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("workflow document failed schema validation with %d error(s): %v", len(e.Result.Errors), e.Result.Summary(3))
}

// Compiler holds only immutable collaborators, one instance can serve concurrent calls
type Compiler struct {
	logger    *zap.Logger
	now       func() time.Time
	schema    *schema.Validator
	converter *convert.Converter
	graph     *graph.Validator
}

// New creates a compiler
func New(options ...Option) *Compiler {
	ret := &Compiler{logger: zap.NewNop()}
	for _, opt := range options {
		opt(ret)
	}
	ret.schema = schema.New()
	ret.converter = convert.New(convert.WithLogger(ret.logger), convert.WithClock(ret.now))
	ret.graph = graph.New(graph.WithLogger(ret.logger))
	ret.logger = ret.logger.With(zap.String("component", "compiler"))
	return ret
}

// CompileYAML parses YAML or JSON data and compiles it
func (c *Compiler) CompileYAML(ctx context.Context, data []byte, author string) (*Output, error) {
	doc, err := dsl.Parse(data)
	if err != nil {
		return nil, err
	}
	return c.Compile(ctx, doc, author)
}

// Compile validates, converts and analyses doc. A structurally invalid
// document returns the schema issues together with *SchemaError; a malformed
// duration returns the wrapped *duration.FormatError. Graph issues never
// produce an error, they are reported in Output.Validation.
func (c *Compiler) Compile(ctx context.Context, doc *dsl.Document, author string) (output *Output, err error) {
	ctx, span := tracing.StartSpan(ctx, "careflow.compile", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	if doc != nil && doc.URL != "" {
		span.WithAttributes(map[string]string{"source": doc.URL})
	}

	output = &Output{Validation: validation.NewResult()}
	schemaResult := c.validateSchema(ctx, doc)
	output.Validation.Merge(schemaResult)
	if !schemaResult.IsValid {
		c.logger.Info("workflow rejected by schema", zap.Int("errors", len(schemaResult.Errors)))
		return output, &SchemaError{Result: schemaResult}
	}

	definition, err := c.convert(ctx, doc, author)
	if err != nil {
		c.logger.Info("workflow conversion failed", zap.Error(err))
		return output, fmt.Errorf("failed to convert workflow: %w", err)
	}
	output.Definition = definition
	output.Validation.Merge(c.validateGraph(ctx, definition))
	span.WithAttributes(map[string]string{"workflow": definition.Name, "version": definition.Version})

	c.logger.Debug("compiled workflow",
		zap.String("workflow", definition.Name),
		zap.Bool("valid", output.Validation.IsValid),
		zap.Int("errors", len(output.Validation.Errors)),
		zap.Int("warnings", len(output.Validation.Warnings)))
	return output, nil
}

func (c *Compiler) validateSchema(ctx context.Context, doc *dsl.Document) *validation.Result {
	_, span := tracing.StartSpan(ctx, "careflow.schema", "INTERNAL")
	result := c.schema.Validate(doc)
	span.WithInt("errors", len(result.Errors))
	tracing.EndSpan(span, nil)
	return result
}

func (c *Compiler) convert(ctx context.Context, doc *dsl.Document, author string) (definition *model.WorkflowDefinition, err error) {
	_, span := tracing.StartSpan(ctx, "careflow.convert", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	return c.converter.Convert(doc, author)
}

func (c *Compiler) validateGraph(ctx context.Context, definition *model.WorkflowDefinition) *validation.Result {
	_, span := tracing.StartSpan(ctx, "careflow.graph", "INTERNAL")
	result := c.graph.Validate(definition)
	span.WithInt("errors", len(result.Errors)).WithInt("warnings", len(result.Warnings))
	tracing.EndSpan(span, nil)
	return result
}
