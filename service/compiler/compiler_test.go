package compiler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/careflow/model/duration"
	"github.com/viant/careflow/model/validation"
	"github.com/viant/careflow/service/dsl"
	"go.uber.org/zap/zaptest"
)

const header = "workflow: {name: scenario, version: 1.0.0, type: prior_authorization}\n"

func TestCompiler_Scenarios(t *testing.T) {
	testCases := []struct {
		description    string
		document       string
		expectValid    bool
		expectErrors   []string
		expectWarnings []string
		expectEnd      []string
	}{
		{
			description: "single step",
			document:    header + "steps: {that_step: {type: task}}\nstart: that_step",
			expectValid: true,
			expectEnd:   []string{"that_step"},
		},
		{
			description:    "undefined start",
			document:       header + "steps: {step_y: {type: task}}\nstart: step_x",
			expectErrors:   []string{validation.CodeInvalidStartStep},
			expectWarnings: []string{validation.CodeUnreachableStep},
			expectEnd:      []string{"step_y"},
		},
		{
			description:    "cycle",
			document:       header + "steps: {A: {type: task, on: {success: B}}, B: {type: task, on: {success: A}}}\nstart: A",
			expectErrors:   []string{validation.CodeCircular},
			expectWarnings: []string{validation.CodeMissingEndStep},
			expectEnd:      []string{},
		},
		{
			description:    "disconnected",
			document:       header + "steps: {A: {type: task, on: {success: B}}, B: {type: task}, C: {type: task}}\nstart: A",
			expectValid:    true,
			expectWarnings: []string{validation.CodeUnreachableStep},
			expectEnd:      []string{"B", "C"},
		},
	}

	compiler := New()
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			output, err := compiler.CompileYAML(context.Background(), []byte(tc.document), "tester")
			require.NoError(t, err)
			require.NotNil(t, output.Definition)
			assert.Equal(t, tc.expectValid, output.Validation.IsValid)
			assert.Equal(t, tc.expectErrors, codes(output.Validation.Errors))
			assert.Equal(t, tc.expectWarnings, codes(output.Validation.Warnings))
			assert.Equal(t, tc.expectEnd, output.Definition.EndSteps)
		})
	}
}

func TestCompiler_CyclePath(t *testing.T) {
	output, err := New().CompileYAML(context.Background(), []byte(header+"steps: {A: {type: task, on: {success: B}}, B: {type: task, on: {success: A}}}\nstart: A"), "tester")
	require.NoError(t, err)
	cycles := output.Validation.ByCode(validation.CodeCircular)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"A", "B", "A"}, cycles[0].Cycle)
}

func TestCompiler_SLA(t *testing.T) {
	output, err := New().CompileYAML(context.Background(), []byte(header+`steps: {a: {type: task}}
start: a
sla: {target: "2 hours", warning: "1 hour", critical: "4 hours"}`), "tester")
	require.NoError(t, err)
	assert.Equal(t, duration.New(2, duration.Hour), output.Definition.SLA.Target)
	assert.Equal(t, duration.New(1, duration.Hour), output.Definition.SLA.Warning)
	assert.Equal(t, duration.New(4, duration.Hour), output.Definition.SLA.Critical)
}

func TestCompiler_SchemaError(t *testing.T) {
	output, err := New().CompileYAML(context.Background(), []byte("workflow: {name: x, version: one, type: custom}\nsteps: {}\n"), "tester")
	require.Error(t, err)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Len(t, schemaErr.Result.Errors, 3)
	assert.Contains(t, err.Error(), "3 error(s)")
	require.NotNil(t, output)
	assert.Nil(t, output.Definition)
	assert.False(t, output.Validation.IsValid)
	assert.True(t, output.Validation.HasCode(validation.CodeEmptyCollection))
}

func TestCompiler_MalformedDuration(t *testing.T) {
	_, err := New().CompileYAML(context.Background(), []byte(header+"steps: {a: {type: task, retry: {delay: 5 hour}}}\nstart: a\nsla: {target: 1.5. hours}"), "tester")
	require.Error(t, err)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr), "schema rejects malformed durations first")
	assert.Equal(t, []string{validation.CodePatternMismatch}, codes(schemaErr.Result.Errors))
	assert.Equal(t, "sla.target", schemaErr.Result.Errors[0].Path)
}

func TestCompiler_Document(t *testing.T) {
	doc := dsl.FromMap(map[string]interface{}{
		"workflow": map[string]interface{}{"name": "x", "version": "1.0.0", "type": "custom"},
		"steps":    map[string]interface{}{"a": map[string]interface{}{"type": "task"}},
		"start":    "a",
	})
	output, err := New().Compile(context.Background(), doc, "tester")
	require.NoError(t, err)
	assert.True(t, output.Validation.IsValid)
}

func TestCompiler_JSONPayload(t *testing.T) {
	var values map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"workflow": {"name": "x", "version": "1.0.0", "type": "custom"},
		"steps": {"a": {"type": "integration", "integration": "i", "retry": {"attempts": 3}}},
		"start": "a",
		"integrations": {"i": {"type": "api", "endpoint": "https://api.local", "retry": {"attempts": 2}}}
	}`), &values))

	output, err := New().Compile(context.Background(), dsl.FromMap(values), "tester")
	require.NoError(t, err)
	assert.True(t, output.Validation.IsValid, output.Validation.Summary(3))
	assert.Equal(t, 3, output.Definition.Step("a").ErrorHandling.Retry.MaxAttempts)
	assert.Equal(t, 2, output.Definition.Integration("i").Retry.MaxAttempts)
}

func TestCompiler_Empty(t *testing.T) {
	_, err := New().CompileYAML(context.Background(), []byte(" "), "tester")
	assert.ErrorIs(t, err, dsl.ErrEmptyDocument)
}

func TestCompiler_Metadata(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	compiler := New(WithLogger(zaptest.NewLogger(t)), WithClock(func() time.Time { return now }))
	output, err := compiler.CompileYAML(context.Background(), []byte(header+"steps: {a: {type: task}}\nstart: a"), "nurse.admin")
	require.NoError(t, err)
	assert.Equal(t, "nurse.admin", output.Definition.Metadata.CreatedBy)
	assert.Equal(t, now, output.Definition.Metadata.CreatedAt)
}

func TestCompiler_Concurrent(t *testing.T) {
	compiler := New()
	documents := []string{
		header + "steps: {a: {type: task, on: {success: b}}, b: {type: task}}\nstart: a",
		header + "steps: {a: {type: task, on: {success: a}}}\nstart: a",
		header + "steps: {a: {type: task}, b: {type: task}}\nstart: a",
	}
	expected := make([][]string, len(documents))
	for i, document := range documents {
		output, err := compiler.CompileYAML(context.Background(), []byte(document), "tester")
		require.NoError(t, err)
		expected[i] = output.Validation.Keys()
	}

	var wg sync.WaitGroup
	actual := make([][]string, 30)
	for i := range actual {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			output, err := compiler.CompileYAML(context.Background(), []byte(documents[i%len(documents)]), "tester")
			if err == nil {
				actual[i] = output.Validation.Keys()
			}
		}(i)
	}
	wg.Wait()
	for i := range actual {
		assert.Equal(t, expected[i%len(documents)], actual[i])
	}
}

func codes(issues []*validation.Error) []string {
	var result []string
	for _, issue := range issues {
		result = append(result, issue.Code)
	}
	return result
}
