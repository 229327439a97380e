package dsl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expectErr   error
		hasErr      bool
	}{
		{description: "yaml", input: "workflow: {name: a}\nsteps: {}\nstart: a"},
		{description: "json", input: `{"workflow": {"name": "a"}, "steps": {}, "start": "a"}`},
		{description: "empty", input: "  \n", expectErr: ErrEmptyDocument},
		{description: "null", input: "~", expectErr: ErrEmptyDocument},
		{description: "malformed", input: "workflow: [a", hasErr: true},
	}

	for _, tc := range testCases {
		doc, err := Parse([]byte(tc.input))
		switch {
		case tc.expectErr != nil:
			assert.ErrorIs(t, err, tc.expectErr, tc.description)
		case tc.hasErr:
			assert.Error(t, err, tc.description)
		default:
			require.NoError(t, err, tc.description)
			assert.True(t, doc.Root().IsMap(), tc.description)
		}
	}
}

func TestDocument_Decode(t *testing.T) {
	doc, err := Parse([]byte(`
workflow:
  name: claims
  version: 1.0.0
  type: claims_processing
variables:
  claim_id: {type: string, required: true}
  amount: {type: number, default: 10}
steps:
  receive:
    type: task
    input: {claim: "${claim_id}"}
    on: {success: adjudicate}
  adjudicate:
    type: decision
    when: amount > 100
    retry: {attempts: 2, delay: 1 minute}
    on:
      success: [pay, deny]
      failure: deny
  pay: {type: integration, integration: bank}
  deny: {type: notification}
start: receive
compliance: [HIPAA]
integrations:
  bank: {type: api, endpoint: "https://bank.local"}
`))
	require.NoError(t, err)
	definition, err := doc.Decode()
	require.NoError(t, err)

	assert.Equal(t, "claims", definition.Workflow.Name)
	assert.Equal(t, []string{"claim_id", "amount"}, []string{definition.Variables[0].Name, definition.Variables[1].Name})
	assert.True(t, *definition.Variables[0].Required)
	assert.Nil(t, definition.Variables[1].Required)
	assert.EqualValues(t, 10, definition.Variables[1].Default)

	require.Len(t, definition.Steps, 4)
	assert.Equal(t, "receive", definition.Steps[0].ID)
	assert.Equal(t, []string{"adjudicate"}, definition.Steps[0].SuccessTargets())
	adjudicate := definition.Steps.Lookup("adjudicate")
	require.NotNil(t, adjudicate)
	assert.Equal(t, Targets{"pay", "deny"}, adjudicate.On.Success)
	assert.Equal(t, Targets{"deny"}, adjudicate.On.Failure)
	assert.Equal(t, 2, *adjudicate.Retry.Attempts)
	assert.Equal(t, "1 minute", adjudicate.Retry.Delay)
	assert.Nil(t, definition.Steps.Lookup("pay").SuccessTargets())
	assert.Nil(t, definition.Steps.Lookup("missing"))

	require.Len(t, definition.Integrations, 1)
	assert.Equal(t, "bank", definition.Integrations[0].ID)
	assert.Equal(t, []string{"HIPAA"}, definition.Compliance)
}

func TestFromMap(t *testing.T) {
	doc := FromMap(map[string]interface{}{
		"workflow": map[string]interface{}{"name": "x", "version": "1.0.0", "type": "custom"},
		"steps": map[string]interface{}{
			"a": map[string]interface{}{"type": "task"},
		},
		"start": "a",
	})
	definition, err := doc.Decode()
	require.NoError(t, err)
	assert.Equal(t, "a", definition.Start)
	assert.Equal(t, "a", definition.Steps[0].ID)

	data, err := doc.Canonical()
	require.NoError(t, err)
	assert.Contains(t, string(data), "start: a")
}

func TestFromMap_JSONPayload(t *testing.T) {
	var values map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"workflow": {"name": "x", "version": "1.0.0", "type": "custom"},
		"variables": {"score": {"type": "number", "default": 0.5}},
		"steps": {"a": {"type": "task", "retry": {"attempts": 3, "delay": "1 second"}}},
		"start": "a"
	}`), &values))

	doc := FromMap(values)
	attempts := doc.Root().Lookup("steps").Lookup("a").Lookup("retry").Lookup("attempts")
	assert.True(t, attempts.IsInt())
	assert.Equal(t, 3, attempts.Interface())
	score := doc.Root().Lookup("variables").Lookup("score").Lookup("default")
	assert.False(t, score.IsInt())
	assert.True(t, score.IsNumber())

	definition, err := doc.Decode()
	require.NoError(t, err)
	require.NotNil(t, definition.Steps[0].Retry)
	assert.Equal(t, 3, *definition.Steps[0].Retry.Attempts)
}
