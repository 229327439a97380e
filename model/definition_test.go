package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/careflow/model/duration"
	"github.com/viant/careflow/model/graph"
	"github.com/viant/careflow/model/state"
)

func TestProgrammaticDefinitionCreation(t *testing.T) {
	definition := NewDefinition("prior-auth", "1.0.0").WithStart("intake")
	definition.WithVariable("member_id", state.TypeString, true)

	definition.NewStep("intake", graph.StepTask).WithNext("review")
	review := definition.NewStep("review", graph.StepManual).WithNext("decide")
	review.Timeout = duration.New(2, duration.Day)
	definition.NewStep("decide", graph.StepDecision).WithCondition("score > 0.5")

	data, err := json.MarshalIndent(definition, "", "  ")
	require.NoError(t, err)
	t.Logf("Definition JSON: %s", data)

	assert.Equal(t, StatusDraft, definition.Status)
	assert.Len(t, definition.Steps, 3)
	assert.Equal(t, graph.ManualExecutor, definition.Step("review").Executor)
	assert.Equal(t, []string{"decide"}, definition.Step("review").NextSteps)
	assert.Equal(t, []string{"score"}, definition.Step("decide").Conditions[0].Variables)
	assert.Equal(t, duration.New(2, duration.Hour), definition.SLA.Target)
}

func TestRegulationOf(t *testing.T) {
	testCases := []struct {
		name   string
		expect Regulation
	}{
		{"HIPAA", RegulationHIPAA},
		{"HIPAA Privacy Rule", RegulationHIPAA},
		{"gdpr", RegulationGDPR},
		{"SOC2 Type II", RegulationSOC2},
		{"CMS Interoperability", RegulationCMS},
		{"FDA 21 CFR Part 11", RegulationFDA},
		{"Texas Insurance Code", RegulationState},
		{"", RegulationState},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expect, RegulationOf(tc.name), tc.name)
	}
}

func TestComplianceID(t *testing.T) {
	assert.Equal(t, "hipaa", ComplianceID("HIPAA"))
	assert.Equal(t, "hipaa_privacy_rule", ComplianceID("HIPAA  Privacy\tRule"))
	assert.Equal(t, "state_law", ComplianceID(" State Law "))
}

func TestProcessType_Category(t *testing.T) {
	assert.Equal(t, CategoryAuthorization, ProcessPriorAuthorization.Category())
	assert.Equal(t, CategoryClaims, ProcessClaimsProcessing.Category())
	assert.Equal(t, CategoryAppeals, ProcessAppeals.Category())
	assert.Equal(t, CategoryProvider, ProcessCredentialing.Category())
	assert.Equal(t, CategoryGeneral, ProcessReferral.Category())
	assert.Equal(t, CategoryGeneral, ProcessCustom.Category())
	assert.Equal(t, CategoryGeneral, ProcessType("unknown").Category())
}

func TestWorkflowDefinition_Clone(t *testing.T) {
	definition := NewDefinition("claims", "2.1.0").WithStart("a")
	definition.NewStep("a", graph.StepTask).WithNext("b")
	definition.NewStep("b", graph.StepIntegration).Integration = "payer"
	definition.EndSteps = []string{"b"}
	definition.Compliance = append(definition.Compliance, &ComplianceRequirement{ID: "hipaa", Name: "HIPAA", Regulation: RegulationHIPAA, AuditRequired: true})
	definition.Integrations = append(definition.Integrations, &Integration{
		ID:      "payer",
		Type:    IntegrationPayer,
		Method:  "POST",
		Timeout: duration.New(30, duration.Second),
		Retry:   &RetryPolicy{MaxAttempts: 3, Backoff: BackoffExponential, InitialDelay: duration.New(1, duration.Second)},
		Auth:    &Auth{Type: "oauth2", Scopes: []string{"claims.write"}},
	})
	definition.SLA.Escalations = []*Escalation{{After: duration.New(3, duration.Hour), Notify: []string{"supervisor"}}}
	definition.Metadata = &Metadata{CreatedBy: "author"}
	definition.Monitoring = &Monitoring{Enabled: true, Tags: []string{"claims"}}

	clone := definition.Clone()
	require.Equal(t, definition, clone)

	clone.Steps[0].NextSteps[0] = "x"
	clone.EndSteps[0] = "x"
	clone.SLA.Target.Value = 99
	clone.Integrations[0].Auth.Scopes[0] = "x"
	clone.Compliance[0].Name = "x"
	assert.Equal(t, "b", definition.Steps[0].NextSteps[0])
	assert.Equal(t, "b", definition.EndSteps[0])
	assert.EqualValues(t, 2, definition.SLA.Target.Value)
	assert.Equal(t, "claims.write", definition.Integration("payer").Auth.Scopes[0])
	assert.Equal(t, "HIPAA", definition.Compliance[0].Name)
	assert.Equal(t, []Regulation{RegulationHIPAA}, definition.Regulations())

	var empty *WorkflowDefinition
	assert.Nil(t, empty.Clone())
}
