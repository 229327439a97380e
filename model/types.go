package model

import "strings"

// Status is the lifecycle state of a workflow definition
type Status string

const (
	StatusDraft      Status = "draft"
	StatusActive     Status = "active"
	StatusPaused     Status = "paused"
	StatusDeprecated Status = "deprecated"
	StatusArchived   Status = "archived"
)

// ProcessType is the healthcare business process a workflow implements
type ProcessType string

const (
	ProcessPriorAuthorization ProcessType = "prior_authorization"
	ProcessClaimsProcessing   ProcessType = "claims_processing"
	ProcessAppeals            ProcessType = "appeals"
	ProcessCredentialing      ProcessType = "credentialing"
	ProcessEligibility        ProcessType = "eligibility_verification"
	ProcessUtilizationReview  ProcessType = "utilization_review"
	ProcessCareManagement     ProcessType = "care_management"
	ProcessReferral           ProcessType = "referral_management"
	ProcessCustom             ProcessType = "custom"
)

// ProcessTypes lists every supported process type
var ProcessTypes = []ProcessType{
	ProcessPriorAuthorization, ProcessClaimsProcessing, ProcessAppeals, ProcessCredentialing,
	ProcessEligibility, ProcessUtilizationReview, ProcessCareManagement, ProcessReferral, ProcessCustom,
}

// IsValid reports whether t is a supported process type
func (t ProcessType) IsValid() bool {
	for _, candidate := range ProcessTypes {
		if t == candidate {
			return true
		}
	}
	return false
}

// Category groups process types for reporting
type Category string

const (
	CategoryAuthorization Category = "authorization"
	CategoryClaims        Category = "claims"
	CategoryAppeals       Category = "appeals_grievances"
	CategoryProvider      Category = "provider_management"
	CategoryEligibility   Category = "eligibility"
	CategoryUtilization   Category = "utilization_management"
	CategoryClinical      Category = "clinical"
	CategoryGeneral       Category = "general"
)

// Category infers the reporting category; unmapped types fall into CategoryGeneral
func (t ProcessType) Category() Category {
	switch t {
	case ProcessPriorAuthorization:
		return CategoryAuthorization
	case ProcessClaimsProcessing:
		return CategoryClaims
	case ProcessAppeals:
		return CategoryAppeals
	case ProcessCredentialing:
		return CategoryProvider
	case ProcessEligibility:
		return CategoryEligibility
	case ProcessUtilizationReview:
		return CategoryUtilization
	case ProcessCareManagement:
		return CategoryClinical
	}
	return CategoryGeneral
}

// IntegrationType is the kind of external system an integration talks to
type IntegrationType string

const (
	IntegrationEHR           IntegrationType = "ehr"
	IntegrationPayer         IntegrationType = "payer"
	IntegrationProvider      IntegrationType = "provider"
	IntegrationClearinghouse IntegrationType = "clearinghouse"
	IntegrationAPI           IntegrationType = "api"
	IntegrationDatabase      IntegrationType = "database"
	IntegrationFHIR          IntegrationType = "fhir"
	IntegrationHL7           IntegrationType = "hl7"
)

// IntegrationTypes lists every supported integration type
var IntegrationTypes = []IntegrationType{
	IntegrationEHR, IntegrationPayer, IntegrationProvider, IntegrationClearinghouse,
	IntegrationAPI, IntegrationDatabase, IntegrationFHIR, IntegrationHL7,
}

// IsValid reports whether t is a supported integration type
func (t IntegrationType) IsValid() bool {
	for _, candidate := range IntegrationTypes {
		if t == candidate {
			return true
		}
	}
	return false
}

// Methods lists accepted integration methods
var Methods = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

// Backoff is a retry delay progression
type Backoff string

const (
	BackoffFixed       Backoff = "fixed"
	BackoffLinear      Backoff = "linear"
	BackoffExponential Backoff = "exponential"
)

// Backoffs lists every supported backoff
var Backoffs = []Backoff{BackoffFixed, BackoffLinear, BackoffExponential}

// Regulation is the canonical regulation code of a compliance requirement
type Regulation string

const (
	RegulationHIPAA Regulation = "HIPAA"
	RegulationGDPR  Regulation = "GDPR"
	RegulationSOC2  Regulation = "SOC2"
	RegulationCMS   Regulation = "CMS"
	RegulationFDA   Regulation = "FDA"
	RegulationState Regulation = "STATE"
)

var regulationKeywords = []struct {
	keyword    string
	regulation Regulation
}{
	{"hipaa", RegulationHIPAA},
	{"gdpr", RegulationGDPR},
	{"soc2", RegulationSOC2},
	{"cms", RegulationCMS},
	{"fda", RegulationFDA},
}

// RegulationOf maps a free-text requirement name to a regulation code; names
// without a known keyword map to RegulationState
func RegulationOf(name string) Regulation {
	lower := strings.ToLower(name)
	for _, candidate := range regulationKeywords {
		if strings.Contains(lower, candidate.keyword) {
			return candidate.regulation
		}
	}
	return RegulationState
}
