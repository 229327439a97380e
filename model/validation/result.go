// Package validation defines the issues reported while compiling a workflow
// definition and the aggregate result handed back to callers.
package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Severity classifies an issue
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue codes emitted by the schema and graph validators
const (
	CodeRequiredField    = "REQUIRED_FIELD"
	CodeInvalidType      = "INVALID_TYPE"
	CodePatternMismatch  = "PATTERN_MISMATCH"
	CodeInvalidEnum      = "INVALID_ENUM"
	CodeEmptyCollection  = "EMPTY_COLLECTION"
	CodeDuplicateKey     = "DUPLICATE_KEY"
	CodeInvalidRange     = "INVALID_RANGE"
	CodeUnknownField     = "UNKNOWN_FIELD"
	CodeInvalidDocument  = "INVALID_DOCUMENT"
	CodeInvalidDuration  = "INVALID_DURATION"
	CodeInvalidStartStep = "INVALID_START_STEP"
	CodeInvalidReference = "INVALID_STEP_REFERENCE"
	CodeInvalidFallback  = "INVALID_FALLBACK_REFERENCE"
	CodeInvalidIntegRef  = "INVALID_INTEGRATION_REFERENCE"
	CodeCircular         = "CIRCULAR_DEPENDENCY"
	CodeUnreachableStep  = "UNREACHABLE_STEP"
	CodeInvalidCondition = "INVALID_CONDITION"
	CodeUndefinedVar     = "UNDEFINED_VARIABLE"
	CodeMissingEndStep   = "MISSING_END_STEP"
)

// Error describes a single validation issue
type Error struct {
	Path     string   `json:"path" yaml:"path"`
	Message  string   `json:"message" yaml:"message"`
	Code     string   `json:"code" yaml:"code"`
	Severity Severity `json:"severity" yaml:"severity"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"`
	Column   int      `json:"column,omitempty" yaml:"column,omitempty"`
	// Cycle lists the step ids forming a circular dependency, first id repeated at the end
	Cycle []string `json:"cycle,omitempty" yaml:"cycle,omitempty"`
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
}

// Key returns an identity used for order independent comparison
func (e *Error) Key() string {
	return string(e.Severity) + "|" + e.Code + "|" + e.Path + "|" + e.Message
}

// Result aggregates issues found in a single compilation
type Result struct {
	IsValid  bool     `json:"isValid" yaml:"isValid"`
	Errors   []*Error `json:"errors" yaml:"errors"`
	Warnings []*Error `json:"warnings" yaml:"warnings"`
	Info     []*Error `json:"info,omitempty" yaml:"info,omitempty"`
}

// NewResult creates an empty, valid result
func NewResult() *Result {
	return &Result{IsValid: true, Errors: []*Error{}, Warnings: []*Error{}}
}

// Add appends an issue to the bucket matching its severity
func (r *Result) Add(issue *Error) {
	switch issue.Severity {
	case SeverityWarning:
		r.Warnings = append(r.Warnings, issue)
	case SeverityInfo:
		r.Info = append(r.Info, issue)
	default:
		issue.Severity = SeverityError
		r.Errors = append(r.Errors, issue)
	}
	r.IsValid = len(r.Errors) == 0
}

// AddError records an error level issue
func (r *Result) AddError(path, code, format string, args ...interface{}) *Error {
	issue := &Error{Path: path, Code: code, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
	r.Add(issue)
	return issue
}

// AddWarning records a warning level issue
func (r *Result) AddWarning(path, code, format string, args ...interface{}) *Error {
	issue := &Error{Path: path, Code: code, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
	r.Add(issue)
	return issue
}

// Merge appends every issue of other
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	for _, issue := range other.Issues() {
		r.Add(issue)
	}
}

// Issues returns errors, warnings and info in that order
func (r *Result) Issues() []*Error {
	var result = make([]*Error, 0, len(r.Errors)+len(r.Warnings)+len(r.Info))
	result = append(result, r.Errors...)
	result = append(result, r.Warnings...)
	return append(result, r.Info...)
}

// HasCode reports whether any issue carries the supplied code
func (r *Result) HasCode(code string) bool {
	return len(r.ByCode(code)) > 0
}

// ByCode returns all issues with the supplied code
func (r *Result) ByCode(code string) []*Error {
	var result []*Error
	for _, issue := range r.Issues() {
		if issue.Code == code {
			result = append(result, issue)
		}
	}
	return result
}

// Keys returns sorted issue keys, handy for order independent comparison
func (r *Result) Keys() []string {
	issues := r.Issues()
	keys := make([]string, 0, len(issues))
	for _, issue := range issues {
		keys = append(keys, issue.Key())
	}
	sort.Strings(keys)
	return keys
}

// Summary renders up to limit errors on a single line
func (r *Result) Summary(limit int) string {
	if len(r.Errors) == 0 {
		return "no errors"
	}
	var parts []string
	for i, issue := range r.Errors {
		if limit > 0 && i == limit {
			parts = append(parts, fmt.Sprintf("and %d more", len(r.Errors)-limit))
			break
		}
		parts = append(parts, issue.Error())
	}
	return strings.Join(parts, "; ")
}
