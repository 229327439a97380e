// Package diff compares two workflow definitions as canonical YAML.
package diff

import (
	"bytes"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	sgdiff "github.com/sourcegraph/go-diff/diff"
	"github.com/viant/careflow/model"
	"gopkg.in/yaml.v3"
)

// DefaultContext is the number of unchanged lines around each change
const DefaultContext = 3

type (
	// Report describes the changes between two definitions
	Report struct {
		Text    string  `json:"text,omitempty" yaml:"text,omitempty"`
		Added   int     `json:"added" yaml:"added"`
		Removed int     `json:"removed" yaml:"removed"`
		Hunks   []*Hunk `json:"hunks,omitempty" yaml:"hunks,omitempty"`
	}

	// Hunk is a contiguous changed region
	Hunk struct {
		OldStart int `json:"oldStart" yaml:"oldStart"`
		OldLines int `json:"oldLines" yaml:"oldLines"`
		NewStart int `json:"newStart" yaml:"newStart"`
		NewLines int `json:"newLines" yaml:"newLines"`
		Added    int `json:"added" yaml:"added"`
		Removed  int `json:"removed" yaml:"removed"`
	}
)

// IsEmpty reports whether the definitions are equivalent
func (r *Report) IsEmpty() bool {
	return r.Text == ""
}

// Canonical renders a definition as YAML without identity and audit fields
func Canonical(definition *model.WorkflowDefinition) ([]byte, error) {
	if definition == nil {
		return nil, nil
	}
	clone := definition.Clone()
	clone.ID = ""
	clone.Metadata = nil
	return yaml.Marshal(clone)
}

// Definitions compares from with to
func Definitions(from, to *model.WorkflowDefinition) (*Report, error) {
	fromData, err := Canonical(from)
	if err != nil {
		return nil, fmt.Errorf("failed to render original definition: %w", err)
	}
	toData, err := Canonical(to)
	if err != nil {
		return nil, fmt.Errorf("failed to render updated definition: %w", err)
	}
	return Text(fromData, toData, name(from, to), DefaultContext)
}

// Text compares two YAML renderings
func Text(from, to []byte, label string, context int) (*Report, error) {
	ret := &Report{}
	if bytes.Equal(from, to) {
		return ret, nil
	}
	if context <= 0 {
		context = DefaultContext
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(from)),
		B:        difflib.SplitLines(string(to)),
		FromFile: label + " (original)",
		ToFile:   label + " (modified)",
		Context:  context,
	})
	if err != nil {
		return nil, err
	}
	ret.Text = text
	fileDiff, err := sgdiff.ParseFileDiff([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse definition diff: %w", err)
	}
	for _, item := range fileDiff.Hunks {
		hunk := &Hunk{
			OldStart: int(item.OrigStartLine),
			OldLines: int(item.OrigLines),
			NewStart: int(item.NewStartLine),
			NewLines: int(item.NewLines),
		}
		for _, line := range bytes.Split(item.Body, []byte("\n")) {
			switch {
			case bytes.HasPrefix(line, []byte("+")):
				hunk.Added++
			case bytes.HasPrefix(line, []byte("-")):
				hunk.Removed++
			}
		}
		ret.Added += hunk.Added
		ret.Removed += hunk.Removed
		ret.Hunks = append(ret.Hunks, hunk)
	}
	return ret, nil
}

func name(from, to *model.WorkflowDefinition) string {
	switch {
	case to != nil && to.Name != "":
		return to.Name + ".yaml"
	case from != nil && from.Name != "":
		return from.Name + ".yaml"
	}
	return "workflow.yaml"
}
