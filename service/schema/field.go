package schema

import (
	"regexp"

	"github.com/viant/careflow/internal/yml"
	"github.com/viant/careflow/model/validation"
)

// Kind is the expected node shape
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindInt
	KindBool
	KindMap
	KindSequence
	// KindTargets accepts a string or a sequence of strings
	KindTargets
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindMap:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindTargets:
		return "string or sequence of strings"
	}
	return "any"
}

// Field describes a node of the DSL document
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	// NonEmpty rejects empty mappings and sequences
	NonEmpty bool
	Pattern  *regexp.Regexp
	Enum     []string
	// Min is the inclusive lower bound of integers, checked when HasMin is set
	Min    int
	HasMin bool
	// Fields lists the keys of a mapping with a fixed shape
	Fields []*Field
	// KeyPattern constrains keys of a keyed mapping
	KeyPattern *regexp.Regexp
	// Value describes keyed mapping values or sequence items
	Value *Field
	// Check runs custom validation once the node passed the structural checks
	Check func(path string, node *yml.Node, result *validation.Result)
}

// Lookup returns a fixed mapping key descriptor
func (f *Field) Lookup(name string) *Field {
	for _, candidate := range f.Fields {
		if candidate.Name == name {
			return candidate
		}
	}
	return nil
}

func (f *Field) matches(node *yml.Node) bool {
	switch f.Kind {
	case KindString:
		return node.IsString()
	case KindInt:
		return node.IsInt()
	case KindBool:
		return node.IsBool()
	case KindMap:
		return node.IsMap()
	case KindSequence:
		return node.IsSequence()
	case KindTargets:
		return node.IsString() || node.IsSequence()
	}
	return true
}
