// Package dsl represents workflow DSL documents: the raw node tree inspected
// by the schema validator and the typed view consumed by the converter.
package dsl

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/viant/careflow/internal/yml"
	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned when the supplied document has no content
var ErrEmptyDocument = errors.New("dsl: empty document")

// Document is a raw DSL document
type Document struct {
	// URL identifies where the document was loaded from, empty for inline documents
	URL  string
	root *yml.Node
}

// Root returns the top level node
func (d *Document) Root() *yml.Node {
	return d.root
}

// Parse parses YAML or JSON encoded DSL
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse workflow document: %w", err)
	}
	root := (*yml.Node)(&node).Root()
	if root == nil || root.Kind == 0 || root.IsNull() {
		return nil, ErrEmptyDocument
	}
	return &Document{root: root}, nil
}

// FromMap creates a document from decoded values, for example a JSON API payload
func FromMap(values map[string]interface{}) *Document {
	return &Document{root: (*yml.Node)(yml.ValueNode(values))}
}

// Decode returns the typed view of the document
func (d *Document) Decode() (*Definition, error) {
	ret := &Definition{}
	if err := (*yaml.Node)(d.root).Decode(ret); err != nil {
		return nil, fmt.Errorf("failed to decode workflow document: %w", err)
	}
	return ret, nil
}

// Canonical renders the document as YAML
func (d *Document) Canonical() ([]byte, error) {
	return yaml.Marshal((*yaml.Node)(d.root))
}
