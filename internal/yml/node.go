package yml

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/viant/toolbox"
	"gopkg.in/yaml.v3"
)

type (
	Node yaml.Node
)

// Root unwraps a document node
func (n *Node) Root() *Node {
	if n != nil && n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return (*Node)(n.Content[0])
	}
	return n
}

// Lookup returns the value node for key in a mapping node, or nil
func (n *Node) Lookup(key string) *Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return (*Node)(n.Content[i+1])
		}
	}
	return nil
}

// Items iterates sequence elements
func (n *Node) Items(callback func(index int, node *Node) error) error {
	for i := 0; i < len(n.Content); i++ {
		if err := callback(i, (*Node)(n.Content[i])); err != nil {
			return err
		}
	}
	return nil
}

// Pairs iterates mapping entries in document order
func (n *Node) Pairs(callback func(key string, node *Node) error) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := callback(n.Content[i].Value, (*Node)(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns mapping keys in document order
func (n *Node) Keys() []string {
	var result []string
	_ = n.Pairs(func(key string, _ *Node) error {
		result = append(result, key)
		return nil
	})
	return result
}

// IsNull reports whether the node is absent or an explicit null
func (n *Node) IsNull() bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// IsMap reports whether the node is a mapping
func (n *Node) IsMap() bool {
	return n != nil && n.Kind == yaml.MappingNode
}

// IsSequence reports whether the node is a sequence
func (n *Node) IsSequence() bool {
	return n != nil && n.Kind == yaml.SequenceNode
}

// IsString reports whether the node is a string scalar
func (n *Node) IsString() bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.Tag == "!!str"
}

// IsInt reports whether the node is an integer scalar
func (n *Node) IsInt() bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.Tag == "!!int"
}

// IsNumber reports whether the node is an integer or float scalar
func (n *Node) IsNumber() bool {
	return n != nil && n.Kind == yaml.ScalarNode && (n.Tag == "!!int" || n.Tag == "!!float")
}

// IsBool reports whether the node is a boolean scalar
func (n *Node) IsBool() bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.Tag == "!!bool"
}

// KindName describes the node type for diagnostics
func (n *Node) KindName() string {
	switch {
	case n.IsNull():
		return "null"
	case n.IsMap():
		return "mapping"
	case n.IsSequence():
		return "sequence"
	case n.IsString():
		return "string"
	case n.IsInt():
		return "integer"
	case n.IsNumber():
		return "number"
	case n.IsBool():
		return "boolean"
	case n.Kind == yaml.AliasNode:
		return "alias"
	}
	return "scalar"
}

// Interface converts the node into plain Go values
func (n *Node) Interface() interface{} {
	switch n.Kind {
	case yaml.DocumentNode:
		return n.Root().Interface()
	case yaml.AliasNode:
		if n.Alias != nil {
			return (*Node)(n.Alias).Interface()
		}
		return nil
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!str":
			return n.Value
		case "!!bool":
			return toolbox.AsBoolean(n.Value)
		case "!!null":
			return nil
		case "!!float":
			return toolbox.AsFloat(n.Value)
		case "!!int":
			return toolbox.AsInt(n.Value)
		default:
			return n.Value
		}
	case yaml.MappingNode:
		var aMap = make(map[string]interface{})
		for i := 0; i+1 < len(n.Content); i += 2 {
			aMap[n.Content[i].Value] = (*Node)(n.Content[i+1]).Interface()
		}
		return aMap
	case yaml.SequenceNode:
		var aSlice = make([]interface{}, 0, len(n.Content))
		for i := 0; i < len(n.Content); i++ {
			aSlice = append(aSlice, (*Node)(n.Content[i]).Interface())
		}
		return aSlice
	}
	return nil
}

// Append adds a value to a sequence node
func (n *Node) Append(value interface{}) {
	if n.Kind != yaml.SequenceNode {
		panic("not a sequence node")
	}
	n.Content = append(n.Content, ValueNode(value))
}

// Put adds a key/value pair to a mapping node
func (n *Node) Put(key string, value interface{}) {
	if n.Kind != yaml.MappingNode {
		panic("not a map node")
	}
	n.Content = append(n.Content, newScalar(key))
	n.Content = append(n.Content, ValueNode(value))
}

// ValueNode converts plain Go values into a node tree; map keys are sorted so
// the resulting tree is deterministic
func ValueNode(value interface{}) *yaml.Node {
	if value == nil {
		return newScalar(nil)
	}
	switch actual := value.(type) {
	case *Node:
		return (*yaml.Node)(actual)
	case *yaml.Node:
		return actual
	case yaml.Node:
		return &actual
	case string, []byte, int, int64, uint64, float64, float32, bool:
		return newScalar(value)
	case map[string]interface{}:
		aMap := (*Node)(NewMap())
		for _, k := range sortedKeys(actual) {
			aMap.Put(k, actual[k])
		}
		return (*yaml.Node)(aMap)
	case map[string]string:
		aMap := (*Node)(NewMap())
		keys := make([]string, 0, len(actual))
		for k := range actual {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			aMap.Put(k, actual[k])
		}
		return (*yaml.Node)(aMap)
	case []interface{}:
		aSlice := (*Node)(NewSlice())
		for j := range actual {
			aSlice.Append(actual[j])
		}
		return (*yaml.Node)(aSlice)
	case []string:
		aSlice := (*Node)(NewSlice())
		for j := range actual {
			aSlice.Append(actual[j])
		}
		return (*yaml.Node)(aSlice)
	case []map[string]interface{}:
		aSlice := (*Node)(NewSlice())
		for j := range actual {
			aSlice.Append(actual[j])
		}
		return (*yaml.Node)(aSlice)
	}
	return newScalar(fmt.Sprintf("%v", value))
}

func sortedKeys(aMap map[string]interface{}) []string {
	keys := make([]string, 0, len(aMap))
	for k := range aMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func NewSlice() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func NewMap() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func newScalar(value interface{}) *yaml.Node {
	rType := reflect.TypeOf(value)
	if rType != nil && rType.Kind() == reflect.Ptr {
		rValue := reflect.ValueOf(value)
		if rValue.IsNil() {
			value = nil
		} else {
			value = rValue.Elem().Interface()
		}
	}
	if value == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	tag := "!!str"
	switch actual := value.(type) {
	case int, int64, uint64:
		tag = "!!int"
	case float32:
		value, tag = wholeNumber(float64(actual))
	case float64:
		value, tag = wholeNumber(actual)
	case bool:
		tag = "!!bool"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: formatScalar(value)}
}

// wholeNumber keeps integers decoded as floats (encoding/json) typed as integers
func wholeNumber(value float64) (interface{}, string) {
	if value == math.Trunc(value) && math.Abs(value) < 1<<53 {
		return int64(value), "!!int"
	}
	return value, "!!float"
}

func formatScalar(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	}
	return toolbox.AsString(value)
}
