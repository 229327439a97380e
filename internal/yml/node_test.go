package yml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNode_Interface(t *testing.T) {
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(`
name: test
count: 3
ratio: 0.5
enabled: true
missing: null
tags: [a, b]
nested:
  key: value
`), &doc))

	root := (*Node)(&doc).Root()
	assert.True(t, root.IsMap())
	assert.Equal(t, []string{"name", "count", "ratio", "enabled", "missing", "tags", "nested"}, root.Keys())
	assert.Equal(t, "test", root.Lookup("name").Interface())
	assert.Equal(t, 3, root.Lookup("count").Interface())
	assert.Equal(t, 0.5, root.Lookup("ratio").Interface())
	assert.Equal(t, true, root.Lookup("enabled").Interface())
	assert.Nil(t, root.Lookup("missing").Interface())
	assert.True(t, root.Lookup("missing").IsNull())
	assert.True(t, root.Lookup("absent").IsNull())
	assert.Equal(t, []interface{}{"a", "b"}, root.Lookup("tags").Interface())
	assert.Equal(t, map[string]interface{}{"key": "value"}, root.Lookup("nested").Interface())
	assert.Equal(t, "integer", root.Lookup("count").KindName())
	assert.Equal(t, "sequence", root.Lookup("tags").KindName())
}

func TestValueNode(t *testing.T) {
	node := (*Node)(ValueNode(map[string]interface{}{
		"start": "a",
		"steps": map[string]interface{}{
			"a": map[string]interface{}{"type": "task", "retry": map[string]interface{}{"attempts": 2}},
		},
		"compliance": []string{"HIPAA"},
		"empty":      nil,
	}))
	assert.Equal(t, []string{"compliance", "empty", "start", "steps"}, node.Keys())
	assert.True(t, node.Lookup("start").IsString())
	assert.True(t, node.Lookup("compliance").IsSequence())
	assert.True(t, node.Lookup("empty").IsNull())
	attempts := node.Lookup("steps").Lookup("a").Lookup("retry").Lookup("attempts")
	assert.True(t, attempts.IsInt())
	assert.Equal(t, 2, attempts.Interface())

	data, err := yaml.Marshal((*yaml.Node)(node))
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "a", decoded["start"])
}

func TestValueNode_Floats(t *testing.T) {
	testCases := []struct {
		value     interface{}
		expectTag string
		expect    string
	}{
		{value: float64(3), expectTag: "!!int", expect: "3"},
		{value: float32(-2), expectTag: "!!int", expect: "-2"},
		{value: 0.5, expectTag: "!!float", expect: "0.5"},
		{value: 1e20, expectTag: "!!float", expect: "100000000000000000000"},
	}
	for _, tc := range testCases {
		node := ValueNode(tc.value)
		assert.Equal(t, tc.expectTag, node.Tag, tc.expect)
		assert.Equal(t, tc.expect, node.Value)
	}
}
