package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
  "type": "object",
  "properties": {
    "name": {"description": "Formatted Name", "type": "string"},
    "salary": {"type": "integer"},
    "address": {
      "type": "object",
      "properties": {
        "street": {"type": "string"},
        "nr": {"type": "integer"}
      }
    }
  },
  "required": ["name"]
}`

func propertyNames(o *Object) []string {
	out := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		out[i] = p.Name
	}
	return out
}

func TestParse_Person(t *testing.T) {
	n, err := Parse([]byte(personSchema))
	require.NoError(t, err)

	root, ok := n.(*Object)
	require.True(t, ok)
	assert.False(t, root.HasTitle)
	assert.Equal(t, []string{"name", "salary", "address"}, propertyNames(root))
	assert.True(t, root.IsRequired("name"))
	assert.False(t, root.IsRequired("salary"))

	salary, ok := root.Property("salary")
	require.True(t, ok)
	assert.IsType(t, &Integer{}, salary)

	address, ok := root.Property("address")
	require.True(t, ok)
	addr, ok := address.(*Object)
	require.True(t, ok)
	assert.Equal(t, "/properties/address", addr.Pointer())
	assert.Equal(t, []string{"street", "nr"}, propertyNames(addr))
	assert.Empty(t, addr.Required)
}

func TestParse_PreservesDocumentOrder(t *testing.T) {
	n, err := Parse([]byte(`{"type":"object","properties":{
		"zeta":{"type":"string"},
		"alpha":{"type":"number"},
		"mid":{"type":"integer"}
	}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, propertyNames(n.(*Object)))
}

func TestParse_CUESource(t *testing.T) {
	src := `
type:  "object"
title: "Person"
properties: {
	name: type: "string"
	tags: {
		type: "array"
		items: type: "string"
	}
}
required: ["name"]
`
	n, err := Parse([]byte(src))
	require.NoError(t, err)

	root := n.(*Object)
	assert.True(t, root.HasTitle)
	assert.Equal(t, "Person", root.Title)
	assert.Equal(t, []string{"name", "tags"}, propertyNames(root))

	tags, _ := root.Property("tags")
	arr, ok := tags.(*Array)
	require.True(t, ok)
	assert.IsType(t, &String{}, arr.Items)
	assert.Equal(t, "/properties/tags/items", arr.Items.Pointer())
}

func TestParse_UnsupportedTagsAreKept(t *testing.T) {
	n, err := Parse([]byte(`{"type":"object","properties":{
		"flag":{"type":"boolean"},
		"maybe":{"type":["string","null"]}
	}}`))
	require.NoError(t, err)

	root := n.(*Object)
	flag, _ := root.Property("flag")
	u, ok := flag.(*Unsupported)
	require.True(t, ok)
	assert.Equal(t, "boolean", u.Type)

	maybe, _ := root.Property("maybe")
	u, ok = maybe.(*Unsupported)
	require.True(t, ok)
	assert.Contains(t, u.Type, "string")
	assert.Contains(t, u.Type, "null")
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax error", `{"type": "object", "properties": {`},
		{"root not object", `{"type": "array", "items": {"type": "string"}}`},
		{"missing type", `{"properties": {}}`},
		{"object without properties", `{"type":"object","properties":{"a":{"type":"object"}}}`},
		{"array without items", `{"type":"object","properties":{"a":{"type":"array"}}}`},
		{"required not a list", `{"type":"object","properties":{},"required":"a"}`},
		{"title not a string", `{"type":"object","title":3,"properties":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)

			var me *MalformedError
			assert.True(t, errors.As(err, &me))
		})
	}
}

func TestDecode_ReportsPointer(t *testing.T) {
	v, err := Compile([]byte(`{"type":"object","properties":{"a":{"type":"object","properties":{"b":{"type":"array"}}}}}`))
	require.NoError(t, err)

	_, err = Decode(v)
	var me *MalformedError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "/properties/a/properties/b", me.Pointer)
	assert.Contains(t, me.Error(), "items")
}

func TestCheck_CollectsViolations(t *testing.T) {
	err := Check([]byte(`{"type":"object","properties":{"a":{"type":"array"},"b":{"title":1,"type":"string"}}}`))
	var me *MalformedError
	require.ErrorAs(t, err, &me)
	assert.GreaterOrEqual(t, len(me.Violations), 2)
}

func TestCheck_AcceptsSupportedSubset(t *testing.T) {
	assert.NoError(t, Check([]byte(personSchema)))
}

func TestJoin_Escapes(t *testing.T) {
	assert.Equal(t, "/properties/a~1b/properties/c~0d", Join("", "properties", "a/b", "properties", "c~d"))
}
