package analyzer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/schemagen/internal/dialect"
	"github.com/matthewbaird/schemagen/internal/model"
	"github.com/matthewbaird/schemagen/internal/schema"
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

func analyze(t *testing.T, doc string, scope *Scope) *model.Result {
	t.Helper()
	n, err := schema.Parse([]byte(doc))
	require.NoError(t, err)
	res, err := New(dialect.Python{}).Analyze(n, scope)
	require.NoError(t, err)
	return res
}

type attrView struct {
	Name     string
	Type     string
	Optional bool
}

func view(c model.Class) []attrView {
	out := make([]attrView, len(c.Attributes))
	for i, a := range c.Attributes {
		out[i] = attrView{a.Name, a.Type, a.HasDefault()}
	}
	return out
}

func TestAnalyze_PersonFixture(t *testing.T) {
	res := analyze(t, personSchema, nil)

	assert.Equal(t, "DataClass1", res.Root.Name)
	assert.Equal(t, []attrView{
		{"name", "str", false},
		{"salary", "Optional[int]", true},
		{"address", "Optional[DataClass2]", true},
	}, view(res.Root))

	require.Len(t, res.Auxiliary, 1)
	assert.Equal(t, "DataClass2", res.Auxiliary[0].Name)
	assert.Equal(t, []attrView{
		{"street", "Optional[str]", true},
		{"nr", "Optional[int]", true},
	}, view(res.Auxiliary[0]))
}

func TestAnalyze_GoDialect(t *testing.T) {
	n, err := schema.Parse([]byte(personSchema))
	require.NoError(t, err)
	res, err := New(dialect.Go{}).Analyze(n, nil)
	require.NoError(t, err)

	assert.Equal(t, []attrView{
		{"name", "string", false},
		{"salary", "*int64", true},
		{"address", "*DataClass2", true},
	}, view(res.Root))

	address, ok := res.Root.Attribute("address")
	require.True(t, ok)
	assert.Equal(t, model.TypeRef{Kind: model.KindObject, Class: "DataClass2"}, address.Shape)
}

func TestAnalyze_TitleIsUsedVerbatim(t *testing.T) {
	res := analyze(t, `{"type":"object","title":"Employee","properties":{
		"boss":{"type":"object","title":"Manager","properties":{}},
		"desk":{"type":"object","properties":{}}
	}}`, nil)

	assert.Equal(t, "Employee", res.Root.Name)
	assert.Equal(t, []string{"Employee", "Manager", "DataClass1"}, res.ClassNames())
}

func TestAnalyze_RequiredBeforeOptional(t *testing.T) {
	res := analyze(t, `{"type":"object","properties":{
		"a":{"type":"string"},
		"b":{"type":"integer"},
		"c":{"type":"number"},
		"d":{"type":"string"},
		"e":{"type":"integer"}
	},"required":["e","b"]}`, nil)

	var got []string
	for _, a := range res.Root.Attributes {
		got = append(got, a.Name)
	}
	assert.Equal(t, []string{"b", "e", "a", "c", "d"}, got)
}

func TestAnalyze_DepthFirstNaming(t *testing.T) {
	// root(1) -> a(2) -> a.x(3); b items(4); c(5)
	res := analyze(t, `{"type":"object","properties":{
		"a":{"type":"object","properties":{
			"x":{"type":"object","properties":{"v":{"type":"string"}}}
		}},
		"b":{"type":"array","items":{"type":"object","properties":{}}},
		"c":{"type":"object","properties":{}}
	}}`, nil)

	assert.Equal(t, []string{
		"DataClass1", "DataClass2", "DataClass3", "DataClass4", "DataClass5",
	}, res.ClassNames())

	b, _ := res.Root.Attribute("b")
	assert.Equal(t, "Optional[List[DataClass4]]", b.Type)
}

func TestAnalyze_NestedClassPrecedesItsChildren(t *testing.T) {
	res := analyze(t, `{"type":"object","title":"Root","properties":{
		"outer":{"type":"object","title":"Outer","properties":{
			"inner":{"type":"object","title":"Inner","properties":{}}
		}},
		"sibling":{"type":"object","title":"Sibling","properties":{}}
	}}`, nil)

	assert.Equal(t, []string{"Root", "Outer", "Inner", "Sibling"}, res.ClassNames())
}

func TestAnalyze_ArrayOfObjects(t *testing.T) {
	res := analyze(t, `{"type":"object","properties":{
		"items":{"type":"array","items":{"type":"object","properties":{"sku":{"type":"string"}},"required":["sku"]}}
	},"required":["items"]}`, nil)

	require.Len(t, res.Auxiliary, 1)
	items, _ := res.Root.Attribute("items")
	assert.Equal(t, "List["+res.Auxiliary[0].Name+"]", items.Type)
	assert.Equal(t, model.KindArray, items.Shape.Kind)
	assert.Equal(t, res.Auxiliary[0].Name, items.Shape.Elem.Class)
}

func TestAnalyze_ArrayOfPrimitivesCreatesNoClass(t *testing.T) {
	res := analyze(t, `{"type":"object","properties":{
		"tags":{"type":"array","items":{"type":"array","items":{"type":"number"}}}
	}}`, nil)

	assert.Empty(t, res.Auxiliary)
	tags, _ := res.Root.Attribute("tags")
	assert.Equal(t, "Optional[List[List[float]]]", tags.Type)
}

func TestAnalyze_UnsupportedType(t *testing.T) {
	n, err := schema.Parse([]byte(`{"type":"object","properties":{
		"name":{"type":"string"},
		"active":{"type":"boolean"}
	}}`))
	require.NoError(t, err)

	res, err := New(dialect.Python{}).Analyze(n, nil)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedType))

	var ute *UnsupportedTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "boolean", ute.Type)
	assert.Equal(t, "/properties/active", ute.Pointer)
}

func TestAnalyze_UnsupportedInsideArray(t *testing.T) {
	n, err := schema.Parse([]byte(`{"type":"object","properties":{
		"xs":{"type":"array","items":{"type":"strng"}}
	}}`))
	require.NoError(t, err)

	_, err = New(dialect.Python{}).Analyze(n, nil)
	var ute *UnsupportedTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "/properties/xs/items", ute.Pointer)
	assert.Equal(t, "did you mean 'string'?", ute.Suggestion)
}

func TestAnalyze_RootMustBeObject(t *testing.T) {
	_, err := New(dialect.Python{}).Analyze(schema.NewString(""), nil)
	assert.True(t, errors.Is(err, schema.ErrMalformed))
}

func TestAnalyze_BuiltTree(t *testing.T) {
	root := schema.NewTitledObject("", "Order", []schema.Property{
		{Name: "id", Schema: schema.NewInteger("/properties/id")},
		{Name: "lines", Schema: schema.NewArray("/properties/lines",
			schema.NewObject("/properties/lines/items", []schema.Property{
				{Name: "qty", Schema: schema.NewNumber("/properties/lines/items/properties/qty")},
			}, "qty"))},
	}, "id", "lines")

	res, err := New(dialect.Go{}).Analyze(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Order", "DataClass1"}, res.ClassNames())

	lines, _ := res.Root.Attribute("lines")
	assert.Equal(t, "[]DataClass1", lines.Type)
	assert.False(t, lines.HasDefault())
}

func TestScope_ContinuesAcrossCompilations(t *testing.T) {
	scope := NewScope()

	first := analyze(t, personSchema, scope)
	assert.Equal(t, []string{"DataClass1", "DataClass2"}, first.ClassNames())

	second := analyze(t, personSchema, scope)
	assert.Equal(t, []string{"DataClass3", "DataClass4"}, second.ClassNames())
	assert.Equal(t, 4, scope.Last())

	scope.Reset()
	third := analyze(t, personSchema, scope)
	assert.Equal(t, []string{"DataClass1", "DataClass2"}, third.ClassNames())
}

func TestScope_IndependentCompilations(t *testing.T) {
	a := analyze(t, personSchema, nil)
	b := analyze(t, personSchema, nil)
	assert.Equal(t, a.ClassNames(), b.ClassNames())
}

func TestScope_FailedCompilationDoesNotAdvance(t *testing.T) {
	scope := NewScope()
	n, err := schema.Parse([]byte(`{"type":"object","properties":{
		"a":{"type":"object","properties":{}},
		"b":{"type":"boolean"}
	}}`))
	require.NoError(t, err)

	_, err = New(dialect.Python{}).Analyze(n, scope)
	require.Error(t, err)
	assert.Equal(t, 0, scope.Last())

	res := analyze(t, personSchema, scope)
	assert.Equal(t, "DataClass1", res.Root.Name)
}

func TestSuggestFrom(t *testing.T) {
	assert.Equal(t, "did you mean 'integer'?", SuggestFrom("integr", supportedTypes, 2))
	assert.Equal(t, "", SuggestFrom("boolean", supportedTypes, 2))
	assert.Equal(t, 3, Levenshtein("kitten", "sitting"))
}
