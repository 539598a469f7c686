package render

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"

	"github.com/matthewbaird/schemagen/internal/dialect"
	"github.com/matthewbaird/schemagen/internal/model"
)

// DefaultPackage names the package of generated Go code when none is given.
const DefaultPackage = "models"

// Go renders structs with a LoadX constructor and a Dump method.
type Go struct {
	Package string
}

// NewGo returns a Go renderer emitting into pkg, or DefaultPackage if empty.
func NewGo(pkg string) Go {
	if pkg == "" {
		pkg = DefaultPackage
	}
	return Go{Package: pkg}
}

func (Go) Name() string { return "go" }

func (Go) Dialect() dialect.Dialect { return dialect.Go{} }

type goField struct {
	Ident    string
	Key      string // Go-quoted mapping key
	Type     string // without the optional pointer
	Tag      string
	Optional bool
	Decoder  string
	Encode   string
}

type goClass struct {
	Name     string
	Fields   []goField
	Required []goField
	Optional []goField
}

const goHelpers = `
func decodeString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func decodeInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		if n < math.MinInt64 || n >= -math.MinInt64 {
			return 0, fmt.Errorf("integer %v out of range", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	}
	return 0, fmt.Errorf("expected integer, got %T", v)
}

func decodeFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	}
	return 0, fmt.Errorf("expected number, got %T", v)
}

func decodeList[T any](elem func(any) (T, error)) func(any) ([]T, error) {
	return func(v any) ([]T, error) {
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected array, got %T", v)
		}
		out := make([]T, len(items))
		for i, item := range items {
			x, err := elem(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = x
		}
		return out, nil
	}
}

func decodeObject[T any](load func(map[string]any) (*T, error)) func(any) (T, error) {
	return func(v any) (T, error) {
		var zero T
		m, ok := v.(map[string]any)
		if !ok {
			return zero, fmt.Errorf("expected object, got %T", v)
		}
		x, err := load(m)
		if err != nil {
			return zero, err
		}
		return *x, nil
	}
}

func encodeObject[T interface{ Dump() map[string]any }](x T) any {
	return x.Dump()
}

func encodeList[T any](elem func(T) any) func([]T) any {
	return func(xs []T) any {
		out := make([]any, len(xs))
		for i, x := range xs {
			out[i] = elem(x)
		}
		return out
	}
}
`

var goTmpl = template.Must(template.New("go").Parse(`// Code generated by schemagen. DO NOT EDIT.

package {{.Package}}

import (
	"encoding/json"
	"fmt"
	"math"
)
{{.Helpers}}
{{- range $c := .Classes}}

type {{$c.Name}} struct {
{{- range $c.Fields}}
	{{.Ident}} {{if .Optional}}*{{end}}{{.Type}}{{if .Tag}} {{.Tag}}{{end}}
{{- end}}
}

// Load{{$c.Name}} builds a {{$c.Name}} from a decoded JSON object.
func Load{{$c.Name}}(m map[string]any) (*{{$c.Name}}, error) {
	var c {{$c.Name}}
{{- range $c.Required}}
	{
		v, ok := m[{{.Key}}]
		if !ok {
			return nil, fmt.Errorf("{{$c.Name}}: missing required field %q", {{.Key}})
		}
		x, err := {{.Decoder}}(v)
		if err != nil {
			return nil, fmt.Errorf("{{$c.Name}}.%s: %w", {{.Key}}, err)
		}
		c.{{.Ident}} = x
	}
{{- end}}
{{- range $c.Optional}}
	if v, ok := m[{{.Key}}]; ok && v != nil {
		x, err := {{.Decoder}}(v)
		if err != nil {
			return nil, fmt.Errorf("{{$c.Name}}.%s: %w", {{.Key}}, err)
		}
		c.{{.Ident}} = &x
	}
{{- end}}
	return &c, nil
}

// Dump converts the {{$c.Name}} back into a JSON-compatible object.
func (c {{$c.Name}}) Dump() map[string]any {
	m := map[string]any{
{{- range $c.Required}}
		{{.Key}}: {{.Encode}},
{{- end}}
	}
{{- range $c.Optional}}
	if c.{{.Ident}} != nil {
		m[{{.Key}}] = {{.Encode}}
	}
{{- end}}
	return m
}
{{- end}}
`))

func (g Go) Render(r *model.Result) (string, error) {
	if err := checkDefaults(r); err != nil {
		return "", err
	}
	pkg := g.Package
	if pkg == "" {
		pkg = DefaultPackage
	}

	classes := r.Classes()
	views := make([]goClass, 0, len(classes))
	for _, c := range classes {
		views = append(views, goClassView(c))
	}

	var buf bytes.Buffer
	err := goTmpl.Execute(&buf, struct {
		Package string
		Helpers string
		Classes []goClass
	}{dialect.Identifier(pkg), goHelpers, views})
	if err != nil {
		return "", fmt.Errorf("go: execute template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("go: format output: %w", err)
	}
	return string(src), nil
}

func goClassView(c model.Class) goClass {
	idents := uniqueNames(c.Attributes, dialect.FieldName, "Dump")
	view := goClass{Name: c.Name}
	// building a Go field view cannot fail
	view.Fields, view.Required, view.Optional, _ = fields(c, func(a model.Attribute) (goField, error) {
		f := goField{
			Ident:    idents[a.Name],
			Key:      strconv.Quote(a.Name),
			Type:     dialect.Go{}.TypeName(a.Shape),
			Tag:      jsonTag(a.Name, a.HasDefault()),
			Optional: a.HasDefault(),
			Decoder:  goDecoder(a.Shape),
		}
		switch {
		case !f.Optional:
			f.Encode = goEncode(a.Shape, "c."+f.Ident)
		case a.Shape.Kind == model.KindObject:
			f.Encode = "c." + f.Ident + ".Dump()"
		default:
			f.Encode = goEncode(a.Shape, "*c."+f.Ident)
		}
		return f, nil
	})
	return view
}

func goDecoder(ref model.TypeRef) string {
	switch ref.Kind {
	case model.KindString:
		return "decodeString"
	case model.KindInteger:
		return "decodeInt"
	case model.KindNumber:
		return "decodeFloat"
	case model.KindObject:
		return "decodeObject(Load" + ref.Class + ")"
	default:
		return "decodeList(" + goDecoder(*ref.Elem) + ")"
	}
}

func goEncode(ref model.TypeRef, src string) string {
	switch {
	case ref.Scalar():
		return src
	case ref.Kind == model.KindObject:
		return src + ".Dump()"
	default:
		return goElemEncoder(*ref.Elem) + "(" + src + ")"
	}
}

// goElemEncoder returns the encoder for a list whose elements are ref. ref
// always holds a class somewhere below it.
func goElemEncoder(ref model.TypeRef) string {
	if ref.Kind == model.KindObject {
		return "encodeList(encodeObject[" + ref.Class + "])"
	}
	return "encodeList(" + goElemEncoder(*ref.Elem) + ")"
}

func jsonTag(key string, optional bool) string {
	if key == "" || strings.ContainsAny(key, "\"`,\\") {
		return ""
	}
	opt := ""
	if optional {
		opt = ",omitempty"
	}
	return "`json:\"" + key + opt + "\"`"
}
