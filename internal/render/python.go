package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/matthewbaird/schemagen/internal/dialect"
	"github.com/matthewbaird/schemagen/internal/model"
)

// Python renders attrs classes with a load classmethod and a dump method.
type Python struct{}

func (Python) Name() string { return "python" }

func (Python) Dialect() dialect.Dialect { return dialect.Python{} }

type pyField struct {
	Ident      string
	Key        string // quoted mapping key
	Type       string
	HasDefault bool
	Default    string
	Load       string
	Dump       string
}

type pyClass struct {
	Name     string
	Fields   []pyField
	Required []pyField
	Optional []pyField
}

var pythonTmpl = template.Must(template.New("python").Parse(`from __future__ import annotations

from typing import Any, Dict, List, Optional

import attr
{{range .}}

@attr.s(auto_attribs=True)
class {{.Name}}:
{{- range .Fields}}
    {{.Ident}}: {{.Type}}{{if .HasDefault}} = {{.Default}}{{end}}
{{- end}}

    @classmethod
    def load(cls, dictionary: Dict[str, Any]) -> {{.Name}}:
        return cls(
{{- range .Fields}}
            {{.Ident}}={{.Load}},
{{- end}}
        )

    def dump(self) -> Dict[str, Any]:
        result: Dict[str, Any] = {
{{- range .Required}}
            {{.Key}}: {{.Dump}},
{{- end}}
        }
{{- range .Optional}}
        if self.{{.Ident}} is not {{.Default}}:
            result[{{.Key}}] = {{.Dump}}
{{- end}}
        return result
{{end}}`))

func (p Python) Render(r *model.Result) (string, error) {
	if err := checkDefaults(r); err != nil {
		return "", err
	}
	classes := r.Classes()
	views := make([]pyClass, 0, len(classes))
	for _, c := range classes {
		v, err := p.class(c)
		if err != nil {
			return "", err
		}
		views = append(views, v)
	}

	var b strings.Builder
	if err := pythonTmpl.Execute(&b, views); err != nil {
		return "", fmt.Errorf("python: execute template: %w", err)
	}
	return b.String(), nil
}

func (Python) class(c model.Class) (pyClass, error) {
	idents := uniqueNames(c.Attributes, dialect.PythonFieldName, "load", "dump", "self")
	view := pyClass{Name: c.Name}
	var err error
	view.Fields, view.Required, view.Optional, err = fields(c, func(a model.Attribute) (pyField, error) {
		f := pyField{
			Ident: idents[a.Name],
			Key:   pyQuote(a.Name),
			Type:  a.Type,
		}
		access := "dictionary[" + f.Key + "]"
		f.Dump = pyDump(a.Shape, "self."+f.Ident, 0)
		if !a.HasDefault() {
			f.Load = pyLoad(a.Shape, access, 0)
			return f, nil
		}

		lit, err := dialect.Python{}.Literal(*a.Default)
		if err != nil {
			return pyField{}, err
		}
		f.HasDefault = true
		f.Default = lit
		if a.Shape.Primitive() {
			f.Load = fmt.Sprintf("%s if %s in dictionary else %s", access, f.Key, lit)
		} else {
			// null counts as absent once a conversion has to run
			f.Load = fmt.Sprintf("%s if dictionary.get(%s) is not None else %s", pyLoad(a.Shape, access, 0), f.Key, lit)
		}
		return f, nil
	})
	if err != nil {
		return pyClass{}, err
	}
	return view, nil
}

// pyLoad converts the raw value expression src into the attribute type.
func pyLoad(ref model.TypeRef, src string, depth int) string {
	switch {
	case ref.Scalar():
		return src
	case ref.Kind == model.KindObject:
		return ref.Class + ".load(" + src + ")"
	default:
		v := fmt.Sprintf("item%d", depth)
		return fmt.Sprintf("[%s for %s in %s]", pyLoad(*ref.Elem, v, depth+1), v, src)
	}
}

// pyDump converts an attribute value back into plain dictionaries and lists.
func pyDump(ref model.TypeRef, src string, depth int) string {
	switch {
	case ref.Scalar():
		return src
	case ref.Kind == model.KindObject:
		return src + ".dump()"
	default:
		v := fmt.Sprintf("item%d", depth)
		return fmt.Sprintf("[%s for %s in %s]", pyDump(*ref.Elem, v, depth+1), v, src)
	}
}

var pyEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

func pyQuote(s string) string {
	return "'" + pyEscaper.Replace(s) + "'"
}
