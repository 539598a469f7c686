package dialect

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/matthewbaird/schemagen/internal/model"
)

// Go spells types as Go type expressions: string, int64, float64, []T and
// *T for optional values.
type Go struct{}

var goSpelling = spelling{
	str:     "string",
	integer: "int64",
	number:  "float64",
	list:    func(elem string) string { return "[]" + elem },
}

func (Go) Name() string { return "go" }

func (Go) TypeName(ref model.TypeRef) string { return goSpelling.typeName(ref) }

func (Go) Optional(typeName string) string { return "*" + typeName }

func (Go) ClassName(title string) string {
	id := Identifier(title)
	for goKeywords[id] || goGenerated[id] {
		id += "_"
	}
	return id
}

func (Go) Literal(l model.Literal) (string, error) {
	switch l.Kind {
	case model.LiteralNull:
		return "nil", nil
	case model.LiteralString:
		s, _ := l.Value.(string)
		return strconv.Quote(s), nil
	case model.LiteralInteger, model.LiteralNumber:
		return fmt.Sprint(l.Value), nil
	}
	return "", fmt.Errorf("go: %w kind %d", ErrUnsupportedLiteral, l.Kind)
}

// FieldName turns a property name into an exported Go field name:
// "street_nr" and "street-nr" both become "StreetNr".
func FieldName(property string) string {
	parts := strings.FieldsFunc(property, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, p := range parts {
		upper := strings.ToUpper(p)
		if commonInitialisms[upper] {
			b.WriteString(upper)
			continue
		}
		runes := []rune(p)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	name := b.String()
	if name == "" {
		return "Field"
	}
	if unicode.IsDigit([]rune(name)[0]) {
		return "F" + name
	}
	return name
}

var commonInitialisms = map[string]bool{
	"ID": true, "URL": true, "API": true, "HTTP": true, "JSON": true, "SQL": true, "UUID": true,
}

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// goGenerated holds the predeclared, package, helper and local names the
// generated code refers to. A type declared under one of them would shadow it.
var goGenerated = map[string]bool{
	"_": true, "any": true, "bool": true, "error": true, "float64": true, "int": true,
	"int64": true, "string": true, "nil": true, "true": true, "false": true,
	"make": true, "len": true, "fmt": true, "json": true, "math": true,
	"decodeString": true, "decodeInt": true, "decodeFloat": true, "decodeList": true,
	"decodeObject": true, "encodeObject": true, "encodeList": true,
	"c": true, "m": true, "v": true, "ok": true, "x": true, "err": true, "i": true,
	"n": true, "s": true, "T": true, "elem": true, "items": true, "item": true,
	"out": true, "xs": true, "zero": true, "load": true,
}
