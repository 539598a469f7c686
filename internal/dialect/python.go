package dialect

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/matthewbaird/schemagen/internal/model"
)

// Python spells types with the typing module: str, int, float, List[T],
// Optional[T].
type Python struct{}

var pythonSpelling = spelling{
	str:     "str",
	integer: "int",
	number:  "float",
	list:    func(elem string) string { return "List[" + elem + "]" },
}

func (Python) Name() string { return "python" }

func (Python) TypeName(ref model.TypeRef) string { return pythonSpelling.typeName(ref) }

func (Python) Optional(typeName string) string { return "Optional[" + typeName + "]" }

func (Python) ClassName(title string) string {
	id := Identifier(title)
	for pythonKeywords[id] || pythonHeaderNames[id] {
		id += "_"
	}
	return id
}

// PythonFieldName turns a property name into an attribute identifier that
// attrs accepts as an __init__ argument unchanged. attrs strips leading
// underscores from argument names, so none are emitted: "_id" becomes "id"
// and "1st-address" becomes "f_1st_address".
func PythonFieldName(s string) string {
	id := strings.TrimLeft(Identifier(s), "_")
	switch {
	case id == "":
		return "field"
	case unicode.IsDigit([]rune(id)[0]):
		id = "f_" + id
	}
	if pythonKeywords[id] {
		return id + "_"
	}
	return id
}

func (Python) Literal(l model.Literal) (string, error) {
	switch l.Kind {
	case model.LiteralNull:
		return "None", nil
	case model.LiteralString:
		s, _ := l.Value.(string)
		return strconv.Quote(s), nil
	case model.LiteralInteger, model.LiteralNumber:
		return fmt.Sprint(l.Value), nil
	}
	return "", fmt.Errorf("python: %w kind %d", ErrUnsupportedLiteral, l.Kind)
}

var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true, "assert": true,
	"async": true, "await": true, "break": true, "class": true, "continue": true,
	"def": true, "del": true, "elif": true, "else": true, "except": true, "finally": true,
	"for": true, "from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true, "pass": true,
	"raise": true, "return": true, "try": true, "while": true, "with": true, "yield": true,
}

// pythonHeaderNames are bound by the generated header; a class of the same
// name would rebind them for every class declared after it.
var pythonHeaderNames = map[string]bool{
	"annotations": true, "attr": true, "Any": true, "Dict": true, "List": true, "Optional": true,
}
