// Package dialect maps the structured type model onto the type syntax of a
// target language.
package dialect

import (
	"errors"
	"strings"
	"unicode"

	"github.com/matthewbaird/schemagen/internal/model"
)

// Dialect renders type expressions and literals for one target language.
type Dialect interface {
	Name() string
	// TypeName renders a resolved, unwrapped type.
	TypeName(ref model.TypeRef) string
	// Optional wraps a rendered type as "optional of T".
	Optional(typeName string) string
	// Literal renders a default value.
	Literal(l model.Literal) (string, error)
	// ClassName turns a schema title into a class identifier.
	ClassName(title string) string
}

// ErrUnsupportedLiteral is returned for literal kinds a dialect cannot spell.
var ErrUnsupportedLiteral = errors.New("unsupported literal")

type spelling struct {
	str, integer, number string
	list                 func(elem string) string
}

func (s spelling) typeName(ref model.TypeRef) string {
	switch ref.Kind {
	case model.KindString:
		return s.str
	case model.KindInteger:
		return s.integer
	case model.KindNumber:
		return s.number
	case model.KindObject:
		return ref.Class
	case model.KindArray:
		if ref.Elem == nil {
			return s.list("")
		}
		return s.list(s.typeName(*ref.Elem))
	}
	return ""
}

// Identifier replaces every rune that cannot appear in an identifier with '_'
// and guards a leading digit. Valid identifiers are returned unchanged.
func Identifier(s string) string {
	if s == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

var registry = map[string]Dialect{
	"python": Python{},
	"go":     Go{},
}

// Lookup returns the dialect registered under name.
func Lookup(name string) (Dialect, bool) {
	d, ok := registry[name]
	return d, ok
}
