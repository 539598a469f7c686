// Package model holds the intermediate representation produced by schema
// analysis and consumed by the renderers. It carries no reference back to the
// schema tree, so a Result can be rendered on its own.
package model

import "slices"

// TypeKind identifies the shape of a resolved schema type.
type TypeKind int

const (
	KindString TypeKind = iota
	KindInteger
	KindNumber
	KindObject
	KindArray
)

func (k TypeKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	}
	return "unknown"
}

// TypeRef is the structured form of a resolved type, before any optional
// wrapping. Class is set for objects, Elem for arrays.
type TypeRef struct {
	Kind  TypeKind `json:"kind"`
	Class string   `json:"class,omitempty"`
	Elem  *TypeRef `json:"elem,omitempty"`
}

// Primitive reports whether the type maps directly onto a host-language
// scalar without conversion.
func (t TypeRef) Primitive() bool {
	return t.Kind == KindString || t.Kind == KindInteger || t.Kind == KindNumber
}

// Scalar reports whether the type, including array element types, contains
// no class reference.
func (t TypeRef) Scalar() bool {
	switch t.Kind {
	case KindObject:
		return false
	case KindArray:
		return t.Elem != nil && t.Elem.Scalar()
	}
	return true
}

// LiteralKind identifies the type of a default value.
type LiteralKind int

const (
	LiteralNull LiteralKind = iota
	LiteralString
	LiteralInteger
	LiteralNumber
)

// Literal is a typed default value. Defaults are compared by value, never by
// their rendered text.
type Literal struct {
	Kind  LiteralKind `json:"kind"`
	Value any         `json:"value,omitempty"`
}

// Null returns the null literal.
func Null() *Literal {
	return &Literal{Kind: LiteralNull}
}

// Equal compares two literals by kind and value.
func (l Literal) Equal(o Literal) bool {
	if l.Kind != o.Kind {
		return false
	}
	if l.Kind == LiteralNull {
		return true
	}
	return l.Value == o.Value
}

// Attribute is one field of a generated class. Default is nil for required
// attributes.
type Attribute struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Shape   TypeRef  `json:"shape"`
	Default *Literal `json:"default,omitempty"`
}

// HasDefault reports whether the attribute is optional.
func (a Attribute) HasDefault() bool {
	return a.Default != nil
}

// Class is a generated record type.
type Class struct {
	Name       string      `json:"name"`
	Attributes []Attribute `json:"attributes"`
}

// NewClass builds a Class with attributes ordered required-first. The
// partition is stable, so each group keeps the order it was given in.
func NewClass(name string, attrs []Attribute) Class {
	ordered := slices.Clone(attrs)
	slices.SortStableFunc(ordered, func(a, b Attribute) int {
		switch {
		case !a.HasDefault() && b.HasDefault():
			return -1
		case a.HasDefault() && !b.HasDefault():
			return 1
		}
		return 0
	})
	return Class{Name: name, Attributes: ordered}
}

// Required returns the attributes without a default, in field order.
func (c Class) Required() []Attribute {
	var out []Attribute
	for _, a := range c.Attributes {
		if !a.HasDefault() {
			out = append(out, a)
		}
	}
	return out
}

// Optional returns the attributes with a default, in field order.
func (c Class) Optional() []Attribute {
	var out []Attribute
	for _, a := range c.Attributes {
		if a.HasDefault() {
			out = append(out, a)
		}
	}
	return out
}

// Attribute looks up an attribute by name.
func (c Class) Attribute(name string) (Attribute, bool) {
	for _, a := range c.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Result is the outcome of analysing one schema document.
type Result struct {
	Root      Class   `json:"root"`
	Auxiliary []Class `json:"auxiliary"`
}

// Classes returns every class in render order: root first, then auxiliary
// classes in discovery order.
func (r *Result) Classes() []Class {
	out := make([]Class, 0, 1+len(r.Auxiliary))
	out = append(out, r.Root)
	return append(out, r.Auxiliary...)
}

// ClassNames returns the names of Classes in the same order.
func (r *Result) ClassNames() []string {
	classes := r.Classes()
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.Name
	}
	return names
}
