// Package schema models the subset of JSON Schema understood by the generator
// and loads it from JSON or CUE text.
//
// A schema document is decoded into a small closed set of node variants:
//
//	"string"  -> *String
//	"integer" -> *Integer
//	"number"  -> *Number
//	"object"  -> *Object (title, ordered properties, required)
//	"array"   -> *Array  (items)
//	other     -> *Unsupported (raw type tag kept for error reporting)
//
// Keywords outside type, title, properties, required and items are ignored.
package schema

import "strings"

// Node is one value shape in a schema tree.
type Node interface {
	// Pointer is the location of the node in its document, e.g.
	// "/properties/address/properties/nr". The root is "".
	Pointer() string
	node()
}

type position struct {
	At string
}

func (p position) Pointer() string { return p.At }
func (position) node()             {}

// String is a "string" node.
type String struct{ position }

// Integer is an "integer" node.
type Integer struct{ position }

// Number is a "number" node.
type Number struct{ position }

// Property is a named member of an object node.
type Property struct {
	Name   string
	Schema Node
}

// Object is an "object" node. Properties keep document order.
type Object struct {
	position
	Title      string
	HasTitle   bool
	Properties []Property
	Required   []string
}

// IsRequired reports whether name is listed in the object's required array.
func (o *Object) IsRequired(name string) bool {
	for _, r := range o.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Property returns the schema of the named property.
func (o *Object) Property(name string) (Node, bool) {
	for _, p := range o.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// Array is an "array" node.
type Array struct {
	position
	Items Node
}

// Unsupported is a node whose type tag the generator does not handle, such as
// "boolean", "null" or a union written as a list of tags.
type Unsupported struct {
	position
	Type string
}

// NewString, NewInteger, NewNumber, NewObject, NewArray and NewUnsupported
// build nodes directly, mostly for callers that construct trees in code.

func NewString(at string) *String   { return &String{position{at}} }
func NewInteger(at string) *Integer { return &Integer{position{at}} }
func NewNumber(at string) *Number   { return &Number{position{at}} }

func NewObject(at string, props []Property, required ...string) *Object {
	return &Object{position: position{at}, Properties: props, Required: required}
}

func NewTitledObject(at, title string, props []Property, required ...string) *Object {
	o := NewObject(at, props, required...)
	o.Title = title
	o.HasTitle = true
	return o
}

func NewArray(at string, items Node) *Array {
	return &Array{position: position{at}, Items: items}
}

func NewUnsupported(at, typ string) *Unsupported {
	return &Unsupported{position: position{at}, Type: typ}
}

// Join appends reference tokens to a JSON pointer, escaping "~" and "/".
func Join(ptr string, tokens ...string) string {
	var b strings.Builder
	b.WriteString(ptr)
	for _, t := range tokens {
		b.WriteByte('/')
		t = strings.ReplaceAll(t, "~", "~0")
		b.WriteString(strings.ReplaceAll(t, "/", "~1"))
	}
	return b.String()
}

// displayPointer renders the root pointer readably in messages.
func displayPointer(ptr string) string {
	if ptr == "" {
		return "/"
	}
	return ptr
}
