// Package analyzer walks a schema tree and builds the type model: one root
// class for the top-level object plus an auxiliary class for every nested
// object schema met on the way down.
//
// Type resolution:
//
//	"string"  -> primitive string
//	"integer" -> primitive integer
//	"number"  -> primitive floating point
//	"object"  -> new class (titled, or DataClass<k> from the Scope)
//	"array"   -> sequence of the resolved items type
//	other     -> *UnsupportedTypeError, nothing is produced
//
// Properties missing from "required" become optional with a null default.
package analyzer

import (
	"github.com/matthewbaird/schemagen/internal/dialect"
	"github.com/matthewbaird/schemagen/internal/model"
	"github.com/matthewbaird/schemagen/internal/schema"
)

// Analyzer builds type models with the type syntax of one dialect.
type Analyzer struct {
	dialect dialect.Dialect
}

// New creates an Analyzer that renders type expressions with d.
func New(d dialect.Dialect) *Analyzer {
	return &Analyzer{dialect: d}
}

// Dialect returns the dialect used for type expressions.
func (a *Analyzer) Dialect() dialect.Dialect {
	return a.dialect
}

// Analyze compiles a root object schema. Untitled objects draw their names
// from scope; a nil scope means a fresh one. The scope only advances when the
// compilation succeeds.
func (a *Analyzer) Analyze(root schema.Node, scope *Scope) (*model.Result, error) {
	obj, ok := root.(*schema.Object)
	if !ok {
		return nil, &schema.MalformedError{Pointer: pointerOf(root), Message: "root schema must be an object"}
	}
	if scope == nil {
		scope = NewScope()
	}

	work := scope.fork()
	class, aux, err := a.object(obj, work)
	if err != nil {
		return nil, err
	}
	scope.commit(work)

	return &model.Result{Root: class, Auxiliary: aux}, nil
}

// object builds the class for an object node and returns it with the classes
// its properties produced, in contribution order.
func (a *Analyzer) object(obj *schema.Object, scope *Scope) (model.Class, []model.Class, error) {
	var name string
	if obj.HasTitle {
		name = a.dialect.ClassName(obj.Title)
	} else {
		name = scope.Next()
	}

	attrs := make([]model.Attribute, 0, len(obj.Properties))
	var aux []model.Class
	for _, prop := range obj.Properties {
		ref, created, err := a.resolve(prop.Schema, scope)
		if err != nil {
			return model.Class{}, nil, err
		}

		attr := model.Attribute{
			Name:  prop.Name,
			Type:  a.dialect.TypeName(ref),
			Shape: ref,
		}
		if !obj.IsRequired(prop.Name) {
			attr.Type = a.dialect.Optional(attr.Type)
			attr.Default = model.Null()
		}
		attrs = append(attrs, attr)
		aux = append(aux, created...)
	}

	return model.NewClass(name, attrs), aux, nil
}

// resolve maps a schema node to a type, returning any classes created while
// resolving it.
func (a *Analyzer) resolve(n schema.Node, scope *Scope) (model.TypeRef, []model.Class, error) {
	switch n := n.(type) {
	case *schema.String:
		return model.TypeRef{Kind: model.KindString}, nil, nil
	case *schema.Integer:
		return model.TypeRef{Kind: model.KindInteger}, nil, nil
	case *schema.Number:
		return model.TypeRef{Kind: model.KindNumber}, nil, nil
	case *schema.Object:
		class, created, err := a.object(n, scope)
		if err != nil {
			return model.TypeRef{}, nil, err
		}
		return model.TypeRef{Kind: model.KindObject, Class: class.Name}, append([]model.Class{class}, created...), nil
	case *schema.Array:
		elem, created, err := a.resolve(n.Items, scope)
		if err != nil {
			return model.TypeRef{}, nil, err
		}
		return model.TypeRef{Kind: model.KindArray, Elem: &elem}, created, nil
	case *schema.Unsupported:
		return model.TypeRef{}, nil, newUnsupported(n.Type, n.Pointer())
	default:
		return model.TypeRef{}, nil, &schema.MalformedError{Pointer: pointerOf(n), Message: "unknown schema node"}
	}
}

func pointerOf(n schema.Node) string {
	if n == nil {
		return ""
	}
	return n.Pointer()
}
