package schema

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Parse compiles schema text, checks its shape and decodes it into a node
// tree. The text may be JSON or CUE; JSON is accepted as-is because every JSON
// document is also valid CUE. Text that does not compile to a concrete
// document is tried as a YAML mapping before the CUE error is reported.
func Parse(data []byte) (Node, error) {
	v, doc, err := compileDocument(data)
	if err != nil {
		if converted, yerr := yamlToJSON(data); yerr == nil {
			if yv, ydoc, yerr := compileDocument(converted); yerr == nil {
				v, doc, err = yv, ydoc, nil
			}
		}
	}
	if err != nil {
		return nil, err
	}
	if err := Check(doc); err != nil {
		return nil, err
	}
	return Decode(v)
}

func compileDocument(data []byte) (cue.Value, []byte, error) {
	v, err := Compile(data)
	if err != nil {
		return cue.Value{}, nil, err
	}
	doc, err := v.MarshalJSON()
	if err != nil {
		return cue.Value{}, nil, &MalformedError{Message: "schema is not a concrete document", Err: err}
	}
	return v, doc, nil
}

// Compile turns schema text into a CUE value without checking its shape.
func Compile(data []byte) (cue.Value, error) {
	v := cuecontext.New().CompileBytes(data)
	if err := v.Err(); err != nil {
		return cue.Value{}, &MalformedError{Message: "cannot parse schema", Err: err}
	}
	return v, nil
}

// Decode walks a compiled CUE value into a node tree. Object properties are
// visited in the order they are declared in the source.
func Decode(v cue.Value) (Node, error) {
	return decodeNode(v, "")
}

func decodeNode(v cue.Value, ptr string) (Node, error) {
	if v.Kind() != cue.StructKind {
		return nil, malformedf(ptr, "schema node must be an object")
	}

	typ := lookup(v, "type")
	if !typ.Exists() {
		return nil, malformedf(ptr, `missing "type"`)
	}
	tag, err := typ.String()
	if err != nil {
		// Lists of tags and other non-string values are kept verbatim so the
		// analyzer can report them as unsupported.
		raw, merr := typ.MarshalJSON()
		if merr != nil {
			return nil, &MalformedError{Pointer: ptr, Message: `invalid "type"`, Err: merr}
		}
		return NewUnsupported(ptr, string(raw)), nil
	}

	switch tag {
	case "string":
		return NewString(ptr), nil
	case "integer":
		return NewInteger(ptr), nil
	case "number":
		return NewNumber(ptr), nil
	case "object":
		return decodeObject(v, ptr)
	case "array":
		items := lookup(v, "items")
		if !items.Exists() {
			return nil, malformedf(ptr, `array schema without "items"`)
		}
		item, err := decodeNode(items, Join(ptr, "items"))
		if err != nil {
			return nil, err
		}
		return NewArray(ptr, item), nil
	default:
		return NewUnsupported(ptr, tag), nil
	}
}

func decodeObject(v cue.Value, ptr string) (*Object, error) {
	obj := &Object{position: position{ptr}}

	if title := lookup(v, "title"); title.Exists() {
		s, err := title.String()
		if err != nil {
			return nil, &MalformedError{Pointer: Join(ptr, "title"), Message: "title must be a string", Err: err}
		}
		if s != "" {
			obj.Title = s
			obj.HasTitle = true
		}
	}

	if req := lookup(v, "required"); req.Exists() {
		iter, err := req.List()
		if err != nil {
			return nil, &MalformedError{Pointer: Join(ptr, "required"), Message: "required must be a list", Err: err}
		}
		for iter.Next() {
			s, err := iter.Value().String()
			if err != nil {
				return nil, &MalformedError{Pointer: Join(ptr, "required"), Message: "required entries must be strings", Err: err}
			}
			obj.Required = append(obj.Required, s)
		}
	}

	props := lookup(v, "properties")
	if !props.Exists() {
		return nil, malformedf(ptr, `object schema without "properties"`)
	}
	if props.Kind() != cue.StructKind {
		return nil, malformedf(Join(ptr, "properties"), "properties must be an object")
	}
	iter, err := props.Fields()
	if err != nil {
		return nil, &MalformedError{Pointer: Join(ptr, "properties"), Message: "cannot read properties", Err: err}
	}
	for iter.Next() {
		name := iter.Selector().Unquoted()
		child, err := decodeNode(iter.Value(), Join(ptr, "properties", name))
		if err != nil {
			return nil, err
		}
		obj.Properties = append(obj.Properties, Property{Name: name, Schema: child})
	}
	return obj, nil
}

func lookup(v cue.Value, key string) cue.Value {
	return v.LookupPath(cue.MakePath(cue.Str(key)))
}
