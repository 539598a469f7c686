package schema

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// shapeDocument describes the document shapes the decoder can walk. It does
// not restrict type tags: unsupported tags are reported by the analyzer with
// their location, not here.
const shapeDocument = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "tag": {
      "oneOf": [
        {"type": "string"},
        {"type": "array", "items": {"type": "string"}}
      ]
    },
    "node": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"$ref": "#/definitions/tag"},
        "title": {"type": "string"},
        "required": {"type": "array", "items": {"type": "string"}},
        "properties": {
          "type": "object",
          "additionalProperties": {"$ref": "#/definitions/node"}
        },
        "items": {"$ref": "#/definitions/node"}
      },
      "allOf": [
        {
          "if": {"properties": {"type": {"const": "object"}}},
          "then": {"required": ["properties"]}
        },
        {
          "if": {"properties": {"type": {"const": "array"}}},
          "then": {"required": ["items"]}
        }
      ]
    }
  },
  "allOf": [{"$ref": "#/definitions/node"}],
  "properties": {"type": {"const": "object"}}
}`

var shapeSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(shapeDocument))
})

// Check validates a JSON schema document against the subset of JSON Schema
// the generator understands. All violations are reported together.
func Check(doc []byte) error {
	s, err := shapeSchema()
	if err != nil {
		return fmt.Errorf("compiling shape schema: %w", err)
	}

	res, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return &MalformedError{Message: "cannot read schema document", Err: err}
	}
	if res.Valid() {
		return nil
	}

	violations := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		violations = append(violations, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return &MalformedError{
		Message:    "schema does not match the supported subset",
		Violations: violations,
	}
}
