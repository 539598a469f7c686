package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

var errNotMapping = errors.New("yaml document is not a mapping")

// yamlToJSON re-encodes a YAML document whose root is a mapping as JSON.
// Mapping keys keep their document order.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errNotMapping
	}
	var buf bytes.Buffer
	if err := writeYAMLNode(&buf, doc.Content[0], 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// maxYAMLDepth stops alias cycles and runaway nesting.
const maxYAMLDepth = 256

func writeYAMLNode(buf *bytes.Buffer, n *yaml.Node, depth int) error {
	if depth > maxYAMLDepth {
		return fmt.Errorf("yaml line %d: nesting too deep", n.Line)
	}
	switch n.Kind {
	case yaml.AliasNode:
		return writeYAMLNode(buf, n.Alias, depth+1)

	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return fmt.Errorf("yaml line %d: mapping keys must be scalars", key.Line)
			}
			if err := writeJSON(buf, key.Value); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeYAMLNode(buf, n.Content[i+1], depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, item := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeYAMLNode(buf, item, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case yaml.ScalarNode:
		return writeYAMLScalar(buf, n)
	}
	return fmt.Errorf("yaml line %d: unexpected node", n.Line)
}

func writeYAMLScalar(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.ShortTag() {
	case "!!null":
		buf.WriteString("null")
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return err
		}
		return writeJSON(buf, b)
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return err
		}
		return writeJSON(buf, i)
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("yaml line %d: %s has no JSON form", n.Line, n.Value)
		}
		return writeJSON(buf, f)
	}
	return writeJSON(buf, n.Value)
}

func writeJSON(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
