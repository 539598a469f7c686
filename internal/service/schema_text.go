package service

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrEmptySchema is returned by SchemaText when no schema was sent.
var ErrEmptySchema = errors.New("schema is required")

// SchemaText extracts schema source from a request field. The field holds
// either the schema document itself or a string with JSON or CUE source.
func SchemaText(raw json.RawMessage) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrEmptySchema
	}
	if raw[0] != '"' {
		return raw, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, ErrEmptySchema
	}
	return []byte(text), nil
}
