package handler

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/invopop/jsonschema"

	"github.com/matthewbaird/schemagen/internal/history"
)

// payloads are the API types whose JSON Schemas are published.
var payloads = map[string]any{
	"generate_request":       &GenerateRequest{},
	"generate_response":      &GenerateResponse{},
	"create_session_request": &CreateSessionRequest{},
	"session":                &SessionResponse{},
	"run":                    &RunResponse{},
	"run_list":               &RunListResponse{},
	"run_stats":              &history.Summary{},
	"error":                  &ErrorResponse{},
}

// SchemaHandler publishes JSON Schemas of the API payloads. Schemas are
// inlined, so a titled object schema can be sent straight back to the
// generate endpoint.
type SchemaHandler struct {
	reflector *jsonschema.Reflector
}

// NewSchemaHandler creates a SchemaHandler.
func NewSchemaHandler() *SchemaHandler {
	return &SchemaHandler{reflector: &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}}
}

// ListSchemas handles GET /v1/schemas.
func (h *SchemaHandler) ListSchemas(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(payloads))
	for n := range payloads {
		names = append(names, n)
	}
	slices.Sort(names)
	writeJSON(w, http.StatusOK, map[string][]string{"schemas": names})
}

// GetSchema handles GET /v1/schemas/{name}.
func (h *SchemaHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	v, ok := payloads[strings.ToLower(name)]
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown schema: "+name)
		return
	}
	writeJSON(w, http.StatusOK, h.reflector.Reflect(v))
}
