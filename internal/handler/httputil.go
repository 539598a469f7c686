// Package handler implements the HTTP API.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matthewbaird/schemagen/internal/analyzer"
	"github.com/matthewbaird/schemagen/internal/history"
	"github.com/matthewbaird/schemagen/internal/schema"
	"github.com/matthewbaird/schemagen/internal/service"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON encode error: %v", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// parseUUID extracts and validates a UUID path parameter.
func parseUUID(w http.ResponseWriter, r *http.Request, paramName string) (string, bool) {
	raw := chi.URLParam(r, paramName)
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "invalid UUID: "+raw)
		return "", false
	}
	return id.String(), true
}

// Pagination holds parsed pagination parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination extracts page_size and offset from query params.
func parsePagination(r *http.Request) Pagination {
	p := Pagination{Limit: 20, Offset: 0}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Limit = n
		}
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			p.Offset = n
		}
	}
	return p
}

// statusFor maps a generation or service error to an HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindMalformed, service.KindUnknownTarget:
		return http.StatusBadRequest
	case service.KindUnsupportedType, service.KindUnsupportedDefault:
		return http.StatusUnprocessableEntity
	case service.KindSessionNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// serviceErrorToHTTP writes err with the status and details for its kind.
func serviceErrorToHTTP(w http.ResponseWriter, err error, runID string) {
	kind := service.Classify(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	}

	resp := ErrorResponse{Error: err.Error(), Code: string(kind), RunID: runID}
	var ute *analyzer.UnsupportedTypeError
	var me *schema.MalformedError
	switch {
	case errors.As(err, &ute):
		resp.Pointer = ute.Pointer
		resp.Suggestion = ute.Suggestion
	case errors.As(err, &me):
		resp.Pointer = me.Pointer
		resp.Violations = me.Violations
	}
	writeJSON(w, status, resp)
}

// historyErrorToHTTP maps history store errors to HTTP responses.
func historyErrorToHTTP(w http.ResponseWriter, err error) {
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	log.Printf("internal error: %v", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
