package handler

import (
	"net/http"

	"github.com/matthewbaird/schemagen/internal/generator"
	"github.com/matthewbaird/schemagen/internal/history"
	"github.com/matthewbaird/schemagen/internal/service"
)

// GenerationHandler serves one-shot and session-scoped generation.
type GenerationHandler struct {
	svc *service.Service
}

// NewGenerationHandler creates a GenerationHandler.
func NewGenerationHandler(svc *service.Service) *GenerationHandler {
	return &GenerationHandler{svc: svc}
}

// Generate handles POST /v1/generate. Every call starts a fresh naming scope.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGenerateRequest(w, r)
	if !ok {
		return
	}
	run, out, err := h.svc.Generate(r.Context(), req)
	writeGeneration(w, run, out, err)
}

// GenerateInSession handles POST /v1/sessions/{id}/generate.
func (h *GenerationHandler) GenerateInSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	req, ok := decodeGenerateRequest(w, r)
	if !ok {
		return
	}
	run, out, err := h.svc.GenerateInSession(r.Context(), id, req)
	writeGeneration(w, run, out, err)
}

func decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (service.Request, bool) {
	var body GenerateRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return service.Request{}, false
	}
	text, err := service.SchemaText(body.Schema)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return service.Request{}, false
	}
	return service.Request{Schema: text, Target: body.Target, Package: body.Package}, true
}

func writeGeneration(w http.ResponseWriter, run history.Run, out *generator.Output, err error) {
	if err != nil {
		serviceErrorToHTTP(w, err, run.ID)
		return
	}
	writeJSON(w, http.StatusOK, GenerateResponse{
		RunID:     run.ID,
		SessionID: run.SessionID,
		Target:    out.Target,
		Classes:   out.Classes,
		Source:    out.Source,
	})
}
