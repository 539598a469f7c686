package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/matthewbaird/schemagen/internal/service"
)

// SessionHandler manages generation sessions over HTTP.
type SessionHandler struct {
	svc *service.Service
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(svc *service.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// CreateSession handles POST /v1/sessions. The body is optional.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if err := decodeJSON(r, &body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}
	sess, err := h.svc.CreateSession(r.Context(), body.Target, body.Package)
	if err != nil {
		serviceErrorToHTTP(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse(sess.Info()))
}

// GetSession handles GET /v1/sessions/{id}.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	sess, err := h.svc.Session(id)
	if err != nil {
		serviceErrorToHTTP(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sess.Info()))
}

// ResetSession handles POST /v1/sessions/{id}/reset.
func (h *SessionHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	info, err := h.svc.ResetSession(r.Context(), id)
	if err != nil {
		serviceErrorToHTTP(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(info))
}

// DeleteSession handles DELETE /v1/sessions/{id}.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.CloseSession(r.Context(), id); err != nil {
		serviceErrorToHTTP(w, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
