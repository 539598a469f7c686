package wire

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/matthewbaird/schemagen/internal/history"
	"github.com/matthewbaird/schemagen/internal/service"
	"github.com/matthewbaird/schemagen/internal/session"
)

// Handler manages WebSocket generation sessions.
type Handler struct {
	svc  *service.Service
	runs history.Store
}

// NewHandler creates a WebSocket handler.
func NewHandler(svc *service.Service, runs history.Store) *Handler {
	return &Handler{svc: svc, runs: runs}
}

// ServeHTTP upgrades to WebSocket and runs the message loop. The "target"
// and "package" query parameters set the session defaults.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sess, err := h.svc.CreateSession(r.Context(), q.Get("target"), q.Get("package"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("wire: websocket accept: %v", err)
		_ = h.svc.CloseSession(context.Background(), sess.ID)
		return
	}
	defer conn.CloseNow()
	defer func() { _ = h.svc.CloseSession(context.Background(), sess.ID) }()

	ctx := r.Context()
	h.send(ctx, conn, ServerMessage{Type: "session", Data: sessionData(sess.Info())})

	for {
		var msg ClientMessage
		err := wsjson.Read(ctx, conn, &msg)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("wire: connection closed: %v", websocket.CloseStatus(err))
			}
			return
		}
		sess.Touch()

		switch msg.Type {
		case "generate":
			h.handleGenerate(ctx, conn, sess, msg)
		case "reset":
			h.handleReset(ctx, conn, sess, msg)
		case "history":
			h.handleHistory(ctx, conn, sess, msg)
		case "ping":
			h.send(ctx, conn, ServerMessage{Type: "pong", RequestID: msg.ID})
		default:
			h.sendError(ctx, conn, msg.ID, "unknown_type", fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

func (h *Handler) handleGenerate(ctx context.Context, conn *websocket.Conn, sess *session.Session, msg ClientMessage) {
	var data GenerateData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid generate data")
		return
	}
	text, err := service.SchemaText(data.Schema)
	if err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", err.Error())
		return
	}

	run, out, err := h.svc.GenerateInSession(ctx, sess.ID, service.Request{
		Schema:  text,
		Target:  data.Target,
		Package: data.Package,
	})
	if err != nil {
		h.send(ctx, conn, ServerMessage{
			Type:      "error",
			RequestID: msg.ID,
			Data: ErrorData{
				Code:    string(service.Classify(err)),
				Message: err.Error(),
				RunID:   run.ID,
			},
		})
		return
	}

	h.send(ctx, conn, ServerMessage{
		Type:      "result",
		RequestID: msg.ID,
		Data: ResultData{
			RunID:   run.ID,
			Target:  out.Target,
			Classes: out.Classes,
			Source:  out.Source,
		},
	})
}

func (h *Handler) handleReset(ctx context.Context, conn *websocket.Conn, sess *session.Session, msg ClientMessage) {
	info, err := h.svc.ResetSession(ctx, sess.ID)
	if err != nil {
		h.sendError(ctx, conn, msg.ID, string(service.Classify(err)), err.Error())
		return
	}
	h.send(ctx, conn, ServerMessage{Type: "session", RequestID: msg.ID, Data: sessionData(info)})
}

func (h *Handler) handleHistory(ctx context.Context, conn *websocket.Conn, sess *session.Session, msg ClientMessage) {
	var req HistoryRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid history data")
			return
		}
	}

	opts := history.DefaultQueryOptions()
	opts.SessionID = sess.ID
	if req.Limit > 0 {
		opts.Limit = req.Limit
	}
	runs, total, err := h.runs.List(ctx, opts)
	if err != nil {
		log.Printf("wire: listing runs: %v", err)
		h.sendError(ctx, conn, msg.ID, "internal", "could not list runs")
		return
	}
	h.send(ctx, conn, ServerMessage{
		Type:      "history",
		RequestID: msg.ID,
		Data:      HistoryData{Runs: runs, Total: total},
	})
}

func sessionData(info session.Info) SessionData {
	return SessionData{
		SessionID: info.ID,
		Target:    info.Target,
		Package:   info.Package,
		LastClass: info.LastClass,
	}
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		log.Printf("wire: write error: %v", err)
	}
}

func (h *Handler) sendError(ctx context.Context, conn *websocket.Conn, requestID, code, message string) {
	h.send(ctx, conn, ServerMessage{
		Type:      "error",
		RequestID: requestID,
		Data: ErrorData{
			Code:    code,
			Message: message,
		},
	})
}
