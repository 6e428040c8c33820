// Package server exposes the resolution pipeline as a small JSON API
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pika/pkg/model"
	"github.com/m-mizutani/pika/pkg/usecase/resolve"
	"github.com/m-mizutani/pika/pkg/utils/logging"
)

// Resolver is the single operation the HTTP boundary needs from the core
type Resolver interface {
	Resolve(ctx context.Context, input resolve.Input) (*resolve.Output, error)
}

// New returns an HTTP handler serving POST /chat
func New(uc Resolver) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/chat", &chatHandler{uc: uc})
	return mux
}

type chatHandler struct {
	uc Resolver
}

type chatRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string    `json:"session_id"`
	MessageID string    `json:"message_id"`
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Escalate  bool      `json:"escalate"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *chatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
		// fall through
	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	output, err := h.uc.Resolve(r.Context(), resolve.Input{
		UserID:    req.UserID,
		SessionID: model.SessionID(req.SessionID),
		Message:   req.Message,
	})
	if err != nil {
		if goerr.HasTag(err, resolve.ErrTagValidation) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		logging.From(r.Context()).Error("failed to resolve message", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID: string(output.SessionID),
		MessageID: string(output.MessageID),
		Reply:     output.Reply,
		Timestamp: output.Timestamp,
		Source:    string(output.Source),
		Escalate:  output.Escalate,
	})
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,X-Requested-With")
	w.Header().Set("Access-Control-Allow-Methods", "OPTIONS,POST,GET")
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
