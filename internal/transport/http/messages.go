package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"sigmsg/internal/dto"
	"sigmsg/internal/observability/middleware"
)

func (h *handler) createMessage(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	var req dto.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	msg, err := h.svc.Messages.Create(r.Context(), p.UserID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewMessageResponse(msg))
}

func (h *handler) listMessages(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	msgs, err := h.svc.Messages.List(r.Context(), p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, dto.NewMessageResponse(&msgs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) getMessage(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid message id", http.StatusBadRequest)
		return
	}
	msg, err := h.svc.Messages.Get(r.Context(), p.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewMessageResponse(msg))
}

// patchMessage is the signing operation: the body carries the single-use
// authentication token minted by a successful second-factor challenge.
func (h *handler) patchMessage(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid message id", http.StatusBadRequest)
		return
	}
	var req dto.PatchMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !req.Message.Authenticated {
		http.Error(w, "nothing to update", http.StatusUnprocessableEntity)
		return
	}

	// Ownership first, so a stranger gets a 404 before any token handling.
	if _, err := h.svc.Messages.Get(r.Context(), p.UserID, id); err != nil {
		writeError(w, err)
		return
	}

	msg, err := h.svc.Messages.AuthenticateAndSign(r.Context(), id, req.Message.AuthenticationToken)
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("message authenticated",
		"message_id", msg.ID,
		"user_id", msg.UserID,
		"request_id", middleware.RequestIDFromContext(r.Context()),
	)
	writeJSON(w, http.StatusOK, dto.NewMessageResponse(msg))
}

func (h *handler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid message id", http.StatusBadRequest)
		return
	}
	if err := h.svc.Messages.Delete(r.Context(), p.UserID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
