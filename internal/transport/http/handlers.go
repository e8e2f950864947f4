package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"sigmsg/internal/domain"
	"sigmsg/internal/dto"
	"sigmsg/internal/observability/middleware"
	"sigmsg/internal/service/impl"
)

type handler struct {
	svc Services
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrMessageNotFound),
		errors.Is(err, domain.ErrNotOwner), // don't reveal other users' resources
		errors.Is(err, domain.ErrTokenNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrTokenConsumed):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrTokenExpired):
		status = http.StatusGone
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, impl.ErrValidation):
		status = http.StatusUnprocessableEntity
	}
	http.Error(w, err.Error(), status)
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	user, err := h.svc.Auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("user registered",
		"user_id", user.ID,
		"request_id", middleware.RequestIDFromContext(r.Context()),
	)
	writeJSON(w, http.StatusCreated, dto.NewUserResponse(user))
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	res, err := h.svc.Auth.Login(r.Context(), req, clientIP(r), r.UserAgent())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	res, err := h.svc.Tokens.Refresh(r.Context(), body.RefreshToken, clientIP(r), r.UserAgent())
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	if err := h.svc.Auth.Logout(r.Context(), p.SessionID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
