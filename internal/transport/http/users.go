package http

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"sigmsg/internal/dto"
	"sigmsg/internal/observability/middleware"
)

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	user, err := h.svc.Users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	user, err := h.svc.Users.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	deleted, err := h.svc.Users.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("user deleted",
		"user_id", id,
		"cascade", deleted,
		"request_id", middleware.RequestIDFromContext(r.Context()),
	)
	w.WriteHeader(http.StatusNoContent)
}

// verifyOTP answers GET /users/{id}/verify_otp?user[totp]=NNNNNN. An invalid
// code is a 200 with totp_valid=false; the token appears only on success.
func (h *handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	code := r.URL.Query().Get("user[totp]")
	if code == "" {
		code = r.URL.Query().Get("totp")
	}

	valid, token, err := h.svc.Challenges.Challenge(r.Context(), id, code)
	if err != nil {
		writeError(w, err)
		return
	}
	res := dto.VerifyOTPResponse{TOTPValid: valid}
	if valid {
		res.AuthenticationToken = &token
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) activateTOTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	var req dto.ActivateTOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := h.svc.Challenges.ActivateTOTP(r.Context(), id, req.AuthenticationToken); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("totp enrollment completed",
		"user_id", id,
		"request_id", middleware.RequestIDFromContext(r.Context()),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) otpProvisioning(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	res, err := h.svc.Challenges.Provisioning(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	// Raw PNG when the client asks for an image, JSON otherwise.
	if r.URL.Query().Get("format") == "png" {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.QRCode)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		URI    string `json:"uri"`
		QRCode string `json:"qrCode"`
	}{
		URI:    res.URI,
		QRCode: base64.StdEncoding.EncodeToString(res.QRCode),
	})
}

func (h *handler) listU2FRegistrations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	regs, err := h.svc.Users.ListU2FRegistrations(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, regs)
}
