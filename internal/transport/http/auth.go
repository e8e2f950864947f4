package http

import (
	"context"
	"net/http"
	"strings"

	"sigmsg/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type principalKey struct{}

type principal struct {
	UserID    domain.UserID
	SessionID domain.SessionID
}

func principalFrom(ctx context.Context) (principal, bool) {
	p, ok := ctx.Value(principalKey{}).(principal)
	return p, ok
}

// requireAuth validates the bearer access token and stashes the subject in
// the request context.
func (h *handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		userID, sessionID, err := h.svc.Tokens.VerifyAccess(r.Context(), strings.TrimSpace(token))
		if err != nil {
			http.Error(w, "invalid bearer token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), principalKey{}, principal{UserID: userID, SessionID: sessionID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireSelf restricts a /users/{id} subtree to the authenticated user.
func (h *handler) requireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFrom(r.Context())
		if !ok {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}
		if domain.UserID(id) != p.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
