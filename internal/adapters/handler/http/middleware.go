package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
	"github.com/vncsmyrnk/elecciones/internal/logger"
)

type contextKey string

const (
	SessionIDKey contextKey = "session_id"

	sessionCookieName = "voter_session"
)

// RequireSession resolves the session cookie (or a bearer token) and stores
// the session id in the request context.
func RequireSession(sessions ports.SessionService, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing_session", "Unauthorized: missing voter session")
				return
			}

			sessionID, err := sessions.Authenticate(token)
			if err != nil {
				respondError(w, log, err)
				return
			}

			ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

func sessionIDFrom(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(SessionIDKey).(uuid.UUID)
	return id, ok
}
