package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bryanwahyu/journey-within/internal/domain/session"
)

type contextKey string

const SessionKey contextKey = "session"

// SessionAuth resolves "Authorization: Bearer <token>" to a user session.
// tokens maps user id to its session token.
func SessionAuth(tokens map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := strings.TrimSpace(r.Header.Get("Authorization"))
			if auth == "" {
				Unauthorized(w, "missing Authorization header")
				return
			}

			// Support both "Bearer <token>" and "<token>" formats
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				Unauthorized(w, "invalid Authorization header format")
				return
			}

			// constant-time comparison
			var userID string
			for u, t := range tokens {
				if subtle.ConstantTimeCompare([]byte(token), []byte(t)) == 1 {
					userID = u
					break
				}
			}
			if userID == "" {
				Unauthorized(w, "invalid session")
				return
			}

			ctx := WithSession(r.Context(), session.Session{UserID: userID, Token: token})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Unauthorized tells the client to go back to the sign-in page.
func Unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg, "redirect": "/"})
}

func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

// GetUserFromContext extracts user id from context
func GetUserFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(SessionKey).(session.Session); ok {
		return s.UserID
	}
	return ""
}

// ContextSessions implements session.Provider over the request context.
type ContextSessions struct{}

func (ContextSessions) Current(ctx context.Context) (session.Session, error) {
	s, ok := ctx.Value(SessionKey).(session.Session)
	if !ok || s.UserID == "" {
		return session.Session{}, session.ErrNoSession
	}
	return s, nil
}
