package middleware

import (
	"context"
	"net/http"

	"github.com/NPierce1798/launchlens/internal/auth"
)

// RequireAuth validates the bearer token before any collaborator is called
// and injects the user id into the request context.
func RequireAuth(sessions *auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.BearerToken(r)
			if token == "" {
				http.Error(w, `{"error":"authorization header required"}`, http.StatusUnauthorized)
				return
			}

			userID, err := sessions.Get(r.Context(), token)
			if err != nil || userID == "" {
				http.Error(w, `{"error":"invalid authentication"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), auth.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
