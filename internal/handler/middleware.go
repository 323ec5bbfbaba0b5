package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/loanbridge/backend/internal/service"
)

type contextKey string

const applicationIDContextKey contextKey = "application_id"

// AuthMiddleware validates the Bearer session token and stores the
// application ID it is scoped to in the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respondError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		applicationID, err := service.ValidateToken(parts[1])
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), applicationIDContextKey, applicationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetApplicationID returns the application ID bound to the session, or
// uuid.Nil when the request is unauthenticated.
func GetApplicationID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(applicationIDContextKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
