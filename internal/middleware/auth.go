package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mmynk/expenses/internal/auth"
	"github.com/mmynk/expenses/pkg/api"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ClientKey is the context key for storing the authenticated client name.
const ClientKey contextKey = "client"

// GetClient extracts the client name from the context.
// Returns empty string if not found.
func GetClient(ctx context.Context) string {
	client, _ := ctx.Value(ClientKey).(string)
	return client
}

// RequireAuth returns a middleware that validates bearer JWTs.
// It extracts the token from the Authorization header, validates it, and adds
// the client name to the request context.
func RequireAuth(jwtManager *auth.JWTManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, auth.ErrMissingToken)
				return
			}

			// Parse Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), ClientKey, claims.Client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: err.Error()})
}
