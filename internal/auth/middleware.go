package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"decaptrack/internal/policy"
)

// JWTAuth rejects requests without a valid bearer token and injects the
// verified claims into the request context.
func JWTAuth(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "authentication_error", "missing bearer token")
				return
			}
			claims, err := m.Verify(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "authentication_error", "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequirePolicy gates a route group on the policy decision table.
func RequirePolicy(action policy.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !policy.Allowed(FromContext(r.Context()).Role, action) {
				writeAuthError(w, http.StatusForbidden, "authorization_error", "permission denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, code int, category, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": category, "message": message})
}
