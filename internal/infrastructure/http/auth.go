package http

import (
	"context"
	"net/http"
)

// UserHeader carries the authenticated username, set by the identity
// collaborator in front of this service. The core never authenticates; it
// trusts the identity passed in.
const UserHeader = "X-User"

// AuthMiddleware rejects requests without an authenticated user and places
// the username in the request context for the handlers.
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := r.Header.Get(UserHeader)
		if user == "" {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), "user", user)
		next(w, r.WithContext(ctx))
	}
}

// UserFromContext returns the authenticated username, empty when absent.
func UserFromContext(ctx context.Context) string {
	user, _ := ctx.Value("user").(string)
	return user
}
