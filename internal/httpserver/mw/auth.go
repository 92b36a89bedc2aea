package mw

import (
	"context"
	"net/http"
	"strings"
)

// TokenResolver maps an opaque bearer token to an owner ID.
type TokenResolver interface {
	UserIDForToken(token string) (string, error)
}

type ctxKey int

const ownerKey ctxKey = iota

// Auth returns a middleware that requires a valid bearer token and stashes
// the resolved owner ID in the request context. Missing or bad credentials
// answer 401 before the handler runs.
func Auth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
				return
			}
			ownerID, err := resolver.UserIDForToken(token)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey, ownerID)))
		})
	}
}

// Owner returns the owner ID stashed by Auth, or "" outside an authenticated
// request.
func Owner(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey).(string)
	return owner
}
