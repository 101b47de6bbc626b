// Package middleware provides HTTP middleware shared across the API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/willowmere/hearth/internal/auth"
)

// RequireAuth validates the Bearer token and populates AuthContext. Requests
// without a valid token get a 401 JSON error.
func RequireAuth(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			ac, err := issuer.Verify(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken pulls the token from the Authorization header, or from the
// access_token query parameter for WebSocket upgrades where headers cannot be
// set by browser clients.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return tok
		}
		return ""
	}
	return r.URL.Query().Get("access_token")
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized"}`))
}
