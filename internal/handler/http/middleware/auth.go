package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kapehan/cafe-workforce-backend-go/internal/handler/http/response"
)

// AuthRequired rejects requests whose context carries no verified access
// token. Stream tokens carry type "stream" and are only accepted by the SSE
// endpoint, so they fail here.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}

			if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
