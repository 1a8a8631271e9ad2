package middleware

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AdminTokenHeader carries the shared admin secret on mutating requests.
const AdminTokenHeader = "X-Admin-Token"

// AdminAuth gates every mutating endpoint. Two credentials are accepted:
// the shared secret in X-Admin-Token (compared in constant time), or a
// bearer token previously issued by POST /api/auth/token. It runs before
// any multipart parsing, so unauthenticated uploads are never read.
func AdminAuth(secret string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := r.Header.Get(AdminTokenHeader); token != "" {
				if TokenMatches(secret, token) {
					next.ServeHTTP(w, r)
					return
				}
				log.Warn("rejected admin request", "reason", "wrong shared token", "path", r.URL.Path)
				unauthorized(w)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenString := strings.TrimPrefix(authHeader, "Bearer ")
				token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
					if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
					}
					return []byte(secret), nil
				})
				if err == nil && token.Valid {
					next.ServeHTTP(w, r)
					return
				}
				log.Warn("rejected admin request", "reason", "invalid bearer token", "error", err, "path", r.URL.Path)
			}

			unauthorized(w)
		})
	}
}

// TokenMatches compares a presented token against the configured secret in
// constant time.
func TokenMatches(secret, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(secret), []byte(presented)) == 1
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
