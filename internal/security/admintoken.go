package security

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AdminToken guards admin routes with a static bearer token. An empty token
// locks the routes entirely rather than leaving them open.
type AdminToken struct {
	Token string
}

// Middleware rejects requests whose Authorization header does not carry the
// configured token. Comparison is constant time.
func (a AdminToken) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.Token == "" {
			http.Error(w, "admin api disabled", http.StatusForbidden)
			return
		}
		auth := strings.TrimSpace(r.Header.Get("Authorization"))
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) {
			http.Error(w, "missing admin token", http.StatusUnauthorized)
			return
		}
		supplied := strings.TrimSpace(strings.TrimPrefix(auth, prefix))
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(a.Token)) != 1 {
			http.Error(w, "invalid admin token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
