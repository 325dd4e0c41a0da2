package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/iotbase/iot-auth/pkg/identity"
)

// SessionAuthenticator is middleware that validates session tokens
type SessionAuthenticator struct {
	secret []byte
}

// NewSessionAuthenticator creates a new session middleware
func NewSessionAuthenticator(secret []byte) *SessionAuthenticator {
	return &SessionAuthenticator{secret: secret}
}

// Middleware returns an HTTP middleware that requires a valid
// "Authorization: Bearer <token>" header and stores the identity in the
// request context.
func (s *SessionAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "Authorization missing")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			unauthorized(w, "Malformed authorization header")
			return
		}

		id, err := identity.ParseToken(s.secret, strings.TrimSpace(token))
		if err != nil {
			unauthorized(w, "Invalid session token")
			return
		}
		id.WithRemoteIP(net.ParseIP(ClientIP(r)))

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

// ClientIP returns the first X-Forwarded-For address or the remote host.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
