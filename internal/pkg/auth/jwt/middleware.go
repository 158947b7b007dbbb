package jwt

import (
	"context"
	"net/http"
	"strings"

	"teslo/internal/pkg/logx"
)

type contextKey string

const (
	// ContextAuthPayloadKey is the key under which the parsed *Payload is stored.
	ContextAuthPayloadKey contextKey = "auth_payload"

	// HandshakeHeader carries a raw token on WebSocket handshakes.
	HandshakeHeader = "Authentication"

	// QueryParam carries the token for clients that cannot set handshake headers.
	QueryParam = "token"
)

// ExtractToken reads the token from the Authentication header, then an
// "Authorization: Bearer" header, then the token query parameter.
func ExtractToken(r *http.Request) string {
	if raw := strings.TrimSpace(r.Header.Get(HandshakeHeader)); raw != "" {
		return raw
	}

	if bearer := bearerToken(r.Header.Get("Authorization")); bearer != "" {
		return bearer
	}

	return r.URL.Query().Get(QueryParam)
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// IdentityExtractorMiddleware parses an "Authorization: Bearer" token when present and
// stores the Payload in the request context. It never rejects a request; routes that need
// an identity enforce it themselves.
func IdentityExtractorMiddleware(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r.Header.Get("Authorization"))
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			payload, err := ParseToken(tokenString, secretKey)
			if err != nil {
				logx.Warn("Invalid or expired JWT provided, treating as anonymous", "error", err.Error())
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextAuthPayloadKey, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPayloadFromContext returns the authenticated Payload, or nil for anonymous requests.
func GetPayloadFromContext(r *http.Request) *Payload {
	payload, ok := r.Context().Value(ContextAuthPayloadKey).(*Payload)
	if !ok {
		return nil
	}

	return payload
}
