package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/toolhub/pkg/constants"
)

// AuthConfig configures API-key authentication.
type AuthConfig struct {
	Enabled    bool
	APIKey     string
	HeaderName string

	// Protected decides whether a request needs a key. Nil protects
	// every request.
	Protected func(r *http.Request) bool
}

// DefaultAuthConfig returns a disabled configuration using X-API-Key.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{HeaderName: "X-API-Key"}
}

// Auth rejects protected requests without the configured key. An enabled
// config with an empty key rejects every protected request.
func Auth(config AuthConfig, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled || (config.Protected != nil && !config.Protected(r)) {
				next.ServeHTTP(w, r)
				return
			}

			key := extractAPIKey(r, config.HeaderName)
			if config.APIKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(config.APIKey)) != 1 {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Bool("key_provided", key != "").
					Msg("Authentication failed")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"data":null,"error":{"code":"UNAUTHORIZED","message":"` + constants.ErrMsgInvalidAPIKey +
					`","details":"Provide a valid API key in the ` + config.HeaderName + ` header"}}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractAPIKey reads the custom header, then a bearer token.
func extractAPIKey(r *http.Request, header string) string {
	if key := r.Header.Get(header); key != "" {
		return key
	}
	auth := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return auth
}
