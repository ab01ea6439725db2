package mw

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// requestKey extracts the API key from the Authorization: Bearer header,
// falling back to X-API-Key.
func requestKey(header func(string) string) string {
	const bearerPrefix = "Bearer "
	if auth := header("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
		return auth[len(bearerPrefix):]
	}
	return header("X-API-Key")
}

func keyMatches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// RawAPIKeyAuth returns a Chi middleware for routes outside Huma, such as the
// WebSocket endpoint. An empty apiKey disables authentication.
func RawAPIKeyAuth(logger *slog.Logger, apiKey string) func(http.Handler) http.Handler {
	if apiKey == "" {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := requestKey(r.Header.Get)
			if key == "" {
				logger.Warn("API key missing",
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, "Unauthorized: API key required", http.StatusUnauthorized)
				return
			}
			if !keyMatches(key, apiKey) {
				logger.Warn("Invalid API key used",
					"key_prefix", keyPrefix(key),
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, "Unauthorized: invalid API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HumaAuth returns a Huma middleware enforcing the API key on operations that
// declare the SecurityScheme. Public operations pass through.
func HumaAuth(api huma.API, logger *slog.Logger, apiKey string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if apiKey == "" || !operationRequiresAuth(ctx.Operation()) {
			next(ctx)
			return
		}

		key := requestKey(ctx.Header)
		if key == "" {
			logger.Warn("API key missing", "operation", ctx.Operation().OperationID)
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "API key required")
			return
		}
		if !keyMatches(key, apiKey) {
			logger.Warn("Invalid API key used",
				"key_prefix", keyPrefix(key),
				"operation", ctx.Operation().OperationID,
			)
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid API key")
			return
		}
		next(ctx)
	}
}

// operationRequiresAuth reports whether op lists SecurityScheme.
func operationRequiresAuth(op *huma.Operation) bool {
	if op == nil {
		return false
	}
	for _, req := range op.Security {
		if _, ok := req[SecurityScheme]; ok {
			return true
		}
	}
	return false
}

// keyPrefix returns the first 4 characters of a key for safe logging.
func keyPrefix(key string) string {
	if len(key) >= 4 {
		return key[:4]
	}
	return key
}
