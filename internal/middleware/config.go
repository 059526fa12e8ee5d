package middleware

import (
	"net/http"

	"github.com/templui/smsgoals/internal/config"
	"github.com/templui/smsgoals/internal/ctxkeys"
)

// Config middleware adds the sanitized app configuration to the request context.
// Secrets like API keys and the admin signing key are excluded.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), cfg.Sanitized())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
