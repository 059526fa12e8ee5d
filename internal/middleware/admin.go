package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/smsgoals/internal/ctxkeys"
	"github.com/templui/smsgoals/internal/service"
)

// RequireAdmin accepts only requests bearing a valid admin token. With no
// signing secret configured the admin routes answer 404.
func RequireAdmin(authService *service.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !authService.Enabled() {
				http.NotFound(w, r)
				return
			}

			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			subject, err := authService.VerifyAdminToken(raw)
			if err != nil {
				slog.Warn("admin token rejected", "ip", getClientIP(r), "error", err)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := ctxkeys.WithAdminSubject(r.Context(), subject)
			next(w, r.WithContext(ctx))
		}
	}
}
