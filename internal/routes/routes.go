package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/templui/smsgoals/internal/app"
	"github.com/templui/smsgoals/internal/handler"
	"github.com/templui/smsgoals/internal/middleware"
)

// SetupRoutes builds the HTTP surface. ctx bounds background helpers such as
// the rate limiter's cleanup loop.
func SetupRoutes(ctx context.Context, app *app.App) http.Handler {
	// Handlers
	sms := handler.NewSMSHandler(app.MessageService, app.SMSVerifier)
	register := handler.NewRegisterHandler(app.UserService, app.Cfg.AppName)
	admin := handler.NewAdminHandler(app.Scheduler)
	health := handler.NewHealthHandler(app.DB, app.GoalService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)

	// Registration (rate limited)
	rateLimiter := middleware.RateLimit(middleware.NewRateLimiter(ctx, 5, 15*time.Minute))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
	})
	mux.HandleFunc("GET /register", register.RegisterPage)
	mux.HandleFunc("POST /register", rateLimiter(register.Register))

	// ============================================================================
	// WEBHOOKS
	// ============================================================================

	// SMS gateway reply webhook (signature verified in the handler)
	mux.HandleFunc("POST /sms_reply", sms.Reply)

	// ============================================================================
	// ADMIN (bearer token)
	// ============================================================================

	requireAdmin := middleware.RequireAdmin(app.AuthService)
	mux.HandleFunc("GET /admin/jobs", requireAdmin(admin.ListJobs))
	mux.HandleFunc("POST /admin/jobs/{name}", requireAdmin(admin.RunJob))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Config(app.Cfg),
		middleware.NonceMiddleware, // Generate CSP nonce for each request (must be before SecurityHeaders)
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection, // CSRF protection for form posts
	)

	return handler
}
