package routes

import (
	"net/http"

	"github.com/templui/fittrack/internal/app"
	"github.com/templui/fittrack/internal/handler"
	"github.com/templui/fittrack/internal/metrics"
	"github.com/templui/fittrack/internal/middleware"
)

const catchAll = "/{path...}"

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	activity := handler.NewActivityHandler(app.ActivityService)

	mux := http.NewServeMux()

	// ============================================================================
	// OPERATIONS
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.Handle("GET /metrics", metrics.Handler())

	// ============================================================================
	// AUTH (/api/*)
	// ============================================================================

	handle(mux, "POST /api/register", auth.Register)
	handle(mux, "POST /api/login", auth.Login)
	handle(mux, "POST /api/logout", middleware.RequireAuth(auth.Logout))
	handle(mux, "GET /api/me", middleware.RequireAuth(auth.Me))

	// ============================================================================
	// ACTIVITIES (/api/activities/*)
	// ============================================================================

	handle(mux, "GET /api/activities", middleware.RequireAuth(activity.List))
	handle(mux, "POST /api/activities", middleware.RequireAuth(activity.Create))
	handle(mux, "GET /api/activities/summary", middleware.RequireAuth(activity.Summary))
	handle(mux, "GET /api/activities/export", middleware.RequireAuth(activity.Export))
	handle(mux, "GET /api/activities/{id}", middleware.RequireAuth(activity.Get))
	handle(mux, "PUT /api/activities/{id}", middleware.RequireAuth(activity.Update))
	handle(mux, "PATCH /api/activities/{id}", middleware.RequireAuth(activity.PartialUpdate))
	handle(mux, "DELETE /api/activities/{id}", middleware.RequireAuth(activity.Delete))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 405 for known paths, 404 otherwise
	mux.HandleFunc(catchAll, handler.Fallback(mux, catchAll))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging(mux), // Outermost so recovered panics are logged as 500
		middleware.Recover,
		middleware.CORS(app.Cfg.CORSAllowedOrigins),
		middleware.TokenAuth(app.AuthService),
	)
}

// handle registers a route under both its bare and trailing-slash forms. The
// trailing-slash form matches exactly ({$}) so it never swallows sub-paths.
func handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, h)
	mux.HandleFunc(pattern+"/{$}", h)
}
