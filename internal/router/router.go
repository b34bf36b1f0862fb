package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gridbase/sheets-backend/internal/handlers"
	"github.com/gridbase/sheets-backend/internal/middleware"
)

// NewRouter wires the full API surface. The webhook stays outside the
// auth group: the identity provider signs its deliveries instead of
// sending a bearer token.
func NewRouter(deps *handlers.Deps, authmw *middleware.Middleware, extractRPS float64) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)

	wh := handlers.NewWebhookHandlers(deps)
	r.Post("/clerk-webhook", wh.HandleIdentityWebhook)

	ush := handlers.NewUserHandlers(deps)
	prh := handlers.NewProjectHandlers(deps)
	chh := handlers.NewChartHandlers(deps)
	ssh := handlers.NewSpreadsheetHandlers(deps)
	dbh := handlers.NewDashboardHandlers(deps)
	ath := handlers.NewAirtableHandlers(deps)
	exh := handlers.NewExtractHandlers(deps)

	extractLimiter := middleware.NewRateLimitMiddleware(extractRPS, 2)

	r.Group(func(r chi.Router) {
		r.Use(authmw.Auth)

		r.Mount("/users", ush.UserRoutes())
		r.Mount("/projects", prh.ProjectRoutes())
		r.Mount("/spreadsheets", ssh.SpreadsheetRoutes(chh))
		r.Mount("/dashboards", dbh.DashboardRoutes())
		r.Mount("/airtable", ath.AirtableRoutes())
		r.With(extractLimiter.Limit).Post("/api/extract-tables", exh.ExtractTables)
	})

	return r
}

// NewWebhookRouter serves only the identity webhook, for the deployment
// that handles user lifecycle events and nothing else.
func NewWebhookRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)

	wh := handlers.NewWebhookHandlers(deps)
	r.Post("/clerk-webhook", wh.HandleIdentityWebhook)
	return r
}
