package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/shopledger/shopledger/internal/auth"
	"github.com/shopledger/shopledger/internal/catalog"
	"github.com/shopledger/shopledger/internal/dashboard"
	"github.com/shopledger/shopledger/internal/expenses"
	"github.com/shopledger/shopledger/internal/observability"
	"github.com/shopledger/shopledger/internal/purchases"
	"github.com/shopledger/shopledger/internal/reports"
	"github.com/shopledger/shopledger/internal/returns"
	"github.com/shopledger/shopledger/internal/sales"
	"github.com/shopledger/shopledger/internal/shared"
	"github.com/shopledger/shopledger/internal/users"
	"github.com/shopledger/shopledger/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler      *auth.Handler
	UsersHandler     *users.Handler
	CatalogHandler   *catalog.Handler
	PurchasesHandler *purchases.Handler
	SalesHandler     *sales.Handler
	ReturnsHandler   *returns.Handler
	ExpensesHandler  *expenses.Handler
	DashboardHandler *dashboard.Handler
	ReportsHandler   *reports.Handler
	JobHandler       *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/auth", params.AuthHandler.Routes())

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth)

		r.Mount("/users", params.UsersHandler.Routes())
		r.Mount("/stocks", params.CatalogHandler.Routes())
		r.Mount("/purchases", params.PurchasesHandler.Routes())
		r.Mount("/sales", params.SalesHandler.Routes())
		r.Mount("/returns", params.ReturnsHandler.Routes())
		r.Mount("/expenses", params.ExpensesHandler.Routes())
		r.Mount("/dashboard", params.DashboardHandler.Routes())

		// PDF rendering is expensive, keep its budget separate from the global limit.
		r.Route("/reports", func(r chi.Router) {
			r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
			r.Mount("/", params.ReportsHandler.Routes())
		})

		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
