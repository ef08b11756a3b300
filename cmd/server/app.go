package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"github.com/diewo77/condo-admin/auth"
	"github.com/diewo77/condo-admin/gate"
	"github.com/diewo77/condo-admin/httpx"
	"github.com/diewo77/condo-admin/i18n"
	"github.com/diewo77/condo-admin/internal/api"
	"github.com/diewo77/condo-admin/internal/config"
	"github.com/diewo77/condo-admin/internal/handlers"
	"github.com/diewo77/condo-admin/internal/logging"
	"github.com/diewo77/condo-admin/internal/metrics"
	"github.com/diewo77/condo-admin/internal/policy"
	"github.com/diewo77/condo-admin/internal/scope"
	"github.com/diewo77/condo-admin/internal/services"
	"github.com/diewo77/condo-admin/internal/session"
	"github.com/diewo77/condo-admin/view"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux      *http.ServeMux
	handler  http.Handler
	cfg      *config.Config
	db       *gorm.DB
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	api      *api.Services
	sessions *session.Provider
	scope    *scope.Resolver
	gate     *policy.Gate
}

// NewApp wires the backend client, session store, scope resolver and
// permission gate, then registers every route.
func NewApp(cfg *config.Config, db *gorm.DB) *App {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	svc := api.NewServices(api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, m))
	app := &App{
		mux:      http.NewServeMux(),
		cfg:      cfg,
		db:       db,
		registry: registry,
		metrics:  m,
		api:      svc,
		sessions: session.NewProvider(db, svc.Auth, session.Options{
			TokenKey: cfg.Session.TokenKey,
			TTL:      cfg.Session.TTL,
			Refresh:  cfg.Session.Refresh,
			Metrics:  m,
		}),
		scope: scope.NewResolver(svc.Buildings, cfg.Scope.CacheSize, cfg.Scope.CacheTTL, m),
		gate:  policy.NewGate(),
	}

	// Templates check permissions through callbacks so the view package
	// stays free of policy types.
	view.SetCanResolver(func(r *http.Request, resource, action string) bool {
		return app.gate.FromRequest(r).CanIn(resource, gate.Action(action), "")
	})
	view.SetIsAdminResolver(func(r *http.Request) bool {
		return app.gate.FromRequest(r).IsSuperAdmin()
	})
	view.SetDefaultsResolver(pageDefaults)

	app.setupRoutes()
	app.handler = app.middleware(app.mux)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// middleware builds the global chain. Metrics sit closest to the mux so the
// matched pattern is visible to them.
func (a *App) middleware(mux http.Handler) http.Handler {
	h := metrics.Middleware(a.metrics)(mux)
	h = a.scope.Middleware(a.sessions)(h)
	h = a.sessions.Middleware(h)
	h = auth.Middleware(h)
	h = a.withPreferences(h)
	h = logging.Middleware(h)
	h = logging.Recover(h)
	if len(a.cfg.Server.CORSOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins:   a.cfg.Server.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           600,
		}).Handler(h)
	}
	return h
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	ah := handlers.NewAuthHandler(a.sessions)
	a.mux.HandleFunc("GET /login", ah.LoginPage)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("GET /logout", ah.Logout)
	a.mux.HandleFunc("POST /logout", ah.Logout)
	a.mux.HandleFunc("GET /health", a.health)
	a.mux.Handle("GET /metrics", metrics.Handler(a.registry))

	// ─────────────────────────────────────────────────────────────────────────
	// Signed-in routes
	// ─────────────────────────────────────────────────────────────────────────
	dh := handlers.NewDashboardHandler(services.NewDashboardService(a.api.Buildings, a.api.Users, a.api.Billing, a.api.Payments))
	a.mux.Handle("GET /{$}", a.requireAuth(http.HandlerFunc(dh.Home)))
	a.mux.Handle("GET /dashboard", a.requireAuth(http.HandlerFunc(dh.Show)))
	a.mux.Handle("POST /scope", a.requireAuth(http.HandlerFunc(handlers.NewScopeHandler(a.sessions).Select)))

	// ─────────────────────────────────────────────────────────────────────────
	// Buildings and units
	// ─────────────────────────────────────────────────────────────────────────
	bh := handlers.NewBuildingHandler(a.sessions, a.api.Buildings, a.scope)
	inPath := policy.PathBuilding("id")
	a.mux.Handle("GET /buildings",
		a.requirePermission(policy.ResourceBuilding, gate.ActionList, policy.SelectedBuilding, bh.List))
	a.mux.Handle("GET /buildings/new", a.requireAdmin(bh.New))
	a.mux.Handle("POST /buildings", a.requireAdmin(bh.Create))
	a.mux.Handle("GET /buildings/{id}",
		a.requirePermission(policy.ResourceBuilding, gate.ActionView, inPath, bh.Show))
	a.mux.Handle("GET /buildings/{id}/edit",
		a.requirePermission(policy.ResourceBuilding, gate.ActionUpdate, inPath, bh.Edit))
	a.mux.Handle("POST /buildings/{id}",
		a.requirePermission(policy.ResourceBuilding, gate.ActionUpdate, inPath, bh.Update))
	a.mux.Handle("POST /buildings/{id}/delete", a.requireAdmin(bh.Delete))
	a.mux.Handle("GET /buildings/{id}/units",
		a.requirePermission(policy.ResourceUnit, gate.ActionList, inPath, bh.Units))
	a.mux.Handle("POST /buildings/{id}/units",
		a.requirePermission(policy.ResourceUnit, gate.ActionCreate, inPath, bh.CreateUnit))

	// ─────────────────────────────────────────────────────────────────────────
	// Users
	// ─────────────────────────────────────────────────────────────────────────
	uh := handlers.NewUserHandler(a.sessions, a.api.Users, a.api.Buildings)
	sel := policy.SelectedBuilding
	a.mux.Handle("GET /users", a.requirePermission(policy.ResourceUser, gate.ActionList, sel, uh.List))
	a.mux.Handle("GET /users/new", a.requirePermission(policy.ResourceUser, gate.ActionCreate, sel, uh.New))
	a.mux.Handle("POST /users", a.requirePermission(policy.ResourceUser, gate.ActionCreate, sel, uh.Create))
	a.mux.Handle("GET /users/{id}/edit", a.requirePermission(policy.ResourceUser, gate.ActionUpdate, sel, uh.Edit))
	a.mux.Handle("POST /users/{id}", a.requirePermission(policy.ResourceUser, gate.ActionUpdate, sel, uh.Update))
	a.mux.Handle("POST /users/{id}/delete", a.requirePermission(policy.ResourceUser, gate.ActionDelete, sel, uh.Delete))
	a.mux.Handle("POST /users/{id}/status", a.requirePermission(policy.ResourceUser, gate.ActionApprove, sel, uh.SetStatus))

	// ─────────────────────────────────────────────────────────────────────────
	// Billing
	// ─────────────────────────────────────────────────────────────────────────
	recon := services.NewReconciler(a.api.Billing, a.api.Payments)
	ih := handlers.NewInvoiceHandler(a.sessions, a.api.Billing, recon)
	a.mux.Handle("GET /invoices", a.requirePermission(policy.ResourceInvoice, gate.ActionList, sel, ih.List))
	a.mux.Handle("GET /invoices/{id}", a.requirePermission(policy.ResourceInvoice, gate.ActionView, sel, ih.Show))
	a.mux.Handle("GET /invoices/{id}/payments/{paymentID}",
		a.requirePermission(policy.ResourcePayment, gate.ActionView, sel, ih.Payment))

	ph := handlers.NewPaymentHandler(a.sessions, a.api.Payments)
	a.mux.Handle("GET /payments", a.requirePermission(policy.ResourcePayment, gate.ActionApprove, sel, ph.List))
	a.mux.Handle("POST /payments/{id}/review", a.requirePermission(policy.ResourcePayment, gate.ActionApprove, sel, ph.Review))

	dbh := handlers.NewDebtHandler(a.sessions, a.api.Billing)
	a.mux.Handle("GET /debt/new", a.requirePermission(policy.ResourceDebt, gate.ActionGenerate, sel, dbh.New))
	a.mux.Handle("POST /debt", a.requirePermission(policy.ResourceDebt, gate.ActionGenerate, sel, dbh.Create))

	balh := handlers.NewBalanceHandler(a.sessions, recon)
	a.mux.Handle("GET /units/{id}/balance", a.requirePermission(policy.ResourceBalance, gate.ActionView, sel, balh.Show))
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

// requireAuth wraps a handler to require a live session.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return session.RequireSession(next)
}

// requireAdmin wraps a handler to require the admin role.
func (a *App) requireAdmin(h http.HandlerFunc) http.Handler {
	return a.requireAuth(a.gate.RequireAdmin()(h))
}

// requirePermission wraps a handler to require resource:action in the
// building picked by which.
func (a *App) requirePermission(resource string, action gate.Action, which policy.BuildingFunc, h http.HandlerFunc) http.Handler {
	return a.requireAuth(a.gate.Require(resource, action, which)(h))
}

// withPreferences injects the language from the query, the lang cookie or
// Accept-Language, in that order.
func (a *App) withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := a.cfg.App.DefaultLang
		if h := r.Header.Get("Accept-Language"); h != "" {
			lang = i18n.DetectLanguage(h)
		}
		if c, err := r.Cookie("lang"); err == nil && i18n.Supported(c.Value) {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); i18n.Supported(q) {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}

// pageDefaults supplies the data every page layout reads.
func pageDefaults(w http.ResponseWriter, r *http.Request) map[string]any {
	data := map[string]any{
		"Path": r.URL.Path,
		"Lang": i18n.LangFromContext(r.Context()),
	}
	if st, ok := session.FromContext(r.Context()); ok {
		data["User"] = &st.User
		data["Scope"] = scope.FromContext(r.Context())
	}
	if f, ok := auth.PopFlash(w, r); ok {
		data["Flash"] = f
	}
	return data
}

// ─────────────────────────────────────────────────────────────────────────────
// Operational endpoints
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]any{"status": "ok", "time": time.Now().UTC()}
	if sqlDB, err := a.db.DB(); err != nil || sqlDB.PingContext(r.Context()) != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["database"] = "unreachable"
	}
	httpx.JSON(w, status, body)
}
