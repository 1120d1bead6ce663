package router

import (
	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	apiHandler "github.com/fastygo/gac-shell/api/handler"
	"github.com/fastygo/gac-shell/internal/middleware"
	"github.com/fastygo/gac-shell/usecase/shell"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	WorkOrder *apiHandler.WorkOrderHandler
	Shell     *apiHandler.ShellHandler
	Health    *apiHandler.HealthHandler
}

type Options struct {
	// RequireAuth guards the API. OptionalAuth identifies console page visitors.
	RequireAuth  middleware.Middleware
	OptionalAuth middleware.Middleware
	Metrics      bool
}

func New(handlers Handlers, catalog shell.Catalog, opts Options) *router.Router {
	r := router.New()
	require, optional := opts.RequireAuth, opts.OptionalAuth
	if require == nil {
		require = passthrough
	}
	if optional == nil {
		optional = passthrough
	}

	r.GET("/health", handlers.Health.Check)
	if opts.Metrics {
		r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))
	}

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", optional(handlers.Auth.Refresh))
	r.POST("/api/v1/auth/logout", require(handlers.Auth.Logout))
	r.GET("/api/v1/auth/me", require(handlers.Auth.Me))

	// Protected routes
	r.GET("/api/v1/work-orders", require(handlers.WorkOrder.List))
	r.POST("/api/v1/work-orders", require(handlers.WorkOrder.Create))
	r.GET("/api/v1/work-orders/{id}", require(handlers.WorkOrder.Get))
	r.PATCH("/api/v1/work-orders/{id}/status", require(handlers.WorkOrder.UpdateStatus))
	r.DELETE("/api/v1/work-orders/{id}", require(handlers.WorkOrder.Delete))

	// Console shell
	r.GET("/api/v1/shell", optional(handlers.Shell.State))
	r.GET("/", handlers.Shell.Index)
	for _, entry := range catalog.Entries() {
		r.GET(entry.Route, optional(handlers.Shell.Page))
	}

	return r
}

func passthrough(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return next
}
