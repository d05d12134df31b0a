package api

import (
	"context"
	"net/http"

	"github.com/go-chi/cors"
	"github.com/julienschmidt/httprouter"
	apiContext "linkshelf/internal/api/context"
	"linkshelf/internal/api/handlers"
	"linkshelf/internal/api/middleware"
	"linkshelf/internal/pkg/errors"
	"linkshelf/internal/platform/config"
)

type Dependencies struct {
	AuthHandler    *handlers.AuthHandler
	AuditHandler   *handlers.AuditHandler
	UserHandler    *handlers.UserHandler
	LinkHandler    *handlers.LinkHandler
	TokenHandler   *handlers.TokenHandler
	HealthHandler  *handlers.HealthHandler
	MetricsHandler *handlers.MetricsHandler
	AuthMiddleware *middleware.AuthMiddleware
	CORS           config.CORSConfig
}

// NewRouter returns the full handler: request logging, then CORS, then the
// routes.
func NewRouter(deps *Dependencies) http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Route not found", apiContext.RequestIDFrom(r.Context()))
	})

	// Public routes
	router.GET("/health_check", wrap(deps.HealthHandler.Check))
	router.GET("/metrics", wrap(deps.MetricsHandler.Export))
	router.POST("/signup", wrap(deps.AuthHandler.Signup))
	router.POST("/signin", wrap(deps.AuthHandler.Signin))

	authMid := deps.AuthMiddleware
	authed := []func(http.HandlerFunc) http.HandlerFunc{authMid.Resolve, authMid.RequireAuth}

	router.GET("/me", chain(deps.UserHandler.Me, authed...))

	// Saved links
	router.POST("/api/links", chain(deps.LinkHandler.Create, authed...))
	router.GET("/api/links", chain(deps.LinkHandler.List, authed...))
	router.POST("/api/links/clear", chain(deps.LinkHandler.Clear, authed...))

	// API keys
	router.POST("/api/tokens", chain(deps.TokenHandler.Create, authed...))
	router.GET("/api/tokens", chain(deps.TokenHandler.List, authed...))
	router.DELETE("/api/tokens/:id", chain(deps.TokenHandler.Delete, authed...))

	router.GET("/api/audit", chain(deps.AuditHandler.List, authed...))

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: deps.CORS.AllowedOrigins,
		AllowedMethods: deps.CORS.AllowedMethods,
		AllowedHeaders: deps.CORS.AllowedHeaders,
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         deps.CORS.MaxAge,
	})

	return middleware.RequestLogger(corsHandler(router))
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
