// Package handler provides the HTTP API for photofeed.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/prn-tf/photofeed/internal/metrics"
)

// Router handles HTTP routing for the feed API.
type Router struct {
	userHandler  *UserHandler
	postHandler  *PostHandler
	imageHandler *ImageHandler
	metrics      *metrics.Metrics
	metricsPath  string
	logger       zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	UserHandler  *UserHandler
	PostHandler  *PostHandler
	ImageHandler *ImageHandler

	// Metrics, when set, instruments every request and is exposed at MetricsPath.
	Metrics     *metrics.Metrics
	MetricsPath string

	Logger zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(config RouterConfig) *Router {
	return &Router{
		userHandler:  config.UserHandler,
		postHandler:  config.PostHandler,
		imageHandler: config.ImageHandler,
		metrics:      config.Metrics,
		metricsPath:  config.MetricsPath,
		logger:       config.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(rt.logger))
	r.Use(middleware.Recoverer)
	if rt.metrics != nil {
		r.Use(instrument(rt.metrics))
	}

	r.Get("/health", rt.handleHealth)
	if rt.metrics != nil && rt.metricsPath != "" {
		r.Method(http.MethodGet, rt.metricsPath, rt.metrics.Handler())
	}

	rt.userHandler.RegisterRoutes(r)
	rt.postHandler.RegisterRoutes(r)
	rt.imageHandler.RegisterRoutes(r)

	r.NotFound(rt.handleNotFound)
	r.MethodNotAllowed(rt.handleMethodNotAllowed)

	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (rt *Router) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "no route for " + r.Method + " " + r.URL.Path})
}

func (rt *Router) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method " + r.Method + " not allowed on " + r.URL.Path})
}
