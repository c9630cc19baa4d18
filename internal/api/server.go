// Package api is the HTTP intake in front of the pitch-intake process.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"pitch-workers/internal/common/camunda"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/metrics"
	"pitch-workers/internal/pitch"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ProcessStarter is satisfied by *camunda.Client.
type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, variables interface{}) (*camunda.ProcessInstance, error)
}

// CheckFunc reports whether a dependency is usable.
type CheckFunc func(ctx context.Context) error

type Options struct {
	Engine         *pitch.Engine
	Starter        ProcessStarter
	ProcessID      string
	AllowedOrigins []string
	// Checks back /ready, keyed by dependency name.
	Checks map[string]CheckFunc
	Logger logger.Logger
}

type Server struct {
	engine    *pitch.Engine
	starter   ProcessStarter
	processID string
	origins   []string
	checks    map[string]CheckFunc
	logger    logger.Logger
	now       func() time.Time
}

func NewServer(opts Options) *Server {
	if opts.Engine == nil {
		opts.Engine = pitch.NewEngine(pitch.DefaultLinks())
	}
	if opts.ProcessID == "" {
		opts.ProcessID = "pitch-intake"
	}
	return &Server{
		engine:    opts.Engine,
		starter:   opts.Starter,
		processID: opts.ProcessID,
		origins:   opts.AllowedOrigins,
		checks:    opts.Checks,
		logger:    opts.Logger.WithFields(map[string]interface{}{"component": "api"}),
		now:       time.Now,
	}
}

// Routes mounts the intake, health and metrics endpoints.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/pitch", func(r chi.Router) {
		r.Use(countRequests)
		r.Post("/", s.handleSubmit)
		r.Post("/preview", s.handlePreview)
		r.Get("/prompts", s.handlePrompts)
	})
	return r
}

// countRequests records every intake request by route pattern and status.
func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.PitchIntakeRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

// NewHTTPServer wraps Routes with the configured timeouts.
func (s *Server) NewHTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}
}
