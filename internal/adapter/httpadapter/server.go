package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/couchcryptid/biomass-pathways-api/docs" // registers the OpenAPI document
	"github.com/couchcryptid/biomass-pathways-api/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Options tune the HTTP surface.
type Options struct {
	CORSAllowedOrigins []string
	RateLimit          *RateLimit    // nil disables rate limiting
	WriteTimeout       time.Duration // must cover queueing plus a full simulation
}

// Server exposes the pathway API plus health, readiness, metrics, and API docs.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	stop       context.CancelFunc
}

// NewServer creates an HTTP server with the /api/v1 routes, /healthz, /readyz,
// /metrics, and /swagger/.
func NewServer(addr string, svc Service, opts Options, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	ctx, stop := context.WithCancel(context.Background())

	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}

	h := &handlers{svc: svc, logger: logger}
	api := func(fn http.HandlerFunc) http.Handler { return fn }
	if opts.RateLimit != nil {
		store := newLimiterStore(*opts.RateLimit)
		store.startJanitor(ctx, 2*time.Minute)
		api = func(fn http.HandlerFunc) http.Handler { return withRateLimit(store, metrics, fn) }
	}

	mux.Handle("GET /api/v1/pathways", api(h.handlePathways))
	mux.Handle("GET /api/v1/{pathway}/calc", api(h.handleCalc))
	mux.Handle("GET /api/v1/{pathway}/county", api(h.handleCounty))

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = withCORS(opts.CORSAllowedOrigins, handler)
	handler = withAccessLog(logger, metrics, handler)
	handler = withRequestID(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		stop:   stop,
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
