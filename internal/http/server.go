package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	applog "funding/internal/log"
	"funding/internal/middleware/ratelimit"
	"funding/internal/middleware/security"
	"funding/internal/middleware/trace"
	"funding/internal/services"
	appweb "funding/web"
)

// defaultRequestTimeout bounds the work one dashboard request may do.
const defaultRequestTimeout = 7 * time.Second

// ReadinessChecker reports whether a funding table has been loaded.
type ReadinessChecker interface {
	Ready() bool
}

// Config holds the server's tunables.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	TrustedProxies     []string
	RequestTimeout     time.Duration
	Logger             *applog.Logger
}

type Server struct {
	http.Server
	templates *template.Template
	dashboard *services.DashboardService
	ready     ReadinessChecker

	logger   *applog.Logger
	views    *applog.StructuredLogger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	timeout  time.Duration
	started  time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server.
func NewServer(cfg Config, dashboard *services.DashboardService, ready ReadinessChecker) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	detector := security.NewDetector(logger)
	for _, cidr := range cfg.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}

	s := &Server{
		templates: t,
		dashboard: dashboard,
		ready:     ready,
		logger:    logger,
		views:     applog.NewStructuredLogger(logger),
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		detector:  detector,
		tracer:    trace.NewMiddleware(detector.ExtractClientIP, logger),
		timeout:   cfg.RequestTimeout,
		started:   time.Now(),
	}

	mux := http.NewServeMux()

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.CacheControl(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /startup", s.handleStartup)
	mux.HandleFunc("GET /investor", s.handleInvestor)
	mux.HandleFunc("GET /charts/{chart}", s.handleChart)

	mux.HandleFunc("GET /api/overall", s.handleAPIOverall)
	mux.HandleFunc("GET /api/startups", s.handleAPIStartup)
	mux.HandleFunc("GET /api/investors", s.handleAPIInvestor)
	mux.HandleFunc("GET /api/entities", s.handleAPIEntities)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// middleware wraps h, outermost first: tracing, request-scoped logger,
// suspicious request logging, security headers, rate limiting.
func (s *Server) middleware(h http.Handler) http.Handler {
	h = s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimited)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.detector.Middleware(h)
	h = applog.RequestIDMiddleware(trace.RequestIDFromRequest)(h)
	h = applog.Middleware(s.logger)(h)
	return s.tracer.Middleware(h)
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	fields := applog.NewFields().
		WithComponent(applog.ComponentRateLimit).
		WithClientIP(s.detector.ExtractClientIP(r)).
		WithHTTPRequest(r.Method, r.URL.Path, "", "")
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded", fields.ToSlice()...)
	ErrorJSON(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
}

// Shutdown stops background goroutines and gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
