// Package http serves the dashboard's JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"caixa/internal/amqp"
	"caixa/internal/auth"
	"caixa/internal/cache"
	"caixa/internal/log"
	"caixa/internal/middleware/ratelimit"
	"caixa/internal/middleware/trace"
	"caixa/internal/services"
	"caixa/internal/store"
)

// Options collects the server's collaborators. Queue and Exports are
// optional: a nil queue makes report generation inline, a nil exporter
// disables the export endpoint.
type Options struct {
	Addr         string
	Auth         *auth.Manager
	Months       *services.MonthService
	Duplications *services.DuplicationService
	Reports      *services.ReportService
	Exports      *services.ExportService
	Partners     store.PartnerStore
	Queue        *amqp.Client
	Views        *cache.LRUCache[services.MonthView]
	RateLimit    ratelimit.Config
	Logger       *log.Logger
}

type Server struct {
	http.Server

	authManager  *auth.Manager
	months       *services.MonthService
	duplications *services.DuplicationService
	reports      *services.ReportService
	exports      *services.ExportService
	partners     store.PartnerStore
	queue        *amqp.Client

	limiter      *ratelimit.Limiter
	tracer       *trace.Middleware
	views        *cache.LRUCache[services.MonthView]
	cacheManager *cache.Manager
	logger       *log.Logger

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	s := &Server{
		authManager:  opts.Auth,
		months:       opts.Months,
		duplications: opts.Duplications,
		reports:      opts.Reports,
		exports:      opts.Exports,
		partners:     opts.Partners,
		queue:        opts.Queue,
		limiter:      ratelimit.NewLimiter(opts.RateLimit),
		tracer:       trace.NewMiddleware(clientIP),
		views:        opts.Views,
		cacheManager: cache.NewManager(),
		logger:       opts.Logger.WithComponent(log.ComponentHTTP),
	}

	if s.views != nil {
		s.cacheManager.Register(s.views)
		s.cacheManager.StartCleanup(10 * time.Minute)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/months/{year}/{month}", s.handleGetMonth)
	api.HandleFunc("PUT /api/months/{year}/{month}/balances/{assetID}", s.handlePutBalance)
	api.HandleFunc("PUT /api/months/{year}/{month}/cards/{assetID}", s.handlePutCardDetail)
	api.HandleFunc("PUT /api/months/{year}/{month}/settings", s.handlePutSettings)
	api.HandleFunc("POST /api/months/{year}/{month}/duplicate", s.handleDuplicate)
	api.HandleFunc("POST /api/months/{year}/{month}/export", s.handleExport)

	api.HandleFunc("POST /api/months/{year}/{month}/transactions", s.handleAddTransaction)
	api.HandleFunc("PUT /api/months/{year}/{month}/transactions/{txID}", s.handleUpdateTransaction)
	api.HandleFunc("DELETE /api/months/{year}/{month}/transactions/{txID}", s.handleDeleteTransaction)
	api.HandleFunc("POST /api/months/{year}/{month}/transactions/{txID}/situation", s.handleChangeSituation)

	api.HandleFunc("GET /api/assets", s.handleListAssets)
	api.HandleFunc("POST /api/assets", s.handleSaveAsset)
	api.HandleFunc("PUT /api/assets/{assetID}", s.handleSaveAsset)
	api.HandleFunc("DELETE /api/assets/{assetID}", s.handleDeleteAsset)

	api.HandleFunc("GET /api/partners", s.handleListPartners)
	api.HandleFunc("POST /api/partners", s.handleSavePartner)
	api.HandleFunc("PUT /api/partners/{partnerID}", s.handleSavePartner)
	api.HandleFunc("DELETE /api/partners/{partnerID}", s.handleDeletePartner)

	api.HandleFunc("POST /api/reports", s.handleGenerateReport)
	api.HandleFunc("GET /api/reports", s.handleListReports)
	api.HandleFunc("GET /api/reports/{reportID}", s.handleGetReport)
	api.HandleFunc("PATCH /api/reports/{reportID}/name", s.handleRenameReport)
	api.HandleFunc("DELETE /api/reports/{reportID}", s.handleDeleteReport)

	mux.Handle("/api/", s.withMiddleware(api))

	s.Server = http.Server{
		Addr:         opts.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// withMiddleware chains tracing, rate limiting and auth around the API.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(clientIP, nil)(s.withAuth(next))
	return s.tracer.Middleware(s.withSecurityHeaders(limited))
}

func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the server and its background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// clientIP extracts the caller address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
