// Package server provides the HTTP API for the career pathway advisor.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/career-pathway/internal/advisor"
	"github.com/jonathan/career-pathway/internal/finance"
	"github.com/jonathan/career-pathway/internal/logging"
	"github.com/jonathan/career-pathway/internal/programs"
	"github.com/jonathan/career-pathway/internal/server/ratelimit"
	"github.com/rs/cors"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Fail-soft endpoints always answer 200.
const (
	pathSuggestions = "/get-career-suggestions"
	pathExamInfo    = "/get-exam-info"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	advisor     *advisor.Advisor
	resolver    *programs.Resolver
	estimator   *finance.Estimator
	rateLimiter *ratelimit.Limiter
	logger      *logging.Logger
}

// Config holds server configuration
type Config struct {
	Port           int
	AllowedOrigins []string
	Advisor        *advisor.Advisor
	Resolver       *programs.Resolver
	Estimator      *finance.Estimator
	RateLimit      *ratelimit.Config // nil reads RATE_LIMIT_* from the environment
	Logger         *logging.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Advisor == nil {
		return nil, &ErrConfiguration{Setting: "advisor"}
	}
	if cfg.Resolver == nil {
		return nil, &ErrConfiguration{Setting: "program resolver"}
	}
	if cfg.Estimator == nil {
		return nil, &ErrConfiguration{Setting: "cost estimator"}
	}

	s := &Server{
		advisor:   cfg.Advisor,
		resolver:  cfg.Resolver,
		estimator: cfg.Estimator,
		logger:    cfg.Logger,
	}
	if s.logger == nil {
		s.logger = logging.Nop()
	}

	rateCfg := cfg.RateLimit
	if rateCfg == nil {
		rateCfg = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rateCfg)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /career-assessment", s.handleCareerAssessment)
	mux.HandleFunc("POST /generate-pathway", s.handleGeneratePathway)
	mux.HandleFunc("POST "+pathSuggestions, s.handleCareerSuggestions)
	mux.HandleFunc("POST "+pathExamInfo, s.handleExamInfo)
	mux.HandleFunc("POST /resolve-program", s.handleResolveProgram)
	mux.HandleFunc("POST /estimate-cost", s.handleEstimateCost)
	mux.HandleFunc("GET /health", s.handleHealth)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         600,
	})

	s.handler = s.withRequestID(s.withLogging(corsHandler.Handler(s.withRateLimit(mux))))

	port := cfg.Port
	if port == 0 {
		port = 8080
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 150 * time.Second, // model calls can take a minute or more
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run listens until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr, "model_configured", s.advisor.Configured())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withRequestID assigns a request ID and a request-scoped logger.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		log := s.logger.With("request_id", id)
		next.ServeHTTP(w, r.WithContext(logging.WithContext(r.Context(), log)))
	})
}

// statusRecorder remembers the status written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log := s.log(r)
		fields := []interface{}{"method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start)}
		if rec.status >= 500 {
			log.Warn("request completed", fields...)
		} else {
			log.Info("request completed", fields...)
		}
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, decision)
		if !decision.Allowed {
			s.refuse(w, r, decision)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) log(r *http.Request) *logging.Logger {
	return logging.FromContext(r.Context(), s.logger)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log(r).Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.jsonResponse(w, r, status, map[string]string{"error": message})
}

// extractClientID returns the client IP from RemoteAddr. Forwarded headers are
// ignored because they can be set by the client.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, d ratelimit.Decision) {
	if d.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetTime.Unix(), 10))
	}
}

// refuse answers a request the limiter turned away. The fail-soft endpoints
// keep their 200 contract and carry the refusal in the fallback's error field.
func (s *Server) refuse(w http.ResponseWriter, r *http.Request, d ratelimit.Decision) {
	if r.Method != http.MethodPost {
		s.rateLimitResponse(w, r, d)
		return
	}
	switch r.URL.Path {
	case pathSuggestions:
		setRetryAfter(w, d)
		s.log(r).Warn("rate limit exceeded", "client", extractClientID(r), "path", r.URL.Path, "limit", d.Limit)
		s.suggestionsFallback(w, r, msgRateLimited)
	case pathExamInfo:
		setRetryAfter(w, d)
		s.log(r).Warn("rate limit exceeded", "client", extractClientID(r), "path", r.URL.Path, "limit", d.Limit)
		s.examInfoFallback(w, r, "", msgRateLimited)
	default:
		s.rateLimitResponse(w, r, d)
	}
}

// setRetryAfter sets Retry-After for a refused request and returns its value in seconds.
func setRetryAfter(w http.ResponseWriter, d ratelimit.Decision) int {
	if d.RetryAfter <= 0 {
		return 0
	}
	seconds := max(int(d.RetryAfter.Round(time.Second).Seconds()), 1)
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	return seconds
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, d ratelimit.Decision) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   msgRateLimited,
		"limit":     d.Limit,
		"remaining": d.Remaining,
	}
	if !d.ResetTime.IsZero() {
		response["reset_at"] = d.ResetTime.Format(time.RFC3339)
	}

	if seconds := setRetryAfter(w, d); seconds > 0 {
		response["retry_after"] = seconds
	}

	s.log(r).Warn("rate limit exceeded", "client", extractClientID(r), "path", r.URL.Path, "limit", d.Limit)
	s.jsonResponse(w, r, http.StatusTooManyRequests, response)
}
