// Package server provides the HTTP API for profile scoring and gamification progress.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/gamification"
	"github.com/jonathan/profile-optimizer/internal/schemas"
	"github.com/jonathan/profile-optimizer/internal/scoring"
	"github.com/jonathan/profile-optimizer/internal/server/middleware"
	"github.com/jonathan/profile-optimizer/internal/server/ratelimit"
	"github.com/jonathan/profile-optimizer/internal/store"
	"github.com/jonathan/profile-optimizer/internal/suggest"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	gateway     store.Gateway
	history     store.History
	scorer      *scoring.Scorer
	suggester   suggest.Suggester
	clock       gamification.Clock
	jwtService  *JWTService
	rateLimiter *ratelimit.Limiter
	locks       *userLocks
	metrics     *metrics
}

// Config holds server configuration. Gateway is required; every other
// dependency has a default. The /me routes are only mounted when JWT is set.
type Config struct {
	Port      int
	Gateway   store.Gateway
	History   store.History
	Scorer    *scoring.Scorer
	Suggester suggest.Suggester
	Clock     gamification.Clock
	JWT       *config.JWTConfig
	RateLimit *ratelimit.Config
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("gamification state gateway is required")
	}

	s := &Server{
		gateway:   cfg.Gateway,
		history:   cfg.History,
		scorer:    cfg.Scorer,
		suggester: cfg.Suggester,
		clock:     cfg.Clock,
		locks:     newUserLocks(),
		metrics:   newMetrics(),
	}
	if s.history == nil {
		s.history = store.NewMemoryHistory()
	}
	if s.scorer == nil {
		s.scorer = scoring.Default()
	}
	if s.suggester == nil {
		s.suggester = suggest.NewFallbackSuggester(nil)
	}
	if s.clock == nil {
		s.clock = gamification.SystemClock{}
	}

	rateCfg := cfg.RateLimit
	if rateCfg == nil {
		rateCfg = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rateCfg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.handler())

	// Stateless scoring
	mux.HandleFunc("POST /score", s.handleScore)
	mux.HandleFunc("POST /score/{section}", s.handleScoreSection)

	// Daily challenges
	mux.HandleFunc("GET /challenges/daily", s.handleDailyChallenge)
	mux.HandleFunc("POST /challenges/check", s.handleCheckChallenge)

	// Per-user progress
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
		auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
		mux.Handle("GET /me/progress", auth(http.HandlerFunc(s.handleGetProgress)))
		mux.Handle("POST /me/events", auth(http.HandlerFunc(s.handleApplyEvent)))
		mux.Handle("POST /me/analyze", auth(http.HandlerFunc(s.handleAnalyze)))
		mux.Handle("POST /me/suggestions", auth(http.HandlerFunc(s.handleSuggestions)))
		mux.Handle("GET /me/history", auth(http.HandlerFunc(s.handleHistory)))
	} else {
		log.Printf("JWT not configured; /me routes are disabled")
	}

	s.handler = s.withRateLimit(s.withMetrics(s.withLogging(s.withCORS(mux))))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second, // Suggestions may wait on the language model
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// JWT returns the token service, or nil when /me routes are disabled.
func (s *Server) JWT() *JWTService {
	return s.jwtService
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close stops background work. The gateway is owned by the caller.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s %s completed in %v", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// failResponse maps err to a status code. Schema violations carry per-field details
// and internal errors are logged with a generic message.
func (s *Server) failResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)

	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		details := make([]map[string]string, 0, len(schemaErr.Errors))
		for _, fe := range schemaErr.Errors {
			details = append(details, map[string]string{"field": fe.Field, "message": fe.Message})
		}
		s.jsonResponse(w, status, map[string]any{"error": "request failed schema validation", "details": details})
		return
	}

	if status == http.StatusInternalServerError {
		log.Printf("[%s] %s failed: %v", r.Method, r.URL.Path, err)
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
