// Package api exposes the intake flow, the loan engine and the advisor over
// JSON/HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loan-advisor/internal/advice"
	apphttp "loan-advisor/internal/common/http"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/common/metrics"
	"loan-advisor/internal/common/validation"
	"loan-advisor/internal/intake"
	"loan-advisor/internal/loan"
)

// Deps are the collaborators the handlers call into. Intake, Advisor and
// Validator are required.
type Deps struct {
	Intake     *intake.Service
	Advisor    *advice.Advisor
	Validator  *validation.Validator
	Classifier *loan.Classifier
	Lenders    loan.LenderCatalog
	// Ready reports whether backing services are reachable. Nil means always ready.
	Ready  func(ctx context.Context) error
	Logger logger.Logger
}

type Server struct {
	intake     *intake.Service
	advisor    *advice.Advisor
	validator  *validation.Validator
	classifier *loan.Classifier
	lenders    loan.LenderCatalog
	ready      func(ctx context.Context) error
	logger     logger.Logger
}

func NewServer(deps Deps) *Server {
	classifier := deps.Classifier
	if classifier == nil {
		classifier = loan.DefaultClassifier()
	}
	lenders := deps.Lenders
	if len(lenders) == 0 {
		lenders = loan.DefaultLenderCatalog()
	}
	return &Server{
		intake:     deps.Intake,
		advisor:    deps.Advisor,
		validator:  deps.Validator,
		classifier: classifier,
		lenders:    lenders,
		ready:      deps.Ready,
		logger:     deps.Logger.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Handler builds the router. A nil limiter disables rate limiting.
func (s *Server) Handler(limiter *apphttp.RateLimiter) http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "POST /api/chat/sessions", s.handleStartSession)
	s.route(mux, "POST /api/chat/sessions/{id}/messages", s.handleMessage)
	s.route(mux, "GET /api/chat/sessions/{id}", s.handleGetSession)
	s.route(mux, "DELETE /api/chat/sessions/{id}", s.handleEndSession)

	s.route(mux, "POST /api/loans/emi", s.handleEMI)
	s.route(mux, "POST /api/loans/score", s.handleScore)
	s.route(mux, "POST /api/loans/recommend", s.handleRecommend)
	s.route(mux, "POST /api/loans/classify", s.handleClassify)
	s.route(mux, "GET /api/loans/documents", s.handleDocuments)
	s.route(mux, "GET /api/loans/lenders", s.handleLenders)

	s.route(mux, "POST /api/advice", s.handleAdvice)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	if limiter == nil {
		return mux
	}
	return apphttp.RateLimitMiddleware(limiter, mux)
}

func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, instrument(pattern, h))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.RecordHTTPRequest(route, rec.status, time.Since(start).Seconds())
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.Warn("readiness check failed", map[string]interface{}{"error": err.Error()})
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
