// Package api exposes the court service over HTTP/JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"arena/internal/database"
	"arena/internal/domain"
	"arena/internal/service"

	"github.com/rs/zerolog"
)

// ChangeLog lists recorded court changes.
type ChangeLog interface {
	ListChanges(ctx context.Context, courtID int64, limit int) ([]database.Change, error)
}

// Options configure the HTTP server.
type Options struct {
	Port           int
	APIKey         string
	RateLimitRPS   float64
	RateLimitBurst int
	Location       *time.Location
}

// HTTPServer serves the court API.
type HTTPServer struct {
	svc      *service.CourtService
	changes  ChangeLog
	apiKey   string
	limiter  *RateLimiter
	location *time.Location
	logger   *zerolog.Logger
	server   *http.Server
}

// NewHTTPServer builds the server and its routes. changes may be nil.
func NewHTTPServer(opts Options, svc *service.CourtService, changes ChangeLog, logger *zerolog.Logger) *HTTPServer {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	s := &HTTPServer{
		svc:      svc,
		changes:  changes,
		apiKey:   opts.APIKey,
		location: opts.Location,
		logger:   logger,
	}
	if opts.RateLimitRPS > 0 {
		burst := opts.RateLimitBurst
		if burst <= 0 {
			burst = int(opts.RateLimitRPS) + 1
		}
		s.limiter = NewRateLimiter(opts.RateLimitRPS, burst, 3*time.Minute)
	}

	mux := http.NewServeMux()
	s.routes(mux)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.logRequests(s.authenticate(s.rateLimit(mux))),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the root handler, middleware included.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/courts", s.handleListCourts)
	mux.HandleFunc("POST /api/courts", s.handleCreateCourt)
	mux.HandleFunc("GET /api/courts/{id}", s.handleGetCourt)
	mux.HandleFunc("PUT /api/courts/{id}", s.handleUpdateCourt)
	mux.HandleFunc("DELETE /api/courts/{id}", s.handleDeleteCourt)
	mux.HandleFunc("POST /api/courts/{id}/duplicate", s.handleDuplicateCourt)
	mux.HandleFunc("PUT /api/courts/{id}/addons", s.handleSetAddons)
	mux.HandleFunc("GET /api/courts/{id}/changes", s.handleChanges)

	mux.HandleFunc("PUT /api/courts/{id}/days/{weekday}/open", s.handleSetDayOpen)
	mux.HandleFunc("POST /api/courts/{id}/days/{weekday}/slots", s.handleAddSlot)
	mux.HandleFunc("PUT /api/courts/{id}/days/{weekday}/slots/{slotID}", s.handleUpdateSlot)
	mux.HandleFunc("DELETE /api/courts/{id}/days/{weekday}/slots/{slotID}", s.handleRemoveSlot)
	mux.HandleFunc("POST /api/courts/{id}/days/{weekday}/copy", s.handleCopyDay)

	mux.HandleFunc("GET /api/courts/{id}/recurring", s.handleListRecurring)
	mux.HandleFunc("POST /api/courts/{id}/recurring", s.handleAddRecurring)
	mux.HandleFunc("GET /api/courts/{id}/recurring/conflicts", s.handleRecurringConflicts)
	mux.HandleFunc("PUT /api/courts/{id}/recurring/{ruleID}", s.handleUpdateRecurring)
	mux.HandleFunc("DELETE /api/courts/{id}/recurring/{ruleID}", s.handleRemoveRecurring)

	mux.HandleFunc("POST /api/courts/{id}/block", s.handleBlock)
	mux.HandleFunc("POST /api/courts/{id}/unblock", s.handleUnblock)

	mux.HandleFunc("POST /api/courts/{id}/special-prices", s.handleAddSpecialPrice)
	mux.HandleFunc("PUT /api/courts/{id}/special-prices/{ruleID}", s.handleUpdateSpecialPrice)
	mux.HandleFunc("DELETE /api/courts/{id}/special-prices/{ruleID}", s.handleRemoveSpecialPrice)
	mux.HandleFunc("POST /api/courts/{id}/promotions", s.handleAddPromotion)
	mux.HandleFunc("PUT /api/courts/{id}/promotions/{ruleID}", s.handleUpdatePromotion)
	mux.HandleFunc("PUT /api/courts/{id}/promotions/{ruleID}/active", s.handleSetPromotionActive)
	mux.HandleFunc("DELETE /api/courts/{id}/promotions/{ruleID}", s.handleRemovePromotion)

	mux.HandleFunc("POST /api/courts/{id}/query", s.handleQuery)
	mux.HandleFunc("GET /api/courts/{id}/quote", s.handleQuote)
	mux.HandleFunc("GET /api/courts/{id}/grid", s.handleGrid)
	mux.HandleFunc("GET /api/courts/{id}/export", s.handleExport)
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctxShutdown)
	}()

	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API started")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(started)).
			Msg("http request")
	})
}

func (s *HTTPServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("X-Api-Key") != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow(clientKey(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOverlap), errors.Is(err, domain.ErrConcurrentModification):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnknownCourt), errors.Is(err, domain.ErrUnknownRuleID):
		writeError(w, http.StatusNotFound, err.Error())
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func courtID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid court id %q", r.PathValue("id"))
	}
	return id, nil
}
