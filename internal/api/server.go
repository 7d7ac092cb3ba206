// Package api exposes the HTTP interface for the review scraper service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chiragp/store-review-scraper/internal/config"
	"github.com/chiragp/store-review-scraper/internal/export"
	"github.com/chiragp/store-review-scraper/internal/metrics"
	"github.com/chiragp/store-review-scraper/internal/review"
)

// Server wires HTTP handlers to the scrape service and export writer.
type Server struct {
	router  chi.Router
	scraper *review.Service
	exports *export.Writer
	cfg     config.Config
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	scraper *review.Service,
	exports *export.Writer,
	cfg config.Config,
	logger *zap.Logger,
) *Server {
	s := &Server{
		scraper: scraper,
		exports: exports,
		cfg:     cfg,
		logger:  logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)

	r.Get("/", s.index)
	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Post("/scrape", s.scrape)
	r.Get("/download/{filename}", s.download)

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := io.WriteString(w, indexPage); err != nil {
		s.logger.Error("index write failed", zap.Error(err))
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "store review scraper is running",
	})
}

type scrapeRequest struct {
	URL        string `json:"url"`
	MaxReviews int    `json:"max_reviews"`
}

type scrapeResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Filename    string `json:"filename"`
	ReviewCount int    `json:"review_count"`
	AppName     string `json:"app_name"`
	IsDemoData  bool   `json:"is_demo_data"`
}

func (s *Server) scrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	rawURL := strings.TrimSpace(req.URL)
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		writeError(w, http.StatusBadRequest, "Invalid URL format")
		return
	}
	maxReviews := req.MaxReviews
	if maxReviews <= 0 {
		maxReviews = s.cfg.Scraper.MaxReviewsDefault
	}

	result, err := s.scraper.Scrape(r.Context(), rawURL, maxReviews)
	if err != nil {
		if errors.Is(err, review.ErrUnsupportedPlatform) || errors.Is(err, review.ErrAppIDNotFound) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(result.Reviews) == 0 {
		writeError(w, http.StatusNotFound, "No reviews found or unable to scrape")
		return
	}

	appName := result.Reviews[0].AppName
	filename, err := s.exports.Write(result.Reviews, appName)
	if err != nil {
		s.logger.Error("export write failed",
			zap.String("app_id", result.AppID),
			zap.Error(err),
		)
		metrics.ObserveScrape(string(result.Platform), metrics.ResultError)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.ObserveExport(string(result.Platform), len(result.Reviews))

	writeJSON(w, http.StatusOK, scrapeResponse{
		Success:     true,
		Message:     fmt.Sprintf("Successfully scraped %d reviews", len(result.Reviews)),
		Filename:    filename,
		ReviewCount: len(result.Reviews),
		AppName:     appName,
		IsDemoData:  result.IsDemoData,
	})
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	f, err := s.exports.Open(filename)
	if err != nil {
		if errors.Is(err, export.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found. Please scrape reviews first.")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			s.logger.Warn("close export file failed", zap.Error(closeErr))
		}
	}()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := io.Copy(w, f); err != nil {
		s.logger.Error("stream export failed",
			zap.String("filename", filename),
			zap.Error(err),
		)
	}
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		duration := time.Since(start)
		metrics.ObserveHTTPRequest(r.Method, routePattern(r), ww.status, duration)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", duration.Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
