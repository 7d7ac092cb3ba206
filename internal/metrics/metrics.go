// Package metrics exposes Prometheus collectors for the scraper service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Scrape result labels. Fetch failures never show up as errors (they fall
// back to demo data); ResultError covers failures after the fetch, such as
// the export write.
const (
	ResultLive     = "live"
	ResultFallback = "fallback"
	ResultError    = "error"
)

var (
	scrapesTotal               *prometheus.CounterVec
	reviewsExportedTotal       *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		scrapesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_scrapes_total",
				Help: "Total scrape dispatches, labeled by platform and result.",
			},
			[]string{"platform", "result"},
		)

		reviewsExportedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_reviews_exported_total",
				Help: "Total reviews written to CSV exports, labeled by platform.",
			},
			[]string{"platform"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveScrape increments the scrape counter for a platform/result pair.
func ObserveScrape(platform, result string) {
	Init()
	scrapesTotal.WithLabelValues(platform, result).Inc()
}

// ObserveExport records reviews written for a platform.
func ObserveExport(platform string, count int) {
	Init()
	if count > 0 {
		reviewsExportedTotal.WithLabelValues(platform).Add(float64(count))
	}
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
