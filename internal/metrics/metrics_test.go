package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInit_Idempotent(t *testing.T) {
	Init()
	Init()
	require.NotNil(t, scrapesTotal)
	require.NotNil(t, httpRequestsTotal)
}

func TestObserve_DoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		ObserveScrape("google_play", ResultLive)
		ObserveScrape("app_store", ResultFallback)
		ObserveScrape("google_play", ResultError)
		ObserveExport("google_play", 3)
		ObserveExport("google_play", 0)
		ObserveHTTPRequest(http.MethodPost, "/scrape", http.StatusOK, 120*time.Millisecond)
	})
}

func TestHandler_ServesMetrics(t *testing.T) {
	ObserveScrape("google_play", ResultFallback)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "scraper_scrapes_total")
}
