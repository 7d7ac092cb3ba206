// Package main hosts the review scraper service entrypoint.
//
// Architecture overview:
//   - HTTP API: internal/api.Server exposes the landing page, health and
//     metrics endpoints, POST /scrape, and GET /download/{filename}. Scrape
//     requests are validated, dispatched synchronously, and answered with the
//     generated CSV filename.
//   - Scrape pipeline: internal/review detects the storefront from the URL,
//     extracts the app identifier, and calls the matching fetcher
//     (internal/fetch/googleplay via Colly + the batchexecute endpoint,
//     internal/fetch/appstore via the iTunes RSS feed). Any upstream failure
//     degrades to a fixed demo dataset instead of an error; the response
//     carries is_demo_data so callers can tell.
//   - Exports: internal/export writes the CSV with a sanitized, uniquely
//     suffixed filename into a temp-backed directory and serves it back for
//     download. Files are never cleaned up by the service itself.
//   - Plumbing: Viper populates config from env/files (PORT is honored for
//     platform deploys); zap provides structured logging; Prometheus metrics
//     are exported via /metrics. The service is stateless across requests.
//
// Run locally: go run ./cmd/reviewscraper -config config.yaml (or rely
// solely on env overrides such as PORT and SCRAPER_SCRAPER_COUNTRY).
package main
