package review

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/chiragp/store-review-scraper/internal/metrics"
)

// DefaultMaxReviews caps a scrape when the caller does not set a limit.
const DefaultMaxReviews = 500

var (
	// ErrUnsupportedPlatform is returned for URLs that match no storefront.
	ErrUnsupportedPlatform = errors.New(
		"unsupported URL: please provide a Google Play Store or Apple App Store URL")
	// ErrAppIDNotFound is returned when the identifier pattern does not match.
	ErrAppIDNotFound = errors.New("could not extract app ID from URL")
)

// Fetcher retrieves live reviews for one storefront.
type Fetcher interface {
	Fetch(ctx context.Context, appID string, maxReviews int) ([]Review, error)
}

// Result is the outcome of one scrape.
type Result struct {
	Platform   Platform
	AppID      string
	Reviews    []Review
	IsDemoData bool
}

// Service dispatches a store URL to the matching fetcher and normalizes the
// outcome. It is stateless and safe for concurrent use.
type Service struct {
	google Fetcher
	apple  Fetcher
	clock  Clock
	logger *zap.Logger
}

// NewService builds a Service. A nil fetcher is treated like an unavailable
// upstream: every request for that storefront degrades to demo data.
func NewService(google, apple Fetcher, clock Clock, logger *zap.Logger) *Service {
	return &Service{google: google, apple: apple, clock: clock, logger: logger}
}

// Scrape detects the platform, extracts the app id, and fetches reviews.
// Upstream failures never surface: the fixed demo dataset is substituted
// instead and the result is flagged IsDemoData. URL classification failures
// do surface, as ErrUnsupportedPlatform or ErrAppIDNotFound.
func (s *Service) Scrape(ctx context.Context, rawURL string, maxReviews int) (Result, error) {
	platform := DetectPlatform(rawURL)
	if platform == Unknown {
		return Result{}, ErrUnsupportedPlatform
	}
	appID, ok := ExtractAppID(rawURL, platform)
	if !ok {
		return Result{}, ErrAppIDNotFound
	}
	if maxReviews <= 0 {
		maxReviews = DefaultMaxReviews
	}

	reviews, demo := s.fetch(ctx, platform, appID, maxReviews)
	if len(reviews) > maxReviews {
		reviews = reviews[:maxReviews]
	}
	return Result{
		Platform:   platform,
		AppID:      appID,
		Reviews:    reviews,
		IsDemoData: demo,
	}, nil
}

func (s *Service) fetch(ctx context.Context, platform Platform, appID string, maxReviews int) ([]Review, bool) {
	fetcher := s.google
	if platform == AppStore {
		fetcher = s.apple
	}
	if fetcher == nil {
		s.logger.Warn("no fetcher configured, serving demo data",
			zap.String("platform", string(platform)),
			zap.String("app_id", appID),
		)
		metrics.ObserveScrape(string(platform), metrics.ResultFallback)
		return DemoReviews(platform, appID, s.clock.Now()), true
	}

	reviews, err := fetcher.Fetch(ctx, appID, maxReviews)
	if err != nil {
		s.logger.Warn("live fetch failed, serving demo data",
			zap.String("platform", string(platform)),
			zap.String("app_id", appID),
			zap.Error(err),
		)
		metrics.ObserveScrape(string(platform), metrics.ResultFallback)
		return DemoReviews(platform, appID, s.clock.Now()), true
	}
	metrics.ObserveScrape(string(platform), metrics.ResultLive)
	return reviews, false
}
