// Package googleplay fetches Google Play Store reviews. The app title is
// scraped from the store details page; reviews come from the public
// batchexecute endpoint the play web UI itself calls.
package googleplay

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gocolly/colly/v2"

	"github.com/chiragp/store-review-scraper/internal/review"
)

const (
	defaultBaseURL = "https://play.google.com"

	batchExecutePath = "/_/PlayStoreUi/data/batchexecute"
	reviewsRPCID     = "UsvDTd"

	// The endpoint serves at most this many reviews in a single call.
	maxReviewsPerCall = 199
)

// Config controls the Google Play client.
type Config struct {
	// BaseURL overrides the play store host, mainly for tests.
	BaseURL   string
	Lang      string
	Country   string
	UserAgent string
	Timeout   time.Duration
}

// Client implements review.Fetcher for the Google Play Store.
type Client struct {
	cfg           Config
	http          *resty.Client
	baseCollector *colly.Collector
}

// New builds a Client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	if cfg.Country == "" {
		cfg.Country = "us"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	c.SetRequestTimeout(cfg.Timeout)

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)
	if cfg.UserAgent != "" {
		httpClient.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Client{cfg: cfg, http: httpClient, baseCollector: c}
}

// Fetch returns up to maxReviews normalized reviews for an app id.
func (c *Client) Fetch(ctx context.Context, appID string, maxReviews int) ([]review.Review, error) {
	title, err := c.appTitle(ctx, appID)
	if err != nil {
		return nil, err
	}

	raw, err := c.fetchReviews(ctx, appID, maxReviews)
	if err != nil {
		return nil, err
	}

	reviews := make([]review.Review, 0, len(raw))
	for _, r := range raw {
		if maxReviews > 0 && len(reviews) >= maxReviews {
			break
		}
		date := ""
		if !r.At.IsZero() {
			date = r.At.UTC().Format(review.DateFormat)
		}
		reviews = append(reviews, review.Review{
			AppName:      title,
			ReviewerName: r.Reviewer,
			Rating:       r.Rating,
			ReviewText:   r.Text,
			ReviewDate:   date,
			HelpfulCount: r.ThumbsUp,
			Platform:     review.GooglePlay.DisplayName(),
		})
	}
	return reviews, nil
}

// appTitle scrapes the app's display name from the store details page.
func (c *Client) appTitle(ctx context.Context, appID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("fetch app title: %w", err)
	}

	collector := c.baseCollector.Clone()
	var title string
	collector.OnHTML(`meta[property="og:title"]`, func(e *colly.HTMLElement) {
		if title == "" {
			title = strings.TrimSpace(e.Attr("content"))
		}
	})
	collector.OnHTML("h1", func(e *colly.HTMLElement) {
		if title == "" {
			title = strings.TrimSpace(e.Text)
		}
	})
	var visitErr error
	collector.OnError(func(_ *colly.Response, err error) {
		visitErr = err
	})

	pageURL := fmt.Sprintf("%s/store/apps/details?id=%s&hl=%s&gl=%s",
		c.cfg.BaseURL, url.QueryEscape(appID), c.cfg.Lang, c.cfg.Country)
	if err := collector.Visit(pageURL); err != nil {
		return "", fmt.Errorf("visit details page for %s: %w", appID, err)
	}
	collector.Wait()
	if visitErr != nil {
		return "", fmt.Errorf("fetch details page for %s: %w", appID, visitErr)
	}
	if title == "" {
		return "", fmt.Errorf("app title not found for %s", appID)
	}
	return strings.TrimSuffix(title, " - Apps on Google Play"), nil
}

func (c *Client) fetchReviews(ctx context.Context, appID string, maxReviews int) ([]playReview, error) {
	count := maxReviews
	if count <= 0 || count > maxReviewsPerCall {
		count = maxReviewsPerCall
	}

	form := url.Values{"f.req": {reviewsRequestEnvelope(appID, count)}}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8").
		SetQueryParams(map[string]string{
			"rpcids": reviewsRPCID,
			"hl":     c.cfg.Lang,
			"gl":     c.cfg.Country,
		}).
		SetBody(form.Encode()).
		Post(batchExecutePath)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews for %s: %w", appID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch reviews for %s: status %d", appID, resp.StatusCode())
	}
	return parseBatchResponse(resp.Body())
}

// reviewsRequestEnvelope builds the f.req body for the UsvDTd rpc:
// newest-first, no continuation token.
func reviewsRequestEnvelope(appID string, count int) string {
	inner := fmt.Sprintf(`[null,null,[2,null,[%d,null,null],null,[]],[%q,7]]`, count, appID)
	payload, _ := jsonMarshalString(inner)
	return fmt.Sprintf(`[[["%s",%s,null,"generic"]]]`, reviewsRPCID, payload)
}
