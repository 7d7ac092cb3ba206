// Package appstore fetches Apple App Store reviews through the public
// iTunes customer-reviews RSS feed and the iTunes lookup API.
package appstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/chiragp/store-review-scraper/internal/review"
)

const defaultBaseURL = "https://itunes.apple.com"

// Config controls the App Store client.
type Config struct {
	// BaseURL overrides the iTunes host, mainly for tests.
	BaseURL   string
	Country   string
	UserAgent string
	Timeout   time.Duration
}

// Client implements review.Fetcher for the Apple App Store.
type Client struct {
	cfg  Config
	http *resty.Client
}

// New builds a Client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Country == "" {
		cfg.Country = "us"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)
	if cfg.UserAgent != "" {
		httpClient.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &Client{cfg: cfg, http: httpClient}
}

// Fetch returns up to maxReviews normalized reviews for an app id. The feed
// does not expose helpful counts, so HelpfulCount is always zero.
func (c *Client) Fetch(ctx context.Context, appID string, maxReviews int) ([]review.Review, error) {
	appName, err := c.appName(ctx, appID)
	if err != nil {
		return nil, err
	}

	entries, err := c.feedEntries(ctx, appID)
	if err != nil {
		return nil, err
	}

	reviews := make([]review.Review, 0, len(entries))
	for _, e := range entries {
		if maxReviews > 0 && len(reviews) >= maxReviews {
			break
		}
		rating, _ := e.rating()
		reviews = append(reviews, review.Review{
			AppName:      appName,
			ReviewerName: e.Author.Name.Label,
			Rating:       rating,
			ReviewText:   e.Content.Label,
			ReviewDate:   formatFeedDate(e.Updated.Label),
			HelpfulCount: 0,
			Platform:     review.AppStore.DisplayName(),
		})
	}
	return reviews, nil
}

func (c *Client) appName(ctx context.Context, appID string) (string, error) {
	var lookup lookupResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id":      appID,
			"country": c.cfg.Country,
		}).
		SetResult(&lookup).
		Get("/lookup")
	if err != nil {
		return "", fmt.Errorf("lookup app %s: %w", appID, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("lookup app %s: status %d", appID, resp.StatusCode())
	}
	if len(lookup.Results) == 0 || lookup.Results[0].TrackName == "" {
		return fmt.Sprintf("App ID %s", appID), nil
	}
	return lookup.Results[0].TrackName, nil
}

func (c *Client) feedEntries(ctx context.Context, appID string) ([]rssEntry, error) {
	path := fmt.Sprintf(
		"/%s/rss/customerreviews/page=1/id=%s/sortby=mostrecent/json",
		c.cfg.Country, appID,
	)
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, fmt.Errorf("fetch review feed for %s: %w", appID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch review feed for %s: status %d", appID, resp.StatusCode())
	}
	return parseFeed(resp.Body())
}

type lookupResponse struct {
	Results []struct {
		TrackName string `json:"trackName"`
	} `json:"results"`
}

type label struct {
	Label string `json:"label"`
}

type rssEntry struct {
	Author struct {
		Name label `json:"name"`
	} `json:"author"`
	Rating  label `json:"im:rating"`
	Title   label `json:"title"`
	Content label `json:"content"`
	Updated label `json:"updated"`
}

func (e rssEntry) rating() (int, error) {
	var n int
	if _, err := fmt.Sscanf(e.Rating.Label, "%d", &n); err != nil {
		return 0, fmt.Errorf("parse rating %q: %w", e.Rating.Label, err)
	}
	return n, nil
}

type rssFeed struct {
	Feed struct {
		Entry json.RawMessage `json:"entry"`
	} `json:"feed"`
}

// parseFeed decodes the RSS JSON body. The entry field is an array for
// multiple reviews but a bare object when the feed holds exactly one.
func parseFeed(body []byte) ([]rssEntry, error) {
	var feed rssFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decode review feed: %w", err)
	}
	if len(feed.Feed.Entry) == 0 || string(feed.Feed.Entry) == "null" {
		return nil, nil
	}

	var entries []rssEntry
	if err := json.Unmarshal(feed.Feed.Entry, &entries); err == nil {
		return entries, nil
	}
	var single rssEntry
	if err := json.Unmarshal(feed.Feed.Entry, &single); err != nil {
		return nil, fmt.Errorf("decode feed entries: %w", err)
	}
	return []rssEntry{single}, nil
}

// formatFeedDate converts the feed's RFC3339 timestamps into the export
// layout. Unparseable dates come back blank rather than failing the fetch.
func formatFeedDate(raw string) string {
	if raw == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return ""
	}
	return t.UTC().Format(review.DateFormat)
}
