// Package review contains the scraper domain: storefront detection, app id
// extraction, and the fetch service that normalizes reviews from both stores.
package review

import "time"

// Platform identifies the storefront a URL belongs to.
type Platform string

const (
	// GooglePlay is the Google Play Store.
	GooglePlay Platform = "google_play"
	// AppStore is the Apple App Store.
	AppStore Platform = "app_store"
	// Unknown marks URLs that match no supported storefront.
	Unknown Platform = ""
)

// DisplayName returns the human-readable storefront label used in exports.
func (p Platform) DisplayName() string {
	switch p {
	case GooglePlay:
		return "Google Play Store"
	case AppStore:
		return "Apple App Store"
	default:
		return ""
	}
}

// DateFormat is the fixed layout for the review_date column.
const DateFormat = "2006-01-02 15:04:05"

// Review is one normalized storefront review.
type Review struct {
	AppName      string `json:"app_name"`
	ReviewerName string `json:"reviewer_name"`
	Rating       int    `json:"rating"`
	ReviewText   string `json:"review_text"`
	ReviewDate   string `json:"review_date"`
	HelpfulCount int    `json:"helpful_count"`
	Platform     string `json:"platform"`
}

// Clock abstracts time.Now so demo data and filenames are testable.
type Clock interface {
	Now() time.Time
}

// IDGenerator produces unique identifiers for export filenames.
type IDGenerator interface {
	NewID() (string, error)
}
