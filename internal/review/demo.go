package review

import (
	"fmt"
	"time"
)

// demoEntry is the static part of one fallback review.
type demoEntry struct {
	reviewer string
	rating   int
	text     string
	helpful  int
}

var demoEntries = []demoEntry{
	{
		reviewer: "Demo User 1",
		rating:   5,
		text:     "Great app! Works perfectly and has a beautiful interface.",
		helpful:  15,
	},
	{
		reviewer: "Demo User 2",
		rating:   4,
		text:     "Very useful app. The yellow theme looks amazing!",
		helpful:  8,
	},
	{
		reviewer: "Demo User 3",
		rating:   5,
		text:     "Excellent functionality and easy to use. Highly recommended!",
		helpful:  22,
	},
}

// DemoReviews returns the fixed fallback dataset used when live scraping is
// unavailable. The records are tagged with the requested platform's display
// name and carry the app id so callers can still see what was asked for.
func DemoReviews(platform Platform, appID string, now time.Time) []Review {
	appName := fmt.Sprintf("Demo App (%s)", appID)
	date := now.Format(DateFormat)
	reviews := make([]Review, 0, len(demoEntries))
	for _, e := range demoEntries {
		reviews = append(reviews, Review{
			AppName:      appName,
			ReviewerName: e.reviewer,
			Rating:       e.rating,
			ReviewText:   e.text,
			ReviewDate:   date,
			HelpfulCount: e.helpful,
			Platform:     platform.DisplayName(),
		})
	}
	return reviews
}
