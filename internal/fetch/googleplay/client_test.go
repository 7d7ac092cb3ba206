package googleplay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chiragp/store-review-scraper/internal/review"
)

const detailsPage = `<!DOCTYPE html>
<html>
<head>
  <meta property="og:title" content="Example Tasks">
</head>
<body><h1>Example Tasks</h1></body>
</html>`

// batchFixture mirrors the batchexecute wire shape: anti-JSON prefix, then a
// frame array whose UsvDTd payload is itself a JSON string.
func batchFixture(t *testing.T) string {
	t.Helper()
	rows := []any{
		[]any{
			"gp:review-1",
			[]any{"alice", []any{}},
			float64(5),
			nil,
			"Great app, use it daily.",
			[]any{float64(1743500000), float64(0)},
			float64(12),
		},
		[]any{
			"gp:review-2",
			[]any{"bob", []any{}},
			float64(2),
			nil,
			"Started crashing after the update.",
			[]any{float64(1743400000), float64(0)},
			float64(3),
		},
	}
	payload, err := json.Marshal([]any{rows, nil})
	require.NoError(t, err)
	frames, err := json.Marshal([]any{
		[]any{"wrb.fr", "UsvDTd", string(payload), nil, nil, nil, "generic"},
		[]any{"di", float64(30)},
	})
	require.NoError(t, err)
	return ")]}'\n\n" + string(frames)
}

func newPlayServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/store/apps/details", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, detailsPage)
	})
	mux.HandleFunc(batchExecutePath, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, batchFixture(t))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Fetch_MapsReviews(t *testing.T) {
	t.Parallel()

	srv := newPlayServer(t)
	client := New(Config{BaseURL: srv.URL})

	reviews, err := client.Fetch(context.Background(), "com.example.tasks", 500)
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	first := reviews[0]
	require.Equal(t, "Example Tasks", first.AppName)
	require.Equal(t, "alice", first.ReviewerName)
	require.Equal(t, 5, first.Rating)
	require.Equal(t, "Great app, use it daily.", first.ReviewText)
	require.Equal(t, 12, first.HelpfulCount)
	require.Equal(t, "Google Play Store", first.Platform)
	require.NotEmpty(t, first.ReviewDate)

	require.Equal(t, "bob", reviews[1].ReviewerName)
	require.Equal(t, 3, reviews[1].HelpfulCount)
}

func TestClient_Fetch_RespectsMax(t *testing.T) {
	t.Parallel()

	srv := newPlayServer(t)
	client := New(Config{BaseURL: srv.URL})

	reviews, err := client.Fetch(context.Background(), "com.example.tasks", 1)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
}

func TestClient_Fetch_DetailsPageMissing(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	client := New(Config{BaseURL: srv.URL})

	_, err := client.Fetch(context.Background(), "com.gone.app", 10)
	require.Error(t, err)
}

func TestParseBatchResponse_Fixture(t *testing.T) {
	t.Parallel()

	reviews, err := parseBatchResponse([]byte(batchFixture(t)))
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	require.Equal(t, "alice", reviews[0].Reviewer)
	require.Equal(t, 5, reviews[0].Rating)
	require.Equal(t, "Great app, use it daily.", reviews[0].Text)
	require.Equal(t, 12, reviews[0].ThumbsUp)
	require.False(t, reviews[0].At.IsZero())
}

func TestParseBatchResponse_Malformed(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"", ")]}'", ")]}'\nnot json", ")]}'\n[]"} {
		_, err := parseBatchResponse([]byte(body))
		require.Error(t, err, "body %q", body)
	}
}

func TestReviewsRequestEnvelope(t *testing.T) {
	t.Parallel()

	envelope := reviewsRequestEnvelope("com.example.app", 150)
	require.Contains(t, envelope, reviewsRPCID)
	require.Contains(t, envelope, "com.example.app")
	require.Contains(t, envelope, "150")

	// The envelope itself must be valid JSON with the payload as a string
	// that is itself valid JSON.
	var outer [][][]any
	require.NoError(t, json.Unmarshal([]byte(envelope), &outer))
	require.Len(t, outer, 1)
	require.Len(t, outer[0], 1)
	frame := outer[0][0]
	require.Equal(t, reviewsRPCID, frame[0])
	payload, ok := frame[1].(string)
	require.True(t, ok)
	var inner []any
	require.NoError(t, json.Unmarshal([]byte(payload), &inner))
}

var _ review.Fetcher = (*Client)(nil)
