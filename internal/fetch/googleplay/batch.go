package googleplay

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// playReview is one raw review row from the batchexecute payload.
type playReview struct {
	Reviewer string
	Rating   int
	Text     string
	At       time.Time
	ThumbsUp int
}

// Positions of review fields inside a payload row. These mirror the play
// web UI's wire format and break if Google reshuffles it.
const (
	rowIdxAuthor   = 1
	rowIdxRating   = 2
	rowIdxText     = 4
	rowIdxAt       = 5
	rowIdxThumbsUp = 6
)

const antiJSONPrefix = ")]}'"

// parseBatchResponse unwraps a batchexecute body down to review rows. The
// body starts with an anti-JSON prefix, optionally interleaves chunk-length
// lines, and carries the real payload as a JSON string inside a "wrb.fr"
// frame for our rpc id.
func parseBatchResponse(body []byte) ([]playReview, error) {
	payload, err := extractPayload(body)
	if err != nil {
		return nil, err
	}

	var data []any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("decode review payload: %w", err)
	}
	rows, ok := elementAt(data, 0).([]any)
	if !ok {
		return nil, errors.New("review payload has no rows")
	}

	reviews := make([]playReview, 0, len(rows))
	for _, raw := range rows {
		row, ok := raw.([]any)
		if !ok {
			continue
		}
		r := playReview{
			Reviewer: stringAt(row, rowIdxAuthor, 0),
			Rating:   int(numberAt(row, rowIdxRating)),
			Text:     stringAt(row, rowIdxText),
			ThumbsUp: int(numberAt(row, rowIdxThumbsUp)),
		}
		if secs := numberAt(row, rowIdxAt, 0); secs > 0 {
			r.At = time.Unix(int64(secs), 0)
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

func extractPayload(body []byte) (string, error) {
	s := strings.TrimSpace(string(body))
	s = strings.TrimPrefix(s, antiJSONPrefix)
	idx := strings.Index(s, "[")
	if idx < 0 {
		return "", errors.New("malformed batch response")
	}

	var frames [][]any
	dec := json.NewDecoder(strings.NewReader(s[idx:]))
	if err := dec.Decode(&frames); err != nil {
		return "", fmt.Errorf("decode batch frames: %w", err)
	}
	for _, frame := range frames {
		if len(frame) < 3 {
			continue
		}
		kind, _ := frame[0].(string)
		rpcID, _ := frame[1].(string)
		if kind != "wrb.fr" || rpcID != reviewsRPCID {
			continue
		}
		payload, ok := frame[2].(string)
		if !ok {
			return "", errors.New("batch frame payload is not a string")
		}
		return payload, nil
	}
	return "", errors.New("review payload not found in batch response")
}

// elementAt walks nested []any values by index, returning nil when the path
// runs off the structure.
func elementAt(v []any, path ...int) any {
	cur := any(v)
	for _, i := range path {
		arr, ok := cur.([]any)
		if !ok || i < 0 || i >= len(arr) {
			return nil
		}
		cur = arr[i]
	}
	return cur
}

func stringAt(v []any, path ...int) string {
	s, _ := elementAt(v, path...).(string)
	return s
}

func numberAt(v []any, path ...int) float64 {
	n, _ := elementAt(v, path...).(float64)
	return n
}

// jsonMarshalString encodes s as a JSON string literal.
func jsonMarshalString(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal string: %w", err)
	}
	return string(b), nil
}
