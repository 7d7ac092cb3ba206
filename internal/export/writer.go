// Package export serializes normalized reviews to CSV files in a local
// export directory and serves them back for download.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/chiragp/store-review-scraper/internal/review"
)

// ErrNotFound is returned when a requested export does not exist.
var ErrNotFound = errors.New("export file not found")

// Columns is the fixed CSV column order.
var Columns = []string{
	"app_name",
	"reviewer_name",
	"rating",
	"review_text",
	"review_date",
	"helpful_count",
	"platform",
}

const (
	timestampLayout  = "20060102_150405"
	maxAppNameLength = 50
	suffixLength     = 8
)

var unsafeNameChars = regexp.MustCompile(`[ /\\]+`)

// Writer writes CSV exports into a single directory.
type Writer struct {
	dir   string
	clock review.Clock
	idGen review.IDGenerator
}

// DefaultDir returns the export directory used when none is configured.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), "reviews")
}

// New creates a Writer rooted at dir, creating it if necessary.
func New(dir string, clock review.Clock, idGen review.IDGenerator) (*Writer, error) {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir()
	}

	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, fmt.Errorf("export path is not a directory: %s", dir)
		}
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(dir, 0o750); mkErr != nil {
			return nil, fmt.Errorf("create export directory: %w", mkErr)
		}
	default:
		return nil, fmt.Errorf("stat export directory: %w", err)
	}

	// Check for write permissions up front so requests fail fast later.
	probe := filepath.Join(dir, ".writable_test")
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		return nil, fmt.Errorf("export directory is not writable: %w", err)
	}
	if err := os.Remove(probe); err != nil {
		return nil, fmt.Errorf("clean up probe file: %w", err)
	}

	return &Writer{dir: dir, clock: clock, idGen: idGen}, nil
}

// Dir returns the directory exports are written to.
func (w *Writer) Dir() string {
	return w.dir
}

// Write serializes reviews to a new CSV file and returns its filename.
// The name embeds the sanitized app name, a second-granularity timestamp,
// and a short unique suffix so concurrent scrapes never overwrite each other.
func (w *Writer) Write(reviews []review.Review, appName string) (string, error) {
	id, err := w.idGen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate filename suffix: %w", err)
	}
	// The leading bytes of a UUID7 are a timestamp; take the suffix from the
	// random tail so same-second writes still get distinct names.
	suffix := strings.ReplaceAll(id, "-", "")
	if len(suffix) > suffixLength {
		suffix = suffix[len(suffix)-suffixLength:]
	}
	filename := fmt.Sprintf("reviews_%s_%s_%s.csv",
		sanitizeAppName(appName),
		w.clock.Now().Format(timestampLayout),
		suffix,
	)

	f, err := os.Create(filepath.Join(w.dir, filename))
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(Columns); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, r := range reviews {
		record := []string{
			r.AppName,
			r.ReviewerName,
			strconv.Itoa(r.Rating),
			r.ReviewText,
			r.ReviewDate,
			strconv.Itoa(r.HelpfulCount),
			r.Platform,
		}
		if err := cw.Write(record); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("flush csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return filename, nil
}

// Open returns the named export for download. Names containing path
// separators are rejected so callers cannot escape the export directory.
func (w *Writer) Open(filename string) (*os.File, error) {
	if filename == "" || filename == "." || filename == ".." ||
		filename != filepath.Base(filename) || strings.ContainsAny(filename, `/\`) {
		return nil, ErrNotFound
	}
	f, err := os.Open(filepath.Join(w.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open export file: %w", err)
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		_ = f.Close()
		return nil, ErrNotFound
	}
	return f, nil
}

func sanitizeAppName(name string) string {
	clean := unsafeNameChars.ReplaceAllString(name, "_")
	// Truncate by runes so multi-byte store listings stay valid UTF-8.
	if runes := []rune(clean); len(runes) > maxAppNameLength {
		clean = string(runes[:maxAppNameLength])
	}
	return clean
}
