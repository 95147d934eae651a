// Package journal persists emotion events to an append-only CSV file and
// owns the schema repair pass for journals whose rows drifted from the
// canonical 4-column layout.
package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rajstories/EmotionLLM/internal/model"
)

// ErrStorage indicates a filesystem-level failure opening or writing the
// journal. The operation is aborted; previously written rows are untouched.
var ErrStorage = errors.New("journal storage unavailable")

// timeLayout is how timestamps serialize: timezone-naive local time,
// matching journals written by earlier versions of the tool.
const timeLayout = "2006-01-02 15:04:05"

// canonicalHeader is the declared row schema. Readers additionally accept
// "intensity" as a synonym for "confidence" and "note" for "text" in
// legacy headers; writers emit exactly these four.
var canonicalHeader = []string{"timestamp", "emotion", "confidence", "text"}

// Store is an append-only journal backed by a single CSV file.
// It assumes at most one writer process at a time.
type Store struct {
	path string
}

// New creates a Store for the journal file at path. The file is created
// lazily on first append; a missing file reads as an empty journal.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the journal file location.
func (s *Store) Path() string {
	return s.path
}

// Append serializes one event and appends it as a single CSV row. The file
// (and its directory) is created with a header row when absent. Append
// never rewrites or truncates existing content.
func (s *Store) Append(event model.EmotionEvent) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("journal: %w: %w", ErrStorage, err)
	}

	needHeader := true
	if info, err := os.Stat(s.path); err == nil && info.Size() > 0 {
		needHeader = false
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("journal: %w: open %s: %w", ErrStorage, s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(canonicalHeader); err != nil {
			return fmt.Errorf("journal: %w: write header: %w", ErrStorage, err)
		}
	}
	record := []string{
		event.Timestamp.Format(timeLayout),
		event.Emotion,
		strconv.FormatFloat(event.Confidence, 'f', -1, 64),
		event.Text,
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("journal: %w: write row: %w", ErrStorage, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("journal: %w: flush: %w", ErrStorage, err)
	}
	return nil
}

// ReadAll returns every parseable row in insertion order, plus the number
// of malformed rows that were skipped. Rows with the wrong column count
// are coerced the same way Normalize repairs them (over-wide truncated,
// under-wide padded) before validation; rows whose fields cannot be
// coerced — an unparseable timestamp, a confidence that is missing,
// non-numeric, or outside [0,1] — are skipped and counted, never returned
// as garbage and never allowed to abort the remaining rows.
//
// A missing or empty journal file is an empty journal, not an error.
func (s *Store) ReadAll() ([]model.EmotionEvent, int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("journal: %w: open %s: %w", ErrStorage, s.path, err)
	}
	defer f.Close()

	r := newRowReader(f)

	cols := defaultColumns()
	var events []model.EmotionEvent
	skipped := 0

	first, err := r.Read()
	switch {
	case err == io.EOF:
		return nil, 0, nil
	case err != nil:
		skipped++
	case isHeader(first):
		cols = mapColumns(first)
	default:
		if ev, ok := parseRow(first, cols); ok {
			events = append(events, ev)
		} else {
			skipped++
		}
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			skipped++
			continue
		}
		if err != nil {
			// A failing reader repeats its error; keep the valid prefix
			// rather than spin or discard it.
			skipped++
			break
		}
		if ev, ok := parseRow(row, cols); ok {
			events = append(events, ev)
		} else {
			skipped++
		}
	}

	return events, skipped, nil
}

// newRowReader builds a CSV reader tolerant enough to surface malformed
// rows for repair instead of failing the whole file.
func newRowReader(f *os.File) *csv.Reader {
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r
}

// columns maps each canonical field to its position in a row.
type columns struct {
	timestamp, emotion, confidence, text int
}

func defaultColumns() columns {
	return columns{timestamp: 0, emotion: 1, confidence: 2, text: 3}
}

// isHeader reports whether a row is a header rather than data. The first
// column of every journal this tool has ever written is named "timestamp".
func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "timestamp")
}

// mapColumns resolves canonical field positions from a header row,
// honoring the legacy synonyms ("intensity" for confidence, "note" for
// text). Fields absent from the header keep their declared positions.
func mapColumns(header []string) columns {
	cols := defaultColumns()
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "timestamp":
			cols.timestamp = i
		case "emotion":
			cols.emotion = i
		case "confidence", "intensity":
			cols.confidence = i
		case "text", "note":
			cols.text = i
		}
	}
	return cols
}

// parseRow coerces one data row into an EmotionEvent. Returns false when a
// required field is absent or cannot be coerced.
func parseRow(row []string, cols columns) (model.EmotionEvent, bool) {
	field := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	ts, ok := parseTimestamp(field(cols.timestamp))
	if !ok {
		return model.EmotionEvent{}, false
	}

	emotion := strings.TrimSpace(field(cols.emotion))
	if emotion == "" {
		return model.EmotionEvent{}, false
	}

	conf, err := strconv.ParseFloat(strings.TrimSpace(field(cols.confidence)), 64)
	if err != nil || conf < 0 || conf > 1 {
		return model.EmotionEvent{}, false
	}

	return model.EmotionEvent{
		Timestamp:  ts,
		Emotion:    emotion,
		Confidence: conf,
		Text:       field(cols.text),
	}, true
}

// parseTimestamp accepts the canonical naive layout plus RFC 3339 for
// journals produced by other tooling.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if ts, err := time.ParseInLocation(timeLayout, s, time.Local); err == nil {
		return ts, true
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		// Zone-qualified rows convert to the local clock so every
		// event in memory shares one calendar.
		return ts.In(time.Local), true
	}
	return time.Time{}, false
}
