package journal

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rajstories/EmotionLLM/internal/model"
	"github.com/rajstories/EmotionLLM/internal/stats"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "emotion_journal.csv"))
}

func testEvent(emotion string, confidence float64, text string) model.EmotionEvent {
	return model.EmotionEvent{
		Timestamp:  time.Date(2026, 8, 29, 14, 30, 0, 0, time.Local),
		Emotion:    emotion,
		Confidence: confidence,
		Text:       text,
	}
}

func TestReadAllMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	events, skipped, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if len(events) != 0 || skipped != 0 {
		t.Errorf("got %d events, %d skipped; want empty journal", len(events), skipped)
	}
}

func TestReadAllEmptyFile(t *testing.T) {
	s := testStore(t)
	if err := os.WriteFile(s.Path(), nil, 0644); err != nil {
		t.Fatal(err)
	}
	events, skipped, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if len(events) != 0 || skipped != 0 {
		t.Errorf("got %d events, %d skipped; want empty journal", len(events), skipped)
	}
}

func TestAppendReadAllRoundTrip(t *testing.T) {
	s := testStore(t)
	want := []model.EmotionEvent{
		testEvent("anxious", 0.82, "I can't focus and I'm overwhelmed"),
		testEvent("happy", 0.91, "got the job, commas, \"quotes\" and all"),
		testEvent("sad", 0.5, "multi\nline\ntext"),
	}
	for _, ev := range want {
		if err := s.Append(ev); err != nil {
			t.Fatalf("Append error: %v", err)
		}
	}

	got, skipped, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Emotion != want[i].Emotion {
			t.Errorf("event %d: emotion = %q, want %q", i, got[i].Emotion, want[i].Emotion)
		}
		if got[i].Text != want[i].Text {
			t.Errorf("event %d: text = %q, want %q", i, got[i].Text, want[i].Text)
		}
		if math.Abs(got[i].Confidence-want[i].Confidence) > 1e-9 {
			t.Errorf("event %d: confidence = %v, want %v", i, got[i].Confidence, want[i].Confidence)
		}
		if !got[i].Timestamp.Equal(want[i].Timestamp) {
			t.Errorf("event %d: timestamp = %v, want %v", i, got[i].Timestamp, want[i].Timestamp)
		}
	}
}

func TestAppendDoesNotRewriteExistingRows(t *testing.T) {
	s := testStore(t)
	if err := s.Append(testEvent("happy", 0.9, "first")); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Append(testEvent("sad", 0.4, "second")); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	after, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(string(after), string(before)) {
		t.Error("append rewrote previously written bytes")
	}
}

func TestReadAllSkipsUnparseableRows(t *testing.T) {
	s := testStore(t)
	raw := strings.Join([]string{
		"timestamp,emotion,confidence,text",
		"2026-08-29 10:00:00,happy,0.9,fine",
		"2026-08-29 11:00:00,angry,not-a-number,bad confidence",
		"not-a-timestamp,sad,0.5,bad timestamp",
		"2026-08-29 12:00:00,anxious,1.5,out of range",
		"2026-08-29 13:00:00,neutral,0.6,ok",
		"",
	}, "\n")
	if err := os.WriteFile(s.Path(), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	events, skipped, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
	if events[0].Emotion != "happy" || events[1].Emotion != "neutral" {
		t.Errorf("kept rows in wrong order: %q, %q", events[0].Emotion, events[1].Emotion)
	}
}

func TestReadAllHeaderSynonyms(t *testing.T) {
	s := testStore(t)
	raw := strings.Join([]string{
		"timestamp,emotion,intensity,note",
		"2026-08-29 10:00:00,happy,0.75,legacy row",
		"",
	}, "\n")
	if err := os.WriteFile(s.Path(), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	events, skipped, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Confidence != 0.75 {
		t.Errorf("confidence = %v, want 0.75 (from intensity column)", events[0].Confidence)
	}
	if events[0].Text != "legacy row" {
		t.Errorf("text = %q, want %q (from note column)", events[0].Text, "legacy row")
	}
}

func TestReadAllRFC3339Timestamps(t *testing.T) {
	s := testStore(t)
	raw := "timestamp,emotion,confidence,text\n2026-08-29T10:00:00Z,happy,0.9,rfc3339 row\n"
	if err := os.WriteFile(s.Path(), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	events, _, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	want := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	if !events[0].Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", events[0].Timestamp, want)
	}
	if events[0].Timestamp.Location() != time.Local {
		t.Errorf("location = %v, want local; zone-qualified rows must land on the local calendar", events[0].Timestamp.Location())
	}
}

func TestRFC3339RowCountsTowardItsLocalDay(t *testing.T) {
	s := testStore(t)
	raw := "timestamp,emotion,confidence,text\n2026-08-29T10:00:00Z,happy,0.9,rfc3339 row\n"
	if err := os.WriteFile(s.Path(), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	events, _, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	sum := stats.SummaryForDate(events, events[0].Timestamp)
	if sum.Count != 1 {
		t.Errorf("Count = %d, want 1; a stored row must show up in its own day's summary", sum.Count)
	}
}

func TestOwnWriteVisibleToOwnRead(t *testing.T) {
	s := testStore(t)
	if err := s.Append(testEvent("anxious", 0.82, "just wrote this")); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	events, _, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if len(events) != 1 || events[0].Text != "just wrote this" {
		t.Fatalf("append not observed by immediate read: %+v", events)
	}
}
