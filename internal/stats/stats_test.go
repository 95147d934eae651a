package stats

import (
	"math"
	"testing"
	"time"

	"github.com/rajstories/EmotionLLM/internal/model"
)

func at(day, hour int) time.Time {
	return time.Date(2026, 8, day, hour, 0, 0, 0, time.Local)
}

func event(ts time.Time, emotion string, confidence float64) model.EmotionEvent {
	return model.EmotionEvent{Timestamp: ts, Emotion: emotion, Confidence: confidence, Text: "t"}
}

func TestSummaryForDateEmpty(t *testing.T) {
	sum := SummaryForDate(nil, at(29, 12))
	if sum.HasData {
		t.Errorf("HasData = true for empty sequence")
	}
	if sum.Count != 0 || sum.Dominant != "" {
		t.Errorf("sum = %+v, want zero value", sum)
	}
}

func TestSummaryForDateFiltersDay(t *testing.T) {
	events := []model.EmotionEvent{
		event(at(28, 23), "sad", 0.5),
		event(at(29, 9), "happy", 0.9),
		event(at(29, 12), "Happy", 0.8), // case-insensitive counting
		event(at(29, 15), "anxious", 0.7),
		event(at(30, 1), "angry", 0.6),
	}

	sum := SummaryForDate(events, at(29, 18))
	if !sum.HasData {
		t.Fatal("HasData = false")
	}
	if sum.Count != 3 {
		t.Errorf("Count = %d, want 3", sum.Count)
	}
	if sum.Dominant != "happy" {
		t.Errorf("Dominant = %q, want happy", sum.Dominant)
	}
}

func TestSummaryForDateTieBreaksFirstEncountered(t *testing.T) {
	events := []model.EmotionEvent{
		event(at(29, 9), "anxious", 0.7),
		event(at(29, 10), "happy", 0.9),
		event(at(29, 11), "happy", 0.9),
		event(at(29, 12), "anxious", 0.7),
	}
	sum := SummaryForDate(events, at(29, 18))
	if sum.Dominant != "anxious" {
		t.Errorf("Dominant = %q, want anxious (first encountered)", sum.Dominant)
	}
}

func TestSummaryForDateCrossZone(t *testing.T) {
	// 10:00 UTC and 18:00 IST on the same date are hours apart but share
	// the IST calendar day; grouping must follow the query's zone, not
	// each event's own.
	ist := time.FixedZone("IST", 5*3600+30*60)
	events := []model.EmotionEvent{
		event(time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC), "happy", 0.9),
	}

	sum := SummaryForDate(events, time.Date(2026, 8, 29, 18, 0, 0, 0, ist))
	if sum.Count != 1 {
		t.Errorf("Count = %d, want 1", sum.Count)
	}
	if sum.Dominant != "happy" {
		t.Errorf("Dominant = %q, want happy", sum.Dominant)
	}
}

func TestTimelineWindowAndOrder(t *testing.T) {
	now := at(29, 18)
	events := []model.EmotionEvent{
		event(at(1, 10), "sad", 0.5), // outside a 7-day window
		event(at(27, 9), "anxious", 0.7),
		event(at(27, 11), "happy", 0.9),
		event(at(27, 14), "anxious", 0.8),
		event(at(29, 9), "neutral", 0.6),
	}

	points := Timeline(events, now, 7)
	want := []TrendPoint{
		{Date: at(27, 0), Emotion: "anxious", Count: 2},
		{Date: at(27, 0), Emotion: "happy", Count: 1},
		{Date: at(29, 0), Emotion: "neutral", Count: 1},
	}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d: %+v", len(points), len(want), points)
	}
	for i := range want {
		if !points[i].Date.Equal(want[i].Date) || points[i].Emotion != want[i].Emotion || points[i].Count != want[i].Count {
			t.Errorf("point %d = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestTimelineSameInstantAcrossZones(t *testing.T) {
	// The same instant expressed in two zones is one occurrence on the
	// reference calendar, not two.
	ist := time.FixedZone("IST", 5*3600+30*60)
	instant := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	now := time.Date(2026, 8, 29, 23, 0, 0, 0, ist)
	events := []model.EmotionEvent{
		event(instant, "calm", 0.8),
		event(instant.In(ist), "calm", 0.8),
	}

	points := Timeline(events, now, 7)
	if len(points) != 1 {
		t.Fatalf("got %d points, want 1: %+v", len(points), points)
	}
	if points[0].Count != 2 {
		t.Errorf("Count = %d, want 2", points[0].Count)
	}
	wantDay := time.Date(2026, 8, 29, 0, 0, 0, 0, ist)
	if !points[0].Date.Equal(wantDay) {
		t.Errorf("Date = %v, want %v", points[0].Date, wantDay)
	}
}

func TestTimelineEmptyWindow(t *testing.T) {
	events := []model.EmotionEvent{event(at(1, 10), "sad", 0.5)}
	points := Timeline(events, at(29, 12), 7)
	if len(points) != 0 {
		t.Errorf("got %d points, want 0", len(points))
	}
}

func TestDistribution(t *testing.T) {
	events := []model.EmotionEvent{
		event(at(29, 9), "Anxious", 0.8),
		event(at(29, 10), "anxious", 0.7),
		event(at(29, 11), "happy", 0.9),
	}
	dist := Distribution(events)
	if dist["anxious"] != 2 || dist["happy"] != 1 {
		t.Errorf("dist = %v, want anxious:2 happy:1", dist)
	}
	if len(dist) != 2 {
		t.Errorf("unique emotions = %d, want 2", len(dist))
	}
}

func TestDistributionSingleEvent(t *testing.T) {
	dist := Distribution([]model.EmotionEvent{event(at(29, 9), "anxious", 0.82)})
	if len(dist) != 1 || dist["anxious"] != 1 {
		t.Errorf("dist = %v, want {anxious: 1}", dist)
	}
}

func TestAverageConfidence(t *testing.T) {
	now := at(29, 18)
	events := []model.EmotionEvent{
		event(at(1, 10), "sad", 0.1), // outside 7-day window
		event(at(28, 10), "happy", 0.8),
		event(at(29, 10), "happy", 0.6),
	}

	avg, ok := AverageConfidence(events, now, 7)
	if !ok {
		t.Fatal("ok = false with data in window")
	}
	if math.Abs(avg-0.7) > 1e-9 {
		t.Errorf("avg = %v, want 0.7", avg)
	}

	// windowDays <= 0 means full history.
	avg, ok = AverageConfidence(events, now, 0)
	if !ok {
		t.Fatal("ok = false for full history")
	}
	if math.Abs(avg-0.5) > 1e-9 {
		t.Errorf("full-history avg = %v, want 0.5", avg)
	}
}

func TestAverageConfidenceNoData(t *testing.T) {
	avg, ok := AverageConfidence(nil, at(29, 12), 7)
	if ok {
		t.Error("ok = true for empty set; no-data must be distinguishable from zero average")
	}
	if avg != 0 {
		t.Errorf("avg = %v, want 0", avg)
	}
}

func TestConfidenceTrend(t *testing.T) {
	now := at(29, 18)
	events := []model.EmotionEvent{
		event(at(28, 9), "happy", 0.6),
		event(at(28, 15), "sad", 0.8),
		event(at(29, 10), "neutral", 0.5),
	}

	points := ConfidenceTrend(events, now, 7)
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if !points[0].Date.Before(points[1].Date) {
		t.Error("points not in ascending date order")
	}
	if math.Abs(points[0].Mean-0.7) > 1e-9 {
		t.Errorf("day 1 mean = %v, want 0.7", points[0].Mean)
	}
	if math.Abs(points[1].Mean-0.5) > 1e-9 {
		t.Errorf("day 2 mean = %v, want 0.5", points[1].Mean)
	}
}
