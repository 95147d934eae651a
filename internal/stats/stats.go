// Package stats computes summary views over a journal snapshot. Every
// function is a pure read over the events slice the caller passes in —
// nothing here touches storage, so results are deterministic for a fixed
// snapshot and the caller controls I/O by reading the journal once per
// render.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/rajstories/EmotionLLM/internal/model"
)

// Summary describes one calendar day of check-ins. HasData distinguishes
// "no check-ins that day" from a genuine result; when false, Count is 0
// and Dominant is empty.
type Summary struct {
	Count    int
	Dominant string
	HasData  bool
}

// TrendPoint is one (day, emotion) group in a windowed timeline.
type TrendPoint struct {
	Date    time.Time // midnight, local
	Emotion string
	Count   int
}

// DatePoint is a per-day mean confidence sample.
type DatePoint struct {
	Date time.Time
	Mean float64
}

// SummaryForDate reports the check-in count and dominant emotion for the
// local calendar day containing date. The dominant emotion is the most
// frequent label (case-insensitive), ties broken by first appearance in
// the filtered sequence.
func SummaryForDate(events []model.EmotionEvent, date time.Time) Summary {
	loc := date.Location()
	day := dayIn(date, loc)

	counts := make(map[string]int)
	var order []string
	total := 0
	for _, ev := range events {
		if !dayIn(ev.Timestamp, loc).Equal(day) {
			continue
		}
		total++
		key := normalize(ev.Emotion)
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}
	if total == 0 {
		return Summary{}
	}

	dominant := order[0]
	for _, key := range order[1:] {
		if counts[key] > counts[dominant] {
			dominant = key
		}
	}
	return Summary{Count: total, Dominant: dominant, HasData: true}
}

// Timeline groups events from the window [now − windowDays, now] by
// (calendar day, emotion) and counts each group. Points are ordered by
// ascending day, then by the emotion's first appearance within that day.
// An empty window yields an empty slice.
func Timeline(events []model.EmotionEvent, now time.Time, windowDays int) []TrendPoint {
	type key struct {
		day     time.Time
		emotion string
	}
	counts := make(map[key]int)
	firstSeen := make(map[key]int)

	for i, ev := range events {
		if !inWindow(ev.Timestamp, now, windowDays) {
			continue
		}
		k := key{day: dayIn(ev.Timestamp, now.Location()), emotion: normalize(ev.Emotion)}
		if counts[k] == 0 {
			firstSeen[k] = i
		}
		counts[k]++
	}

	points := make([]TrendPoint, 0, len(counts))
	for k, n := range counts {
		points = append(points, TrendPoint{Date: k.day, Emotion: k.emotion, Count: n})
	}
	sort.Slice(points, func(i, j int) bool {
		if !points[i].Date.Equal(points[j].Date) {
			return points[i].Date.Before(points[j].Date)
		}
		ki := key{day: points[i].Date, emotion: points[i].Emotion}
		kj := key{day: points[j].Date, emotion: points[j].Emotion}
		return firstSeen[ki] < firstSeen[kj]
	})
	return points
}

// Distribution is the full-history histogram of emotions, keyed by the
// lowercase-normalized label (the same key contract theme lookups use).
func Distribution(events []model.EmotionEvent) map[string]int {
	counts := make(map[string]int, len(events))
	for _, ev := range events {
		counts[normalize(ev.Emotion)]++
	}
	return counts
}

// AverageConfidence is the mean confidence over the windowed event set;
// windowDays <= 0 means full history. The second return value is false
// when the set is empty, so callers can tell "no data" apart from a
// genuine zero average.
func AverageConfidence(events []model.EmotionEvent, now time.Time, windowDays int) (float64, bool) {
	var sum float64
	n := 0
	for _, ev := range events {
		if windowDays > 0 && !inWindow(ev.Timestamp, now, windowDays) {
			continue
		}
		sum += ev.Confidence
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// ConfidenceTrend is the per-day mean confidence over the window,
// ascending by day.
func ConfidenceTrend(events []model.EmotionEvent, now time.Time, windowDays int) []DatePoint {
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, ev := range events {
		if !inWindow(ev.Timestamp, now, windowDays) {
			continue
		}
		day := dayIn(ev.Timestamp, now.Location())
		sums[day] += ev.Confidence
		counts[day]++
	}

	points := make([]DatePoint, 0, len(sums))
	for day, sum := range sums {
		points = append(points, DatePoint{Date: day, Mean: sum / float64(counts[day])})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// dayIn truncates a timestamp to its calendar day in loc, so that
// events recorded in different zones bucket onto one reference clock.
func dayIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func inWindow(ts, now time.Time, windowDays int) bool {
	from := now.AddDate(0, 0, -windowDays)
	return !ts.Before(from) && !ts.After(now)
}

func normalize(emotion string) string {
	return strings.ToLower(strings.TrimSpace(emotion))
}
