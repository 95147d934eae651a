// Package server exposes the check-in pipeline and journal analytics over
// HTTP, mirroring the pages of the original companion app: check-in,
// daily summary, trends, journal listing, and repair.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rajstories/EmotionLLM/internal/content"
	"github.com/rajstories/EmotionLLM/internal/detector"
	"github.com/rajstories/EmotionLLM/internal/journal"
	"github.com/rajstories/EmotionLLM/internal/pipeline"
	"github.com/rajstories/EmotionLLM/internal/stats"
	"github.com/rajstories/EmotionLLM/internal/theme"
)

const defaultWindowDays = 30

// Server handles HTTP requests for the emotion journal.
type Server struct {
	pipeline *pipeline.Pipeline
	store    *journal.Store
	addr     string
	now      func() time.Time
}

// New creates a Server over the given pipeline and store.
func New(p *pipeline.Pipeline, store *journal.Store, addr string) *Server {
	return &Server{pipeline: p, store: store, addr: addr, now: time.Now}
}

// Run starts the HTTP server and blocks.
func (s *Server) Run() error {
	slog.Info("server listening", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /checkin", s.checkIn)
	mux.HandleFunc("GET /stats/today", s.statsToday)
	mux.HandleFunc("GET /stats", s.statsWindow)
	mux.HandleFunc("GET /journal", s.listJournal)
	mux.HandleFunc("POST /journal/repair", s.repairJournal)
	mux.HandleFunc("GET /health", s.health)

	return withCORS(withRequestLog(mux))
}

// withCORS adds CORS headers for frontend development.
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

// withRequestLog tags each request with an ID and logs it.
func withRequestLog(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		start := time.Now()
		h.ServeHTTP(w, r)
		slog.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CheckInRequest is the request body for a check-in.
type CheckInRequest struct {
	Text string `json:"text"`
}

// CheckInResponse carries the classification plus the display-layer
// companions (reframe, affirmation, theme) for the detected emotion.
type CheckInResponse struct {
	Timestamp    time.Time          `json:"timestamp"`
	Emotion      string             `json:"emotion"`
	Confidence   float64            `json:"confidence"`
	Distribution map[string]float64 `json:"distribution"`
	Reframe      string             `json:"reframe"`
	Affirmation  string             `json:"affirmation"`
	Theme        theme.Theme        `json:"theme"`
}

func (s *Server) checkIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	event, cls, err := s.pipeline.CheckIn(r.Context(), req.Text)
	switch {
	case errors.Is(err, pipeline.ErrBlankInput):
		writeError(w, http.StatusBadRequest, "please share a few words first")
		return
	case errors.Is(err, detector.ErrUnavailable), errors.Is(err, detector.ErrEmptyText):
		slog.Error("classification failed", "err", err)
		writeError(w, http.StatusServiceUnavailable, "we couldn't understand that right now")
		return
	case err != nil:
		slog.Error("check-in failed", "err", err)
		writeError(w, http.StatusInternalServerError, "could not save your check-in")
		return
	}

	writeJSON(w, http.StatusOK, CheckInResponse{
		Timestamp:    event.Timestamp,
		Emotion:      event.Emotion,
		Confidence:   event.Confidence,
		Distribution: cls.Distribution,
		Reframe:      content.Reframe(event.Emotion),
		Affirmation:  content.Affirmation(event.Emotion),
		Theme:        theme.Lookup(event.Emotion),
	})
}

// TodayResponse is the daily summary. HasData false means "no data yet",
// which is not an error condition.
type TodayResponse struct {
	Date     string `json:"date"`
	Count    int    `json:"count"`
	Dominant string `json:"dominant,omitempty"`
	HasData  bool   `json:"hasData"`
}

func (s *Server) statsToday(w http.ResponseWriter, _ *http.Request) {
	events, _, err := s.pipeline.Snapshot()
	if err != nil {
		slog.Error("journal read failed", "err", err)
		writeError(w, http.StatusInternalServerError, "could not read the journal")
		return
	}

	now := s.now()
	sum := stats.SummaryForDate(events, now)
	writeJSON(w, http.StatusOK, TodayResponse{
		Date:     now.Format("2006-01-02"),
		Count:    sum.Count,
		Dominant: sum.Dominant,
		HasData:  sum.HasData,
	})
}

// WindowResponse carries the trend views for one window.
type WindowResponse struct {
	WindowDays        int               `json:"windowDays"`
	Total             int               `json:"total"`
	UniqueEmotions    int               `json:"uniqueEmotions"`
	AverageConfidence float64           `json:"averageConfidence"`
	HasData           bool              `json:"hasData"`
	Timeline          []TimelinePoint   `json:"timeline"`
	Distribution      map[string]int    `json:"distribution"`
	ConfidenceTrend   []ConfidencePoint `json:"confidenceTrend"`
	SkippedRows       int               `json:"skippedRows,omitempty"`
}

// TimelinePoint is a (date, emotion, count) group.
type TimelinePoint struct {
	Date    string `json:"date"`
	Emotion string `json:"emotion"`
	Count   int    `json:"count"`
}

// ConfidencePoint is a per-day mean confidence sample.
type ConfidencePoint struct {
	Date string  `json:"date"`
	Mean float64 `json:"mean"`
}

func (s *Server) statsWindow(w http.ResponseWriter, r *http.Request) {
	window := defaultWindowDays
	if v := r.URL.Query().Get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "window must be a positive integer")
			return
		}
		window = n
	}

	events, skipped, err := s.pipeline.Snapshot()
	if err != nil {
		slog.Error("journal read failed", "err", err)
		writeError(w, http.StatusInternalServerError, "could not read the journal")
		return
	}

	now := s.now()
	dist := stats.Distribution(events)
	avg, hasData := stats.AverageConfidence(events, now, window)

	timeline := make([]TimelinePoint, 0)
	for _, p := range stats.Timeline(events, now, window) {
		timeline = append(timeline, TimelinePoint{
			Date:    p.Date.Format("2006-01-02"),
			Emotion: p.Emotion,
			Count:   p.Count,
		})
	}
	trend := make([]ConfidencePoint, 0)
	for _, p := range stats.ConfidenceTrend(events, now, window) {
		trend = append(trend, ConfidencePoint{
			Date: p.Date.Format("2006-01-02"),
			Mean: p.Mean,
		})
	}

	writeJSON(w, http.StatusOK, WindowResponse{
		WindowDays:        window,
		Total:             len(events),
		UniqueEmotions:    len(dist),
		AverageConfidence: avg,
		HasData:           hasData,
		Timeline:          timeline,
		Distribution:      dist,
		ConfidenceTrend:   trend,
		SkippedRows:       skipped,
	})
}

// JournalEntry is one listed check-in.
type JournalEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
	Text       string    `json:"text"`
}

// JournalResponse lists recent entries, newest first.
type JournalResponse struct {
	Entries     []JournalEntry `json:"entries"`
	Total       int            `json:"total"`
	SkippedRows int            `json:"skippedRows,omitempty"`
}

func (s *Server) listJournal(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	events, skipped, err := s.pipeline.Snapshot()
	if err != nil {
		slog.Error("journal read failed", "err", err)
		writeError(w, http.StatusInternalServerError, "could not read the journal")
		return
	}

	entries := make([]JournalEntry, 0, limit)
	for i := len(events) - 1; i >= 0 && len(entries) < limit; i-- {
		ev := events[i]
		entries = append(entries, JournalEntry{
			Timestamp:  ev.Timestamp,
			Emotion:    ev.Emotion,
			Confidence: ev.Confidence,
			Text:       ev.Text,
		})
	}

	writeJSON(w, http.StatusOK, JournalResponse{
		Entries:     entries,
		Total:       len(events),
		SkippedRows: skipped,
	})
}

// RepairResponse reports what the normalization pass did.
type RepairResponse struct {
	Rows      int  `json:"rows"`
	Truncated int  `json:"truncated"`
	Padded    int  `json:"padded"`
	Dropped   int  `json:"dropped"`
	Changed   bool `json:"changed"`
}

func (s *Server) repairJournal(w http.ResponseWriter, _ *http.Request) {
	report, err := s.store.Normalize()
	if err != nil {
		slog.Error("journal repair failed", "err", err)
		writeError(w, http.StatusInternalServerError, "could not repair the journal")
		return
	}
	writeJSON(w, http.StatusOK, RepairResponse{
		Rows:      report.Rows,
		Truncated: report.Truncated,
		Padded:    report.Padded,
		Dropped:   report.Dropped,
		Changed:   report.Changed(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
