// Package pipeline connects the detector and the journal into the
// check-in flow: user text in, classified and persisted event out.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rajstories/EmotionLLM/internal/detector"
	"github.com/rajstories/EmotionLLM/internal/journal"
	"github.com/rajstories/EmotionLLM/internal/model"
)

// ErrBlankInput indicates the submitted text is empty after trimming.
// Blank submissions never reach the classifier.
var ErrBlankInput = errors.New("input text is blank")

// Pipeline runs one synchronous classify-and-append cycle per check-in.
type Pipeline struct {
	detector detector.Detector
	store    *journal.Store
	now      func() time.Time
}

// New creates a Pipeline from the given components.
func New(det detector.Detector, store *journal.Store) *Pipeline {
	return &Pipeline{detector: det, store: store, now: time.Now}
}

// CheckIn classifies text and appends the resulting event to the journal.
// This is the single place an EmotionEvent is constructed. A
// classification failure aborts before any persistence — the journal must
// never receive a fabricated label — and an append failure aborts that
// event without touching prior rows.
func (p *Pipeline) CheckIn(ctx context.Context, text string) (model.EmotionEvent, model.Classification, error) {
	if strings.TrimSpace(text) == "" {
		return model.EmotionEvent{}, model.Classification{}, ErrBlankInput
	}

	cls, err := p.detector.Predict(ctx, text)
	if err != nil {
		return model.EmotionEvent{}, model.Classification{}, fmt.Errorf("pipeline: classify: %w", err)
	}

	event := model.EmotionEvent{
		Timestamp:  p.now(),
		Emotion:    cls.Label,
		Confidence: cls.Confidence,
		Text:       text,
	}

	if err := p.store.Append(event); err != nil {
		return model.EmotionEvent{}, model.Classification{}, fmt.Errorf("pipeline: append: %w", err)
	}

	slog.Debug("check-in recorded",
		"emotion", event.Emotion,
		"confidence", event.Confidence,
	)
	return event, cls, nil
}

// Snapshot reads the full journal once for aggregation. The skipped count
// surfaces malformed rows to the caller for diagnostics.
func (p *Pipeline) Snapshot() ([]model.EmotionEvent, int, error) {
	events, skipped, err := p.store.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("pipeline: read journal: %w", err)
	}
	if skipped > 0 {
		slog.Warn("journal has malformed rows", "skipped", skipped, "path", p.store.Path())
	}
	return events, skipped, nil
}
