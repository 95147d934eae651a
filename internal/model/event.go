package model

import "time"

// EmotionEvent is one journal entry — a single classified check-in.
// It is constructed exactly once per user submission, is immutable after
// construction, and its only destination is one append to the journal.
//
// Confidence is the classifier's probability for Emotion (the top-label
// probability). Legacy journal files sometimes name this column
// "intensity"; readers treat the two as the same quantity.
type EmotionEvent struct {
	Timestamp  time.Time
	Emotion    string  // classifier label; compared case-insensitively downstream
	Confidence float64 // in [0,1]
	Text       string  // original user text, stored verbatim
}
