package content

import (
	"strings"
	"testing"
)

func TestReframeKnownEmotions(t *testing.T) {
	for _, emotion := range []string{"anxious", "sad", "angry", "happy", "neutral"} {
		got := Reframe(emotion)
		found := false
		for _, want := range reframes[emotion] {
			if got == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Reframe(%q) = %q, not from that emotion's pool", emotion, got)
		}
	}
}

func TestReframeCaseInsensitive(t *testing.T) {
	got := Reframe("  ANXIOUS ")
	found := false
	for _, want := range reframes["anxious"] {
		if got == want {
			found = true
		}
	}
	if !found {
		t.Errorf("Reframe normalization failed: %q", got)
	}
}

func TestUnknownEmotionFallsBackToNeutral(t *testing.T) {
	// A label without dedicated content gets the neutral display set —
	// this defaults the display only, never the classification.
	got := Affirmation("bewildered")
	found := false
	for _, want := range affirmations["neutral"] {
		if got == want {
			found = true
		}
	}
	if !found {
		t.Errorf("Affirmation(unknown) = %q, want a neutral affirmation", got)
	}
}

func TestAffirmationsCountAndDistinct(t *testing.T) {
	got := Affirmations("sad", 3)
	if len(got) != 3 {
		t.Fatalf("got %d affirmations, want 3", len(got))
	}
	seen := make(map[string]bool)
	for _, a := range got {
		if seen[a] {
			t.Errorf("duplicate affirmation %q", a)
		}
		seen[a] = true
	}

	// Asking for more than the pool holds returns the whole pool.
	all := Affirmations("neutral", 100)
	if len(all) != len(affirmations["neutral"]) {
		t.Errorf("got %d, want the full pool of %d", len(all), len(affirmations["neutral"]))
	}
}

func TestAffirmationsNonPositiveCount(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		got := Affirmations("sad", n)
		if len(got) != 0 {
			t.Errorf("Affirmations(sad, %d) returned %d entries, want 0", n, len(got))
		}
	}
}

func TestPoolsNonEmpty(t *testing.T) {
	for emotion, pool := range reframes {
		if len(pool) == 0 {
			t.Errorf("reframes[%q] is empty", emotion)
		}
	}
	for emotion, pool := range affirmations {
		if len(pool) == 0 {
			t.Errorf("affirmations[%q] is empty", emotion)
		}
		for _, a := range pool {
			if strings.TrimSpace(a) == "" {
				t.Errorf("affirmations[%q] has a blank entry", emotion)
			}
		}
	}
}
