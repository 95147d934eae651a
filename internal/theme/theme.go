// Package theme maps emotion labels to display attributes. The lookup key
// is the lowercase-normalized emotion string the classifier emits; unknown
// labels fall back to the neutral theme, which styles only the display and
// never stands in for a classification result.
package theme

import "strings"

// Theme holds the display attributes a renderer needs for one emotion.
type Theme struct {
	Gradient       string `json:"gradient"`
	PrimaryColor   string `json:"primaryColor"`
	TextColor      string `json:"textColor"`
	CardBackground string `json:"cardBackground"`
	Emoji          string `json:"emoji"`
	Message        string `json:"message"`
	Animation      string `json:"animation"`
	Description    string `json:"description"`
}

var themes = map[string]Theme{
	"happy": {
		Gradient:       "linear-gradient(135deg, #f6d365 0%, #fda085 100%)",
		PrimaryColor:   "#FFD700",
		TextColor:      "#2C3E50",
		CardBackground: "rgba(255, 255, 255, 0.9)",
		Emoji:          "😊",
		Message:        "You're radiating positive energy!",
		Animation:      "bounce",
		Description:    "Bright and energizing",
	},
	"sad": {
		Gradient:       "linear-gradient(135deg, #89CFF0 0%, #B0E0E6 100%)",
		PrimaryColor:   "#5DADE2",
		TextColor:      "#34495E",
		CardBackground: "rgba(255, 255, 255, 0.85)",
		Emoji:          "🫂",
		Message:        "It's okay to feel this way. I'm here with you.",
		Animation:      "fade",
		Description:    "Soft and supportive",
	},
	"anxious": {
		Gradient:       "linear-gradient(135deg, #a8edea 0%, #fed6e3 100%)",
		PrimaryColor:   "#85C1E9",
		TextColor:      "#2C3E50",
		CardBackground: "rgba(255, 255, 255, 0.9)",
		Emoji:          "🫁",
		Message:        "Let's ground ourselves together.",
		Animation:      "breathe",
		Description:    "Calming and grounding",
	},
	"angry": {
		Gradient:       "linear-gradient(135deg, #fbc2eb 0%, #a6c1ee 100%)",
		PrimaryColor:   "#AE8FBF",
		TextColor:      "#2C3E50",
		CardBackground: "rgba(255, 255, 255, 0.9)",
		Emoji:          "🧘",
		Message:        "Take a moment. This feeling will pass.",
		Animation:      "pulse-slow",
		Description:    "Cooling and spacious",
	},
	"neutral": {
		Gradient:       "linear-gradient(135deg, #e0e0e0 0%, #c9d6df 100%)",
		PrimaryColor:   "#95A5A6",
		TextColor:      "#2C3E50",
		CardBackground: "rgba(255, 255, 255, 0.95)",
		Emoji:          "😌",
		Message:        "You're in a balanced state.",
		Animation:      "none",
		Description:    "Clean and balanced",
	},
}

// Lookup returns the theme for an emotion, falling back to neutral for
// labels without a dedicated theme.
func Lookup(emotion string) Theme {
	if t, ok := themes[strings.ToLower(strings.TrimSpace(emotion))]; ok {
		return t
	}
	return themes["neutral"]
}

// Known reports whether the emotion has a dedicated theme.
func Known(emotion string) bool {
	_, ok := themes[strings.ToLower(strings.TrimSpace(emotion))]
	return ok
}
