package agent

import (
	"strings"

	"trattoria/internal/menu"
	"trattoria/internal/order"
)

// allergenWords maps surface allergen mentions to canonical names.
var allergenWords = map[string]string{
	"glutine":      "gluten",
	"gluten":       "gluten",
	"lattosio":     "lactose",
	"lactose":      "lactose",
	"uova":         "eggs",
	"eggs":         "eggs",
	"egg":          "eggs",
	"solfiti":      "sulphites",
	"sulphites":    "sulphites",
	"frutta secca": "nuts",
	"nuts":         "nuts",
	"noci":         "nuts",
	"arachidi":     "peanuts",
	"peanuts":      "peanuts",
	"crostacei":    "shellfish",
	"shellfish":    "shellfish",
	"pesce":        "fish",
	"fish":         "fish",
	"soia":         "soy",
	"soy":          "soy",
}

var negationWords = []string{"non", "senza", "no", "not", "without"}

// PreferenceTracker extracts dietary, allergy and spice signals from raw
// customer text. Signals only accumulate; nothing here ever clears a
// previously recorded preference.
type PreferenceTracker struct{}

// NewPreferenceTracker creates a tracker
func NewPreferenceTracker() *PreferenceTracker {
	return &PreferenceTracker{}
}

// Extract returns the preferences detectable in a single message
func (t *PreferenceTracker) Extract(message string) order.Preferences {
	normalized := menu.Normalize(message)
	var prefs order.Preferences

	if strings.Contains(normalized, "vegetarian") || strings.Contains(normalized, "vegetariano") ||
		strings.Contains(normalized, "vegetariana") {
		prefs.SetVegetarian()
	}
	if strings.Contains(normalized, "vegan") {
		prefs.SetVegan()
	}

	// Allergen words only count next to an allergy/intolerance mention, so
	// "no gluten in the carbonara?" is a question, not a restriction.
	allergic := strings.Contains(normalized, "allerg")
	intolerant := strings.Contains(normalized, "intolle") || strings.Contains(normalized, "intoler")
	if allergic || intolerant {
		for word, canonical := range allergenWords {
			if !strings.Contains(normalized, word) {
				continue
			}
			if allergic {
				prefs.AddAllergen(canonical)
			} else {
				prefs.AddIntolerance(canonical)
			}
		}
	}

	if strings.Contains(normalized, "piccante") || strings.Contains(normalized, "spicy") {
		if matchesAny(normalized, negationWords) {
			prefs.AppendNote("no spicy food")
		} else {
			prefs.AppendNote("likes spicy food")
		}
	}

	if strings.Contains(normalized, "diabetic") || strings.Contains(normalized, "diabetico") {
		prefs.AppendNote("diabetic - avoid sugar")
	}

	return prefs
}
