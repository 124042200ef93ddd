package menu

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Match floors. An approximate match below the floor is discarded rather than
// guessed at; the caller falls back to a clarification flow.
const (
	// FuzzyFloor gates category-aware best-match suggestions.
	FuzzyFloor = 0.6
	// DirectMatchFloor gates the simpler accept-without-category-hint path
	// used when checking whether a reference names a real catalog entry.
	DirectMatchFloor = 0.8
)

// Similarity returns an edit-distance-normalized ratio in [0,1] between the
// normalized forms of a and b.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 1.0
	}
	longest := len([]rune(na))
	if l := len([]rune(nb)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(na, nb)
	return 1.0 - float64(dist)/float64(longest)
}

// categoryKeywords is the versioned rule table mapping food vocabulary to a
// menu category. Order matters: the first category with a hit wins.
var categoryKeywords = []struct {
	Category string
	Keywords []string
}{
	{"pasta", []string{
		"pasta", "spaghetti", "penne", "fusilli", "risotto", "lasagna",
		"tagliatelle", "carbonara", "pomodoro", "pesto", "pici", "gnocchi",
	}},
	{"pizza", []string{
		"pizza", "margherita", "diavola", "marinara", "quattro", "formaggi",
		"napoli", "capricciosa", "calzone",
	}},
	{"antipasti", []string{
		"antipasto", "starter", "insalata", "salad", "bruschetta", "polenta",
		"crudo", "carpaccio", "tartare",
	}},
	{"secondi", []string{
		"carne", "meat", "pesce", "fish", "pollo", "chicken", "maiale",
		"tonno", "tuna", "salmone", "salmon", "branzino", "bass", "baccala",
	}},
	{"contorni", []string{
		"patate", "potatoes", "fries", "verdure", "vegetables", "broccoli",
	}},
	{"bevande", []string{
		"vino", "wine", "birra", "beer", "acqua", "water", "caffe", "coffee",
		"espresso", "cappuccino", "bibita", "spritz", "aperitivo", "digestivo",
		"te", "tea", "succo", "juice",
	}},
	{"dolci", []string{
		"dolce", "dessert", "tiramisu", "gelato", "torta", "cake", "cannolo",
		"panna", "cioccolato", "chocolate", "croissant", "yogurt",
	}},
}

// sectionCategories maps normalized section-name fragments to a category, so
// that fuzzy candidacy can exclude sections that contradict the inferred one.
var sectionCategories = map[string]string{
	"pasta":      "pasta",
	"primi":      "pasta",
	"bistrot":    "pasta",
	"pizz":       "pizza",
	"antipast":   "antipasti",
	"insalat":    "antipasti",
	"raw bar":    "antipasti",
	"starter":    "antipasti",
	"second":     "secondi",
	"main":       "secondi",
	"contorn":    "contorni",
	"side":       "contorni",
	"bevand":     "bevande",
	"caffetteria": "bevande",
	"drink":      "bevande",
	"estratt":    "bevande",
	"te":         "bevande",
	"dolc":       "dolci",
	"dessert":    "dolci",
	"colazion":   "dolci",
	"breakfast":  "dolci",
}

// InferCategory guesses the menu category a free-form reference belongs to.
// Returns "" when no keyword matches.
func InferCategory(reference string) string {
	ref := Normalize(reference)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.Keywords {
			if strings.Contains(ref, kw) {
				return entry.Category
			}
		}
	}
	return ""
}

// SectionCategory maps a section name to its category, or "" when unknown
func SectionCategory(section string) string {
	name := Normalize(section)
	for fragment, category := range sectionCategories {
		if strings.Contains(name, fragment) {
			return category
		}
	}
	return ""
}

func keywordsFor(category string) []string {
	for _, entry := range categoryKeywords {
		if entry.Category == category {
			return entry.Keywords
		}
	}
	return nil
}

// scoreCandidate computes the boosted similarity between a query and an item
// name. Shared significant tokens, prefix matches, a matching first token and
// category agreement all raise the base ratio; disjoint token sets depress it.
func scoreCandidate(query, itemName, category string) float64 {
	ratio := Similarity(query, itemName)

	if shared := SharedTokenCount(query, itemName); shared > 0 {
		ratio *= 1 + 0.2*float64(shared)
	} else {
		ratio *= 0.3
	}

	nq, ni := Normalize(query), Normalize(itemName)
	if nq != "" && strings.HasPrefix(ni, nq) {
		ratio *= 1.2
	}
	if first := strings.Fields(ni); len(first) > 0 && first[0] == nq {
		ratio *= 1.3
	}

	if category != "" {
		for _, kw := range keywordsFor(category) {
			if strings.Contains(ni, kw) {
				ratio *= 1.2
				break
			}
		}
	}

	if ratio > 1.0 {
		ratio = 1.0
	}
	return ratio
}
