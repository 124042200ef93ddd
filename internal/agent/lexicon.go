package agent

import (
	"strings"

	"trattoria/internal/menu"
)

// The customers this engine serves switch freely between Italian and English,
// so every token table carries both. The tables are the versioned rule data
// behind intent scoring and extraction; behavior changes happen here, not in
// scattered string literals.

// orderVerbs are strong ordering forms: any hit marks an explicit order.
var orderVerbs = []string{
	"prendo", "vorrei", "ordino", "portami", "dammi", "voglio", "prendiamo",
	"aggiungi", "aggiungilo", "aggiungila",
	"i'll take", "i'll have", "i'd like", "i want", "bring me", "give me",
	"can i get", "add", "we'll take", "we'll have", "i will have",
}

// foodNouns are weaker signals counted rather than matched once.
var foodNouns = []string{
	"pizza", "pasta", "spaghetti", "risotto", "lasagna",
	"vino", "wine", "birra", "beer", "acqua", "water",
	"caffe", "coffee", "espresso", "cappuccino",
	"dolce", "dessert", "tiramisu", "gelato", "yogurt",
	"menu", "ordinare", "antipasto", "starter",
	"cena", "dinner", "pranzo", "lunch", "colazione", "breakfast",
	"pesce", "fish", "carne", "meat", "pollo", "chicken",
	"insalata", "salad", "bruschetta",
}

// questionWords combined with food nouns indicate a question about food,
// which is not itself an order.
var questionWords = []string{
	"che", "quale", "cosa", "quanto", "quanti", "come",
	"what", "which", "how",
}

// recommendationPhrases override everything: asking for a suggestion must not
// be conflated with placing an order.
var recommendationPhrases = []string{
	"consigliami", "raccomanda", "cosa consigli", "cosa mi consigli",
	"che mi consigli", "mi consigli",
	"what do you suggest", "what do you recommend", "recommend", "suggest me",
	"any suggestions",
}

// confirmationTokens affirm a previously offered suggestion without
// re-naming it.
var confirmationTokens = []string{
	"ok", "okay", "va bene", "perfetto", "perfect", "perfecto",
	"lo prendo", "la prendo", "li prendo", "le prendo",
	"aggiungilo", "aggiungila", "add it", "i'll take it", "i'll take that",
	"take it", "sounds good", "go for it", "yes please", "si grazie",
	"prendiamo tutto", "all of them", "let's do all", "take them all",
	"tutti", "entrambi", "both",
}

// referentialPronouns are bare references to the last discussed item.
var referentialPronouns = []string{
	"lo", "la", "quello", "quella", "questo", "questa",
	"it", "that", "this one", "that one", "them",
}

// infoPhrases mark pure information-seeking messages; nothing is ever
// extracted from those.
var infoPhrases = []string{
	"cosa significa", "che significa", "cos'e", "cosa vuol dire",
	"quanto costa", "quanto viene", "cosa contiene", "vedo che nel menu",
	"what does", "what is", "what's in", "how much", "what are",
	"i saw in the menu", "mean?", "cost?",
}

// sizeWords map surface size adjectives to canonical variant labels.
var sizeWords = map[string]string{
	"grande":  "grande",
	"large":   "large",
	"big":     "large",
	"media":   "media",
	"medium":  "medium",
	"piccolo": "piccolo",
	"piccola": "piccolo",
	"small":   "small",
}

// genericWords name no dish on their own. A would-be item reference made
// only of these is treated as naming nothing, so "vorrei ordinare qualcosa"
// asks the customer what they want instead of hunting the menu for
// "ordinare qualcosa".
var genericWords = map[string]bool{
	"ordinare": true, "ordine": true, "order": true,
	"qualcosa": true, "something": true, "anything": true,
	"buono": true, "buona": true, "good": true, "nice": true, "tasty": true,
	"mangiare": true, "eat": true, "bere": true, "drink": true,
	"piatto": true, "dish": true, "cibo": true, "food": true,
	"stasera": true, "tonight": true, "oggi": true, "today": true,
	"fame": true, "hungry": true, "sete": true, "thirsty": true,
}

// waterWords recognize the free-staple water request.
var waterWords = []string{
	"acqua naturale", "acqua frizzante", "acqua del rubinetto", "acqua",
	"still water", "sparkling water", "tap water",
}

// matchesAny reports whether the normalized message contains any pattern.
// Multi-word patterns match as substrings; single words match whole tokens
// only, so "che" never fires inside "anche".
func matchesAny(normalized string, patterns []string) bool {
	return countMatches(normalized, patterns) > 0
}

func countMatches(normalized string, patterns []string) int {
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(normalized) {
		tokens[strings.Trim(tok, ".,!?;:'\"")] = true
	}
	count := 0
	for _, p := range patterns {
		if strings.ContainsRune(p, ' ') {
			if strings.Contains(normalized, p) {
				count++
			}
		} else if tokens[p] {
			count++
		}
	}
	return count
}

func hasOrderVerb(message string) bool {
	return matchesAny(menu.Normalize(message), orderVerbs)
}

func hasConfirmation(message string) bool {
	return matchesAny(menu.Normalize(message), confirmationTokens)
}

func hasReferentialPronoun(message string) bool {
	return matchesAny(menu.Normalize(message), referentialPronouns)
}

func isInformationQuestion(message string) bool {
	return matchesAny(menu.Normalize(message), infoPhrases)
}

// requestedSize returns the canonical size label mentioned in the message
func requestedSize(message string) string {
	for _, tok := range strings.Fields(menu.Normalize(message)) {
		if size, ok := sizeWords[strings.Trim(tok, ".,!?;:'\"")]; ok {
			return size
		}
	}
	return ""
}
