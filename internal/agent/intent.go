package agent

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"

	"trattoria/internal/menu"
	"trattoria/internal/providers"
)

// The ambiguous band: rule-based estimates inside it are blended with an
// independent LLM estimate, outside it the rules decide alone.
const (
	ambiguousLow  = 0.3
	ambiguousHigh = 0.7
)

// intentRules is the ordered rule table for the deterministic pass. The first
// rule whose condition holds produces the base probability.
var intentRules = []struct {
	Name  string
	Match func(normalized string) bool
	Base  float64
}{
	{"recommendation_request", func(m string) bool {
		return matchesAny(m, recommendationPhrases)
	}, 0.3},
	{"strong_order_verb", func(m string) bool {
		return matchesAny(m, orderVerbs)
	}, 0.9},
	{"multiple_food_nouns", func(m string) bool {
		return countMatches(m, foodNouns) >= 2
	}, 0.7},
	{"food_question", func(m string) bool {
		return matchesAny(m, questionWords) && countMatches(m, foodNouns) >= 1
	}, 0.4},
	{"single_food_noun", func(m string) bool {
		return countMatches(m, foodNouns) == 1
	}, 0.6},
}

const fallbackBase = 0.1

// IntentClassifier estimates the probability that a message constitutes an
// order, combining the rule table with an LLM estimate for the ambiguous band.
type IntentClassifier struct {
	provider providers.Provider
	tuning   Tuning
}

// NewIntentClassifier creates a classifier. The provider may be nil, in which
// case ambiguous estimates stay rule-based.
func NewIntentClassifier(provider providers.Provider, tuning Tuning) *IntentClassifier {
	return &IntentClassifier{provider: provider, tuning: tuning}
}

// RuleBase runs only the deterministic rule table
func (c *IntentClassifier) RuleBase(message string) float64 {
	normalized := menu.Normalize(message)
	for _, rule := range intentRules {
		if rule.Match(normalized) {
			return rule.Base
		}
	}
	return fallbackBase
}

var numberPattern = regexp.MustCompile(`\d+\.?\d*`)

// EstimateOrderProbability returns a probability in [0,1] that the message is
// an order. A provider failure inside the ambiguous band falls back to the
// rule-based estimate unchanged.
func (c *IntentClassifier) EstimateOrderProbability(ctx context.Context, message string) float64 {
	base := c.RuleBase(message)

	if base < ambiguousLow || base > ambiguousHigh || c.provider == nil {
		return base
	}

	prompt := fmt.Sprintf("Estimate the probability that this restaurant customer message is placing an order.\nMessage: %q\nReturn only a number between 0.0 and 1.0:", message)
	response, err := c.provider.Generate(ctx,
		[]providers.Message{{Role: providers.RoleUser, Content: prompt}},
		providers.WithMaxTokens(5), providers.WithTemperature(0),
	)
	if err != nil {
		log.Printf("[intent] llm estimate failed, keeping rule base %.2f: %v", base, err)
		return base
	}

	match := numberPattern.FindString(response)
	if match == "" {
		log.Printf("[intent] no number in llm estimate %q", response)
		return base
	}
	llmEstimate, err := strconv.ParseFloat(match, 64)
	if err != nil || llmEstimate < 0 || llmEstimate > 1 {
		return base
	}

	return base*c.tuning.RuleWeight + llmEstimate*c.tuning.LLMWeight
}

// IsOrder applies the standalone classifier threshold
func (c *IntentClassifier) IsOrder(ctx context.Context, message string) (bool, float64) {
	p := c.EstimateOrderProbability(ctx, message)
	return p > c.tuning.ClassifierThreshold, p
}
