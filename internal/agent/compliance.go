package agent

import (
	"fmt"
	"strings"

	"trattoria/internal/menu"
)

// HistoryMatchFloor is the minimum similarity for treating a reference as
// something the assistant itself proposed earlier in the conversation.
const HistoryMatchFloor = 0.7

// ComplianceChecker validates candidate references against the catalog and
// the conversation, and prepares substitute suggestions for anything that
// fails. Items the assistant offered earlier are compliant even when the
// customer's wording drifts from the printed menu.
type ComplianceChecker struct {
	catalog *menu.Catalog
}

// NewComplianceChecker creates a checker over a catalog
func NewComplianceChecker(catalog *menu.Catalog) *ComplianceChecker {
	return &ComplianceChecker{catalog: catalog}
}

// Check partitions candidates into compliant and non-compliant sets and
// fills the analysis with substitutes and clarification state. Candidates
// already resolved by the extractor pass through untouched.
func (c *ComplianceChecker) Check(a *Analysis, history *History) {
	var compliant []Candidate
	for _, cand := range a.Candidates {
		if cand.Resolved() {
			compliant = append(compliant, cand)
			continue
		}

		if item := c.catalog.FindByName(cand.Raw); item != nil {
			cand.Item = item
			compliant = append(compliant, cand)
			continue
		}
		if c.catalog.HasItemLike(cand.Raw) {
			if item, _ := c.catalog.FindBestFuzzy(cand.Raw, menu.InferCategory(cand.Raw)); item != nil {
				cand.Item = item
				compliant = append(compliant, cand)
				continue
			}
		}

		if item := c.resolveFromHistory(cand.Raw, history); item != nil {
			cand.Item = item
			cand.FromHistory = true
			compliant = append(compliant, cand)
			continue
		}

		a.NonCompliant = append(a.NonCompliant, cand.Raw)
		a.Substitutes = append(a.Substitutes, c.substituteFor(cand.Raw, history))
	}

	a.Candidates = compliant
	a.MenuCompliant = len(a.NonCompliant) == 0
	if !a.MenuCompliant {
		a.NeedsClarification = true
		a.Clarification = ClarifyItemConfirmation
		a.ClarificationText = c.clarificationMessage(a.Substitutes)
	}
}

// resolveFromHistory matches the reference against items named in earlier
// assistant turns, by similarity or containment either way.
func (c *ComplianceChecker) resolveFromHistory(reference string, history *History) *menu.Item {
	if history == nil {
		return nil
	}
	ref := menu.Normalize(reference)
	var best *menu.Item
	bestScore := 0.0
	for _, text := range history.AssistantTexts() {
		normalized := menu.Normalize(text)
		items := c.catalog.AllItems()
		for i := range items {
			name := menu.Normalize(items[i].Name)
			if !strings.Contains(normalized, name) {
				continue
			}
			score := menu.Similarity(ref, name)
			if strings.Contains(name, ref) || strings.Contains(ref, name) {
				score = 1.0
			}
			if score > HistoryMatchFloor && score > bestScore {
				best = &items[i]
				bestScore = score
			}
		}
	}
	return best
}

// substituteFor builds the suggestion record for an off-menu reference
func (c *ComplianceChecker) substituteFor(reference string, history *History) Substitute {
	sub := Substitute{Requested: reference}

	category := menu.InferCategory(reference)
	if item, _ := c.catalog.FindBestFuzzy(reference, category); item != nil {
		sub.Suggested = item.Name
		sub.Price = item.Price()
		sub.Section = item.Section
		return sub
	}

	// Last resort: the closest thing the assistant has talked about, even
	// below the fuzzy floor, is a better conversation than a flat refusal.
	if item := c.resolveFromHistory(reference, history); item != nil {
		sub.Suggested = item.Name
		sub.Price = item.Price()
		sub.Section = item.Section
		sub.FromHistory = true
	}
	return sub
}

// clarificationMessage renders the customer-facing question for a set of
// substitutes. With no usable suggestion it asks for a plain restatement.
func (c *ComplianceChecker) clarificationMessage(subs []Substitute) string {
	var parts []string
	for _, s := range subs {
		if s.Suggested == "" {
			parts = append(parts, fmt.Sprintf("I couldn't find %q on our menu. Could you tell me again what you'd like?", s.Requested))
			continue
		}
		parts = append(parts, fmt.Sprintf("Instead of %q, did you mean %q (€%.2f)?", s.Requested, s.Suggested, s.Price))
	}
	return strings.Join(parts, " ")
}
