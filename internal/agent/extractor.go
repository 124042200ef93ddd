package agent

import (
	"strings"

	"trattoria/internal/menu"
	"trattoria/internal/order"
)

// ItemExtractor turns a free-form message plus dialogue context into a list
// of candidate menu-item references. It resolves pronoun and ellipsis
// references against the assistant's previous turn and recognizes a handful
// of off-menu staples; everything it cannot resolve stays a raw string for
// the compliance check. When in doubt it extracts nothing: silence, not a
// guess.
type ItemExtractor struct {
	catalog *menu.Catalog
}

// NewItemExtractor creates an extractor over a catalog
func NewItemExtractor(catalog *menu.Catalog) *ItemExtractor {
	return &ItemExtractor{catalog: catalog}
}

// mention is a catalog item located inside a piece of text
type mention struct {
	item *menu.Item
	pos  int
}

// mentionsIn finds every catalog item referenced in text, by normalized
// substring or by sharing at least two significant name tokens, ordered by
// position of occurrence. One item is reported at most once.
func (e *ItemExtractor) mentionsIn(text string) []mention {
	normalized := menu.Normalize(text)
	var found []mention
	items := e.catalog.AllItems()
	for i := range items {
		it := &items[i]
		name := menu.Normalize(it.Name)
		if pos := strings.Index(normalized, name); pos >= 0 && len(name) > 3 {
			found = append(found, mention{item: it, pos: pos})
			continue
		}
		if menu.SharedTokenCount(it.Name, text) >= 2 {
			pos := len(normalized)
			for _, tok := range menu.SignificantTokens(it.Name) {
				if p := strings.Index(normalized, tok); p >= 0 && p < pos {
					pos = p
				}
			}
			found = append(found, mention{item: it, pos: pos})
		}
	}
	for i := 1; i < len(found); i++ {
		for j := i; j > 0 && found[j].pos < found[j-1].pos; j-- {
			found[j], found[j-1] = found[j-1], found[j]
		}
	}
	return found
}

// Extract produces the candidate references for one message.
//
// Resolution priority: information questions yield nothing; implicit
// confirmations resolve against the assistant's immediately preceding turn;
// explicit mentions require an ordering verb; a bare pronoun falls back to
// the last item the assistant named; finally the free-water staple is
// synthesized rather than rejected.
func (e *ItemExtractor) Extract(message string, history *History, current *order.Order) []Candidate {
	verb := hasOrderVerb(message)
	confirmation := hasConfirmation(message)

	// Pure questions never produce extractions, whatever they name.
	if isInformationQuestion(message) && !verb {
		return nil
	}

	size := requestedSize(message)
	named := e.mentionsIn(message)

	// Implicit confirmation with nothing named in the message itself:
	// everything the assistant just offered and the customer has not already
	// ordered counts as confirmed. This runs before the ordering-verb gate so
	// a plain "perfetto!" still lands.
	if confirmation && len(named) == 0 {
		if last, ok := history.LastAssistant(); ok {
			inOrder := make(map[string]bool)
			for _, line := range current.Lines() {
				inOrder[line.ItemID] = true
			}
			var out []Candidate
			for _, m := range e.mentionsIn(last) {
				if inOrder[m.item.ID] {
					continue
				}
				out = append(out, Candidate{
					Raw:         m.item.Name,
					Item:        m.item,
					Size:        size,
					FromHistory: true,
				})
			}
			if len(out) > 0 {
				return out
			}
		}
	}

	// Explicit mention, gated on an ordering verb (or a confirmation token
	// standing in for one). One match per item keeps overlapping names from
	// double-counting.
	if (verb || confirmation) && len(named) > 0 {
		out := make([]Candidate, 0, len(named))
		for _, m := range named {
			out = append(out, Candidate{Raw: m.item.Name, Item: m.item, Size: size})
		}
		return out
	}

	// Bare pronoun: resolve against the most recently named item in the
	// assistant's last turn.
	if (verb || confirmation) && hasReferentialPronoun(message) {
		if last, ok := history.LastAssistant(); ok {
			if ms := e.mentionsIn(last); len(ms) > 0 {
				m := ms[len(ms)-1]
				return []Candidate{{
					Raw:         m.item.Name,
					Item:        m.item,
					Size:        size,
					FromHistory: true,
				}}
			}
		}
	}

	// Free staple: a water request is a zero-priced custom line, not a miss.
	if verb {
		if water := waterRequest(message); water != "" {
			return []Candidate{{Raw: water, Custom: true, CustomName: water}}
		}
	}

	// An ordering verb with an unrecognized object still goes to compliance
	// so the customer is asked instead of ignored.
	if verb {
		if ref := strippedReference(message); ref != "" {
			return []Candidate{{Raw: ref, Size: size}}
		}
	}

	return nil
}

// waterRequest returns the canonical water description mentioned, or ""
func waterRequest(message string) string {
	normalized := menu.Normalize(message)
	for _, w := range waterWords {
		if strings.Contains(normalized, w) {
			return w
		}
	}
	return ""
}

// strippedReference removes ordering verbs, courtesy fillers, articles and
// size words from the message, leaving the part that names what the customer
// wants. Returns "" when nothing meaningful is left. The size is reported
// separately by requestedSize.
var referenceFillers = map[string]bool{
	"un": true, "una": true, "uno": true, "il": true, "la": true, "lo": true,
	"per": true, "favore": true, "grazie": true, "please": true, "poi": true,
	"anche": true, "a": true, "an": true, "the": true, "e": true, "and": true,
	"di": true, "some": true, "to": true, "of": true,
}

func strippedReference(message string) string {
	normalized := menu.Normalize(message)
	for _, v := range orderVerbs {
		normalized = strings.ReplaceAll(normalized, v, " ")
	}
	var kept []string
	for _, tok := range strings.Fields(normalized) {
		tok = strings.Trim(tok, ".,!?;:'\"")
		if tok == "" || referenceFillers[tok] || genericWords[tok] || matchesAny(tok, referentialPronouns) {
			continue
		}
		if _, isSize := sizeWords[tok]; isSize {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}
