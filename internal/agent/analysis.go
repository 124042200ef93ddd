package agent

import "trattoria/internal/menu"

// ClarificationKind says what the customer must be asked about before the
// turn can make progress.
type ClarificationKind string

const (
	ClarifyNone             ClarificationKind = "none"
	ClarifyOrderIntent      ClarificationKind = "order_intent"
	ClarifyItemConfirmation ClarificationKind = "item_confirmation"
)

// Candidate is one extracted menu-item reference: either resolved to a
// catalog entry, synthesized as an off-menu staple, or left as a raw string
// for the compliance check.
type Candidate struct {
	// Raw is the surface form the reference was extracted from.
	Raw string
	// Item is the resolved catalog entry, nil while unresolved.
	Item *menu.Item
	// Size is the requested size label, empty when unspecified.
	Size string
	// FromHistory marks references resolved through prior assistant turns
	// rather than the current message.
	FromHistory bool
	// Custom marks recognized off-menu staples carried at zero price.
	Custom bool
	// CustomName is the display name for a custom candidate.
	CustomName string
}

// Resolved reports whether the candidate points at something orderable
func (c *Candidate) Resolved() bool { return c.Item != nil || c.Custom }

// Substitute is a suggested replacement for a reference that matched nothing
type Substitute struct {
	Requested   string  `json:"requested"`
	Suggested   string  `json:"suggested"`
	Price       float64 `json:"price"`
	Section     string  `json:"section"`
	FromHistory bool    `json:"from_history"`
}

// Analysis is the per-turn extraction result. It lives for one turn only.
type Analysis struct {
	Blocked            bool
	IsOrderIntent      bool
	OrderProbability   float64
	Candidates         []Candidate
	MenuCompliant      bool
	NonCompliant       []string
	Substitutes        []Substitute
	NeedsClarification bool
	Clarification      ClarificationKind
	ClarificationText  string
}
