package order

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the possible states of an order. Transitions are
// forward-only: Draft -> Confirmed -> Sent -> Completed.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusSent      Status = "sent"
	StatusCompleted Status = "completed"
)

var statusRank = map[Status]int{
	StatusDraft:     0,
	StatusConfirmed: 1,
	StatusSent:      2,
	StatusCompleted: 3,
}

// Line is one distinct orderable entry in a customer's order. Identity for
// merge purposes is (ItemID, Size, Note).
type Line struct {
	ItemID string `json:"item_id"`
	// DisplayName may include a size or qualifier suffix.
	DisplayName string  `json:"display_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	Note        string  `json:"note,omitempty"`
	Size        string  `json:"size,omitempty"`
	// IsCustomPriced marks off-menu staples (tap water and the like) carried
	// at zero price, so a free item is never confused with an unknown price.
	IsCustomPriced bool `json:"is_custom_priced,omitempty"`
}

// Total returns the line total
func (l *Line) Total() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

func (l *Line) label() string {
	name := l.DisplayName
	if l.Size != "" {
		name += fmt.Sprintf(" (%s)", l.Size)
	}
	if l.Note != "" {
		name += " - " + l.Note
	}
	return name
}

// Order is the aggregate holding a session's lines, status, preferences and
// free-text notes. Totals are recomputed on every read, never cached.
type Order struct {
	lines       []Line
	status      Status
	preferences Preferences
	createdAt   time.Time
	notes       string
}

// New creates an empty draft order
func New() *Order {
	return &Order{status: StatusDraft, createdAt: time.Now()}
}

// Status returns the current order status
func (o *Order) Status() Status { return o.status }

// CreatedAt returns the order creation time
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// Lines returns a copy of the order lines
func (o *Order) Lines() []Line {
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

// Preferences returns a pointer to the customer preferences for merging
func (o *Order) Preferences() *Preferences { return &o.preferences }

// IsEmpty reports whether the order has no lines
func (o *Order) IsEmpty() bool { return len(o.lines) == 0 }

// LineCount returns the number of distinct lines
func (o *Order) LineCount() int { return len(o.lines) }

// ItemCount returns the total quantity across lines
func (o *Order) ItemCount() int {
	n := 0
	for i := range o.lines {
		n += o.lines[i].Quantity
	}
	return n
}

// Total sums unit price times quantity over all lines
func (o *Order) Total() float64 {
	total := 0.0
	for i := range o.lines {
		total += o.lines[i].Total()
	}
	return total
}

// AddItem adds a line, merging into an existing one when (itemID, size, note)
// already matches. Adding the same combination twice increments quantity
// instead of duplicating the line.
func (o *Order) AddItem(itemID, name string, unitPrice float64, qty int, note, size string) *Line {
	if qty < 1 {
		qty = 1
	}
	for i := range o.lines {
		l := &o.lines[i]
		if l.ItemID == itemID && l.Size == size && l.Note == note {
			l.Quantity += qty
			return l
		}
	}
	o.lines = append(o.lines, Line{
		ItemID:      itemID,
		DisplayName: name,
		UnitPrice:   unitPrice,
		Quantity:    qty,
		Note:        note,
		Size:        size,
	})
	return &o.lines[len(o.lines)-1]
}

// AddCustomItem adds a zero-priced off-menu line (a free staple request)
func (o *Order) AddCustomItem(itemID, name string, qty int, note string) *Line {
	l := o.AddItem(itemID, name, 0, qty, note, "")
	l.IsCustomPriced = true
	return l
}

// RemoveItem removes the first line matching itemID (and size when given).
// Returns false and leaves the order unchanged when no line matches.
func (o *Order) RemoveItem(itemID, size string) bool {
	for i := range o.lines {
		l := &o.lines[i]
		if l.ItemID == itemID && (size == "" || l.Size == size) {
			o.lines = append(o.lines[:i], o.lines[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateQuantity sets a line's quantity; qty <= 0 removes the line
func (o *Order) UpdateQuantity(itemID string, qty int, size string) bool {
	for i := range o.lines {
		l := &o.lines[i]
		if l.ItemID == itemID && (size == "" || l.Size == size) {
			if qty <= 0 {
				return o.RemoveItem(itemID, size)
			}
			l.Quantity = qty
			return true
		}
	}
	return false
}

// Clear empties the order and returns it to draft
func (o *Order) Clear() {
	o.lines = nil
	o.status = StatusDraft
	o.notes = ""
}

// advance moves the status forward only; backward transitions are ignored
func (o *Order) advance(to Status) bool {
	if statusRank[to] == statusRank[o.status]+1 {
		o.status = to
		return true
	}
	return false
}

// Confirm transitions Draft -> Confirmed
func (o *Order) Confirm() bool { return o.advance(StatusConfirmed) }

// SendToKitchen transitions Confirmed -> Sent
func (o *Order) SendToKitchen() bool { return o.advance(StatusSent) }

// Complete transitions Sent -> Completed
func (o *Order) Complete() bool { return o.advance(StatusCompleted) }

// SetNotes replaces the order-level free-text notes
func (o *Order) SetNotes(notes string) { o.notes = notes }

// Summary renders the customer-facing itemized order
func (o *Order) Summary() string {
	if o.IsEmpty() {
		return "Nothing ordered yet."
	}

	lines := []string{"Your order:"}
	for i := range o.lines {
		l := &o.lines[i]
		lines = append(lines, fmt.Sprintf("- %s x%d — €%.2f", l.label(), l.Quantity, l.Total()))
	}
	lines = append(lines, fmt.Sprintf("\nTotal: €%.2f", o.Total()))

	if o.preferences.HasRestrictions() {
		lines = append(lines, fmt.Sprintf("\nPreferences: %s", o.preferences.Describe()))
	}
	return strings.Join(lines, "\n")
}

// KitchenSummary renders the kitchen-facing ticket. Allergy and intolerance
// warnings come first so they cannot be missed.
func (o *Order) KitchenSummary() string {
	lines := []string{fmt.Sprintf("ORDER - %s", o.createdAt.Format("15:04"))}

	if o.preferences.HasRestrictions() {
		lines = append(lines, "WARNING: "+o.preferences.Describe(), "")
	}

	for i := range o.lines {
		l := &o.lines[i]
		line := fmt.Sprintf("%dx %s", l.Quantity, l.DisplayName)
		if l.Size != "" {
			line += fmt.Sprintf(" (%s)", l.Size)
		}
		if l.Note != "" {
			line += fmt.Sprintf(" [%s]", l.Note)
		}
		lines = append(lines, line)
	}

	lines = append(lines, fmt.Sprintf("\nTOTAL: €%.2f", o.Total()))
	return strings.Join(lines, "\n")
}
