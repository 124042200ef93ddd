package order

import (
	"fmt"
	"sort"
	"strings"
)

// Preferences accumulates the customer's dietary signals across turns.
// Mutation is additive: flags are only ever set, entries only ever added.
// Nothing is removed except through Reset.
type Preferences struct {
	Vegetarian   bool
	Vegan        bool
	Allergens    map[string]bool
	Intolerances map[string]bool
	SpecialNotes string
}

// SetVegetarian records a vegetarian preference (never cleared by merging)
func (p *Preferences) SetVegetarian() { p.Vegetarian = true }

// SetVegan records a vegan preference
func (p *Preferences) SetVegan() {
	p.Vegan = true
	p.Vegetarian = true
}

// AddAllergen records an allergen the customer reacts to
func (p *Preferences) AddAllergen(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}
	if p.Allergens == nil {
		p.Allergens = make(map[string]bool)
	}
	p.Allergens[name] = true
}

// AddIntolerance records a food intolerance
func (p *Preferences) AddIntolerance(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}
	if p.Intolerances == nil {
		p.Intolerances = make(map[string]bool)
	}
	p.Intolerances[name] = true
}

// AppendNote appends to the free-text special notes
func (p *Preferences) AppendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" || strings.Contains(p.SpecialNotes, note) {
		return
	}
	if p.SpecialNotes != "" {
		p.SpecialNotes += "; "
	}
	p.SpecialNotes += note
}

// Merge folds another set of preferences in additively
func (p *Preferences) Merge(other Preferences) {
	if other.Vegan {
		p.SetVegan()
	}
	if other.Vegetarian {
		p.SetVegetarian()
	}
	for name := range other.Allergens {
		p.AddAllergen(name)
	}
	for name := range other.Intolerances {
		p.AddIntolerance(name)
	}
	p.AppendNote(other.SpecialNotes)
}

// Reset clears everything; the only non-additive operation
func (p *Preferences) Reset() {
	*p = Preferences{}
}

// HasRestrictions reports whether any dietary signal has been recorded
func (p *Preferences) HasRestrictions() bool {
	return p.Vegetarian || p.Vegan ||
		len(p.Allergens) > 0 || len(p.Intolerances) > 0 || p.SpecialNotes != ""
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Describe renders the preferences for prompts and summaries
func (p *Preferences) Describe() string {
	var parts []string
	if p.Vegan {
		parts = append(parts, "vegan")
	} else if p.Vegetarian {
		parts = append(parts, "vegetarian")
	}
	if len(p.Allergens) > 0 {
		parts = append(parts, fmt.Sprintf("allergies: %s", strings.Join(sortedKeys(p.Allergens), ", ")))
	}
	if len(p.Intolerances) > 0 {
		parts = append(parts, fmt.Sprintf("intolerances: %s", strings.Join(sortedKeys(p.Intolerances), ", ")))
	}
	if p.SpecialNotes != "" {
		parts = append(parts, "notes: "+p.SpecialNotes)
	}
	if len(parts) == 0 {
		return "no specific preferences"
	}
	return strings.Join(parts, " | ")
}
