package menu

import (
	"fmt"
	"strings"
)

// Catalog is the immutable per-session view over a restaurant menu. It is
// built once at load time and safe for concurrent reads across sessions.
type Catalog struct {
	restaurant string
	edition    string
	location   string
	legend     map[int]string
	items      []Item
	byExact    map[string]int
	byFolded   map[string]int
	sections   []string
}

// NewCatalog builds a catalog from already-normalized items
func NewCatalog(restaurant, edition, location string, legend map[int]string, items []Item) *Catalog {
	c := &Catalog{
		restaurant: restaurant,
		edition:    edition,
		location:   location,
		legend:     legend,
		items:      items,
		byExact:    make(map[string]int, len(items)),
		byFolded:   make(map[string]int, len(items)),
	}
	seen := make(map[string]bool)
	for i, it := range items {
		c.byExact[strings.ToLower(it.Name)] = i
		c.byFolded[Normalize(it.Name)] = i
		if !seen[it.Section] {
			seen[it.Section] = true
			c.sections = append(c.sections, it.Section)
		}
	}
	return c
}

// RestaurantName returns the restaurant this catalog belongs to
func (c *Catalog) RestaurantName() string { return c.restaurant }

// Sections returns section names in menu order
func (c *Catalog) Sections() []string { return c.sections }

// AllItems returns every item on the menu
func (c *Catalog) AllItems() []Item { return c.items }

// Len returns the number of catalog entries
func (c *Catalog) Len() int { return len(c.items) }

// FindExact looks an item up by case-insensitive name
func (c *Catalog) FindExact(name string) *Item {
	if i, ok := c.byExact[strings.ToLower(strings.TrimSpace(name))]; ok {
		return &c.items[i]
	}
	return nil
}

// FindNormalized looks an item up by case-folded, diacritic-stripped name,
// so "acai" finds "Açaí".
func (c *Catalog) FindNormalized(name string) *Item {
	if i, ok := c.byFolded[Normalize(name)]; ok {
		return &c.items[i]
	}
	return nil
}

// FindByName resolves a name by exact match, then normalized match, then
// substring containment in either direction.
func (c *Catalog) FindByName(name string) *Item {
	if it := c.FindExact(name); it != nil {
		return it
	}
	if it := c.FindNormalized(name); it != nil {
		return it
	}
	folded := Normalize(name)
	if folded == "" {
		return nil
	}
	for i := range c.items {
		itemName := Normalize(c.items[i].Name)
		if strings.Contains(itemName, folded) || strings.Contains(folded, itemName) {
			return &c.items[i]
		}
	}
	return nil
}

// HasItemLike reports whether a reference plausibly names a real catalog
// entry: exact, substring, or similarity above DirectMatchFloor.
func (c *Catalog) HasItemLike(reference string) bool {
	if c.FindByName(reference) != nil {
		return true
	}
	for i := range c.items {
		if Similarity(reference, c.items[i].Name) > DirectMatchFloor {
			return true
		}
	}
	return false
}

// FindBestFuzzy returns the catalog entry with the highest boosted similarity
// to the reference, provided the score clears FuzzyFloor. An empty
// categoryHint lets the category be inferred from the reference itself; items
// whose section contradicts the category are excluded from candidacy.
// Exact and normalized matches short-circuit with score 1.
func (c *Catalog) FindBestFuzzy(reference, categoryHint string) (*Item, float64) {
	if it := c.FindExact(reference); it != nil {
		return it, 1.0
	}
	if it := c.FindNormalized(reference); it != nil {
		return it, 1.0
	}

	category := categoryHint
	if category == "" {
		category = InferCategory(reference)
	}

	var best *Item
	bestScore := 0.0
	for i := range c.items {
		it := &c.items[i]
		if category != "" {
			if sc := SectionCategory(it.Section); sc != "" && sc != category {
				continue
			}
		}
		score := scoreCandidate(reference, it.Name, category)
		if score > bestScore && score > FuzzyFloor {
			bestScore = score
			best = it
		}
	}
	return best, bestScore
}

// ItemsBySection returns the items of one section (case-insensitive)
func (c *Catalog) ItemsBySection(section string) []Item {
	var out []Item
	for _, it := range c.items {
		if strings.EqualFold(it.Section, section) {
			out = append(out, it)
		}
	}
	return out
}

// Filters narrow a menu search
type Filters struct {
	TextQuery        string
	Vegetarian       bool
	Vegan            bool
	ExcludeAllergens []int
	MaxPrice         float64
	Section          string
}

// Search returns the items passing every set filter
func (c *Catalog) Search(f Filters) []Item {
	query := Normalize(f.TextQuery)
	var out []Item
	for _, it := range c.items {
		if f.Section != "" && !strings.EqualFold(it.Section, f.Section) {
			continue
		}
		if f.Vegetarian && !it.Vegetarian {
			continue
		}
		if f.Vegan && !it.Vegan {
			continue
		}
		if f.MaxPrice > 0 && it.Price() > f.MaxPrice {
			continue
		}
		if len(f.ExcludeAllergens) > 0 {
			excluded := false
			for _, code := range f.ExcludeAllergens {
				if it.HasAllergen(code) {
					excluded = true
					break
				}
			}
			if excluded {
				continue
			}
		}
		if query != "" &&
			!strings.Contains(Normalize(it.Name), query) &&
			!strings.Contains(Normalize(it.Description), query) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// AllergenNames maps allergen codes to the legend's human-readable names
func (c *Catalog) AllergenNames(codes []int) []string {
	out := make([]string, len(codes))
	for i, code := range codes {
		if name, ok := c.legend[code]; ok {
			out[i] = name
		} else {
			out[i] = fmt.Sprintf("allergen %d", code)
		}
	}
	return out
}

// FormatForLLM renders the full menu as prompt context
func (c *Catalog) FormatForLLM() string {
	var b strings.Builder
	fmt.Fprintf(&b, "MENU - %s\n", c.restaurant)

	currentSection := ""
	for _, it := range c.items {
		if it.Section != currentSection {
			currentSection = it.Section
			fmt.Fprintf(&b, "\n%s:\n", strings.ToUpper(currentSection))
		}

		b.WriteString("- " + it.DisplayLine())
		if it.Description != "" {
			b.WriteString(": " + it.Description)
		}

		var tags []string
		if it.Vegan {
			tags = append(tags, "VEGAN")
		} else if it.Vegetarian {
			tags = append(tags, "VEGETARIAN")
		}
		if len(tags) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(tags, ", "))
		}
		if len(it.Allergens) > 0 {
			fmt.Fprintf(&b, " | Allergens: %s", strings.Join(c.AllergenNames(it.Allergens), ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
