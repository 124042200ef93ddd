package menu

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// Definition is the external menu document. Two historical shapes exist: the
// sectioned shape with an allergen legend and size variants, and a legacy flat
// category map. Both collapse into one normalized Catalog here; the core never
// branches on document shape at runtime.
type Definition struct {
	Restaurant     string              `json:"restaurant"`
	Edition        string              `json:"edition,omitempty"`
	Location       string              `json:"location,omitempty"`
	AllergenLegend map[string]string   `json:"allergen_legend,omitempty"`
	Sections       []SectionDefinition `json:"sections,omitempty"`

	// Legacy shape: category name -> items.
	Categories map[string][]ItemDefinition `json:"categories,omitempty"`
}

// SectionDefinition is one menu section of the external document
type SectionDefinition struct {
	Name  string           `json:"name"`
	Items []ItemDefinition `json:"items"`
}

// ItemDefinition is one menu entry of the external document
type ItemDefinition struct {
	ID          string        `json:"id,omitempty"`
	Name        string        `json:"name"`
	Price       float64       `json:"price,omitempty"`
	Sizes       []SizeVariant `json:"sizes,omitempty"`
	Description string        `json:"description,omitempty"`
	Allergens   []int         `json:"allergens,omitempty"`
	Vegetarian  bool          `json:"vegetarian,omitempty"`
	Vegan       bool          `json:"vegan,omitempty"`
}

// Load reads a menu definition and builds the normalized catalog
func Load(r io.Reader) (*Catalog, error) {
	var def Definition
	if err := json.NewDecoder(r).Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to parse menu definition: %w", err)
	}
	return BuildCatalog(&def)
}

// LoadFile loads a menu definition from a JSON file
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open menu file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// BuildCatalog normalizes an already-parsed definition into a Catalog
func BuildCatalog(def *Definition) (*Catalog, error) {
	restaurant := def.Restaurant
	if restaurant == "" {
		restaurant = "Ristorante"
	}

	legend := make(map[int]string, len(def.AllergenLegend))
	for key, name := range def.AllergenLegend {
		code, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid allergen code %q in legend", key)
		}
		legend[code] = name
	}

	var items []Item
	appendItem := func(section string, d ItemDefinition) {
		id := d.ID
		if id == "" {
			id = Normalize(d.Name)
		}
		items = append(items, Item{
			ID:          id,
			Name:        d.Name,
			Section:     section,
			BasePrice:   d.Price,
			Description: d.Description,
			Allergens:   d.Allergens,
			Vegetarian:  d.Vegetarian || d.Vegan,
			Vegan:       d.Vegan,
			Sizes:       d.Sizes,
		})
	}

	for _, section := range def.Sections {
		for _, d := range section.Items {
			appendItem(section.Name, d)
		}
	}
	categories := make([]string, 0, len(def.Categories))
	for category := range def.Categories {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		for _, d := range def.Categories[category] {
			appendItem(category, d)
		}
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("menu definition contains no items")
	}

	return NewCatalog(restaurant, def.Edition, def.Location, legend, items), nil
}
