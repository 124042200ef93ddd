package menu

import (
	"fmt"
	"strings"
)

// SizeVariant is one orderable size of an item with its own price
type SizeVariant struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// Item represents a dish on the menu
type Item struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Section     string        `json:"section"`
	BasePrice   float64       `json:"base_price"`
	Description string        `json:"description"`
	Allergens   []int         `json:"allergens"`
	Vegetarian  bool          `json:"vegetarian"`
	Vegan       bool          `json:"vegan"`
	Sizes       []SizeVariant `json:"sizes,omitempty"`
}

// Price returns the display price: the base price, or the first size variant's
// price when the item is size-variant-only. Ordering must use PriceForSize so
// the chosen variant's own price is captured.
func (it *Item) Price() float64 {
	if it.BasePrice == 0 && len(it.Sizes) > 0 {
		return it.Sizes[0].Price
	}
	return it.BasePrice
}

// PriceForSize resolves the price and canonical label for a requested size.
// An empty or unknown size on a sized item falls back to the first variant.
func (it *Item) PriceForSize(size string) (float64, string) {
	if len(it.Sizes) == 0 {
		return it.Price(), ""
	}
	size = strings.ToLower(strings.TrimSpace(size))
	for _, v := range it.Sizes {
		if strings.ToLower(v.Label) == size {
			return v.Price, v.Label
		}
	}
	return it.Sizes[0].Price, it.Sizes[0].Label
}

// HasAllergen checks if the item carries a specific allergen code
func (it *Item) HasAllergen(code int) bool {
	for _, a := range it.Allergens {
		if a == code {
			return true
		}
	}
	return false
}

// DisplayLine formats the item for menus and prompts
func (it *Item) DisplayLine() string {
	if len(it.Sizes) > 0 {
		parts := make([]string, len(it.Sizes))
		for i, v := range it.Sizes {
			parts[i] = fmt.Sprintf("%s: €%.2f", v.Label, v.Price)
		}
		return fmt.Sprintf("%s (%s)", it.Name, strings.Join(parts, " | "))
	}
	if it.BasePrice > 0 {
		return fmt.Sprintf("%s (€%.2f)", it.Name, it.BasePrice)
	}
	return it.Name
}
