package menu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	def := &Definition{
		Restaurant:     "Trattoria da Mario",
		AllergenLegend: map[string]string{"1": "gluten", "3": "eggs", "7": "milk"},
		Sections: []SectionDefinition{
			{Name: "Antipasti", Items: []ItemDefinition{
				{Name: "Bruschetta al Pomodoro", Price: 6.50, Vegetarian: true, Allergens: []int{1}},
			}},
			{Name: "Primi Piatti", Items: []ItemDefinition{
				{Name: "Spaghetti alla Carbonara", Price: 12.50, Allergens: []int{1, 3}},
				{Name: "Risotto ai Funghi", Price: 13.00, Vegetarian: true, Allergens: []int{7}},
			}},
			{Name: "Secondi", Items: []ItemDefinition{
				{Name: "Grilled Sea Bass", Price: 18.00},
			}},
			{Name: "Pizze", Items: []ItemDefinition{
				{Name: "Margherita", Vegetarian: true, Allergens: []int{1, 7}, Sizes: []SizeVariant{
					{Label: "media", Price: 7.00},
					{Label: "grande", Price: 9.00},
				}},
			}},
			{Name: "Colazione", Items: []ItemDefinition{
				{Name: "Açaí Bowl", Price: 8.00, Vegan: true},
				{Name: "Yogurt Greco", Vegetarian: true, Allergens: []int{7}, Sizes: []SizeVariant{
					{Label: "piccolo", Price: 3.50},
					{Label: "grande", Price: 5.00},
				}},
			}},
			{Name: "Dolci", Items: []ItemDefinition{
				{Name: "Tiramisù", Price: 6.00, Vegetarian: true, Allergens: []int{1, 3, 7}},
			}},
		},
	}
	catalog, err := BuildCatalog(def)
	require.NoError(t, err)
	return catalog
}

func TestFindByName(t *testing.T) {
	catalog := testCatalog(t)

	assert.NotNil(t, catalog.FindByName("Tiramisù"))
	assert.NotNil(t, catalog.FindByName("TIRAMISÙ"), "lookup should be case-insensitive")

	folded := catalog.FindByName("acai bowl")
	require.NotNil(t, folded, "diacritic-free lookup should resolve")
	assert.Equal(t, "Açaí Bowl", folded.Name)

	partial := catalog.FindByName("carbonara")
	require.NotNil(t, partial)
	assert.Equal(t, "Spaghetti alla Carbonara", partial.Name)

	assert.Nil(t, catalog.FindByName("sushi"))
	assert.Nil(t, catalog.FindByName(""))
}

func TestHasItemLike(t *testing.T) {
	catalog := testCatalog(t)

	assert.True(t, catalog.HasItemLike("Margherita"))
	assert.True(t, catalog.HasItemLike("margerita"), "a one-letter typo should still look like a real item")
	assert.False(t, catalog.HasItemLike("pad thai"))
}

func TestFindBestFuzzy(t *testing.T) {
	catalog := testCatalog(t)

	item, score := catalog.FindBestFuzzy("tiramisu", "")
	require.NotNil(t, item)
	assert.Equal(t, "Tiramisù", item.Name)
	assert.Equal(t, 1.0, score)

	item, score = catalog.FindBestFuzzy("pizza margherita", "")
	require.NotNil(t, item)
	assert.Equal(t, "Margherita", item.Name)
	assert.Greater(t, score, FuzzyFloor)

	item, _ = catalog.FindBestFuzzy("sushi roll", "")
	assert.Nil(t, item, "nothing on the menu should clear the floor")
}

func TestSearch(t *testing.T) {
	catalog := testCatalog(t)

	vegan := catalog.Search(Filters{Vegan: true})
	require.Len(t, vegan, 1)
	assert.Equal(t, "Açaí Bowl", vegan[0].Name)

	cheap := catalog.Search(Filters{MaxPrice: 7.00})
	for _, it := range cheap {
		assert.LessOrEqual(t, it.Price(), 7.00)
	}
	assert.NotEmpty(t, cheap)

	noEggs := catalog.Search(Filters{ExcludeAllergens: []int{3}})
	for _, it := range noEggs {
		assert.False(t, it.HasAllergen(3), "%s carries the excluded allergen", it.Name)
	}

	primi := catalog.Search(Filters{Section: "Primi Piatti", TextQuery: "funghi"})
	require.Len(t, primi, 1)
	assert.Equal(t, "Risotto ai Funghi", primi[0].Name)
}

func TestPriceForSize(t *testing.T) {
	catalog := testCatalog(t)
	pizza := catalog.FindExact("Margherita")
	require.NotNil(t, pizza)

	price, label := pizza.PriceForSize("grande")
	assert.Equal(t, 9.00, price)
	assert.Equal(t, "grande", label)

	price, label = pizza.PriceForSize("")
	assert.Equal(t, 7.00, price, "unsized request should fall back to the first variant")
	assert.Equal(t, "media", label)

	assert.Equal(t, 7.00, pizza.Price())
}

func TestFormatForLLM(t *testing.T) {
	catalog := testCatalog(t)
	menu := catalog.FormatForLLM()

	assert.Contains(t, menu, "Trattoria da Mario")
	assert.Contains(t, menu, "PRIMI PIATTI:")
	assert.Contains(t, menu, "Grilled Sea Bass (€18.00)")
	assert.Contains(t, menu, "media: €7.00 | grande: €9.00")
	assert.Contains(t, menu, "[VEGAN]")
	assert.Contains(t, menu, "Allergens: gluten, eggs")
}

func TestBuildCatalogLegacyShape(t *testing.T) {
	def := &Definition{
		Categories: map[string][]ItemDefinition{
			"Drinks": {{Name: "Espresso", Price: 1.50}},
			"Mains":  {{Name: "Lasagna", Price: 11.00}},
		},
	}
	catalog, err := BuildCatalog(def)
	require.NoError(t, err)

	assert.Equal(t, "Ristorante", catalog.RestaurantName())
	assert.Equal(t, []string{"Drinks", "Mains"}, catalog.Sections(), "legacy categories should load in sorted order")
	assert.NotNil(t, catalog.FindExact("Espresso"))
}

func TestBuildCatalogErrors(t *testing.T) {
	_, err := BuildCatalog(&Definition{Restaurant: "Empty"})
	assert.Error(t, err)

	_, err = BuildCatalog(&Definition{
		AllergenLegend: map[string]string{"one": "gluten"},
		Sections:       []SectionDefinition{{Name: "A", Items: []ItemDefinition{{Name: "X"}}}},
	})
	assert.Error(t, err)
}

func TestLoadJSON(t *testing.T) {
	doc := `{
		"restaurant": "Da Luigi",
		"sections": [
			{"name": "Primi", "items": [{"name": "Pici al Pesto", "price": 10.5, "vegetarian": true}]}
		]
	}`
	catalog, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Da Luigi", catalog.RestaurantName())

	item := catalog.FindExact("Pici al Pesto")
	require.NotNil(t, item)
	assert.True(t, item.Vegetarian)
	assert.Equal(t, "pici al pesto", item.ID, "missing ids should derive from the normalized name")
}
