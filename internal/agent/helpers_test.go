package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"trattoria/internal/menu"
	"trattoria/internal/providers"
)

func testCatalog(t *testing.T) *menu.Catalog {
	t.Helper()
	def := &menu.Definition{
		Restaurant: "Trattoria da Mario",
		Sections: []menu.SectionDefinition{
			{Name: "Antipasti", Items: []menu.ItemDefinition{
				{Name: "Bruschetta al Pomodoro", Price: 6.50, Vegetarian: true},
			}},
			{Name: "Primi Piatti", Items: []menu.ItemDefinition{
				{Name: "Spaghetti alla Carbonara", Price: 12.50},
				{Name: "Risotto ai Funghi", Price: 13.00, Vegetarian: true},
			}},
			{Name: "Secondi", Items: []menu.ItemDefinition{
				{Name: "Grilled Sea Bass", Price: 18.00},
			}},
			{Name: "Pizze", Items: []menu.ItemDefinition{
				{Name: "Margherita", Vegetarian: true, Sizes: []menu.SizeVariant{
					{Label: "media", Price: 7.00},
					{Label: "grande", Price: 9.00},
				}},
			}},
			{Name: "Caffetteria", Items: []menu.ItemDefinition{
				{Name: "Espresso", Price: 1.50},
			}},
			{Name: "Colazione", Items: []menu.ItemDefinition{
				{Name: "Yogurt Greco", Vegetarian: true, Sizes: []menu.SizeVariant{
					{Label: "piccolo", Price: 3.50},
					{Label: "grande", Price: 5.00},
				}},
			}},
			{Name: "Dolci", Items: []menu.ItemDefinition{
				{Name: "Tiramisù", Price: 6.00, Vegetarian: true},
			}},
		},
	}
	catalog, err := menu.BuildCatalog(def)
	require.NoError(t, err)
	return catalog
}

// stubProvider answers gate prompts with ALLOW, probability prompts with a
// fixed number and pops scripted responses for everything else. An exhausted
// queue keeps returning the last response.
type stubProvider struct {
	responses []string
	number    string
	err       error
	calls     int
}

func (s *stubProvider) Generate(ctx context.Context, messages []providers.Message, opts ...providers.CallOption) (string, error) {
	last := messages[len(messages)-1].Content
	if strings.Contains(last, "content gate") {
		return "ALLOW", nil
	}
	if strings.Contains(last, "reviewing a restaurant assistant's reply") {
		return "SAFE", nil
	}
	s.calls++
	if strings.Contains(last, "Estimate the probability") {
		if s.err != nil {
			return "", s.err
		}
		if s.number == "" {
			return "0.5", nil
		}
		return s.number, nil
	}
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "Certainly!", nil
	}
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

func (s *stubProvider) GenerateJSON(ctx context.Context, messages []providers.Message, out interface{}, opts ...providers.CallOption) error {
	_, err := s.Generate(ctx, messages, opts...)
	return err
}
