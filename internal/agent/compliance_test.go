package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trattoria/internal/providers"
)

func TestCheckResolvesCatalogReferences(t *testing.T) {
	c := NewComplianceChecker(testCatalog(t))

	a := &Analysis{Candidates: []Candidate{{Raw: "carbonara", Size: ""}}}
	c.Check(a, NewHistory())

	assert.True(t, a.MenuCompliant)
	assert.False(t, a.NeedsClarification)
	require.Len(t, a.Candidates, 1)
	require.NotNil(t, a.Candidates[0].Item)
	assert.Equal(t, "Spaghetti alla Carbonara", a.Candidates[0].Item.Name)
}

func TestCheckResolvesFromHistory(t *testing.T) {
	c := NewComplianceChecker(testCatalog(t))
	history := NewHistory()
	history.Append(providers.RoleAssistant, "Our Risotto ai Funghi is today's special.")

	a := &Analysis{Candidates: []Candidate{{Raw: "risotto fungi"}}}
	c.Check(a, history)

	assert.True(t, a.MenuCompliant)
	require.Len(t, a.Candidates, 1)
	require.NotNil(t, a.Candidates[0].Item)
	assert.Equal(t, "Risotto ai Funghi", a.Candidates[0].Item.Name)
	assert.True(t, a.Candidates[0].FromHistory, "wording the assistant introduced counts as compliant")
}

func TestCheckSuggestsSubstitutes(t *testing.T) {
	c := NewComplianceChecker(testCatalog(t))

	a := &Analysis{Candidates: []Candidate{{Raw: "spaghetti pomodoro"}}}
	c.Check(a, NewHistory())

	assert.False(t, a.MenuCompliant)
	assert.True(t, a.NeedsClarification)
	assert.Equal(t, ClarifyItemConfirmation, a.Clarification)
	assert.Empty(t, a.Candidates, "unresolved references must not reach the order")

	require.Len(t, a.Substitutes, 1)
	sub := a.Substitutes[0]
	assert.Equal(t, "spaghetti pomodoro", sub.Requested)
	assert.Equal(t, "Spaghetti alla Carbonara", sub.Suggested)
	assert.Equal(t, 12.50, sub.Price)
	assert.Contains(t, a.ClarificationText, `did you mean "Spaghetti alla Carbonara" (€12.50)?`)
}

func TestCheckAsksForRestatementWithoutSuggestion(t *testing.T) {
	c := NewComplianceChecker(testCatalog(t))

	a := &Analysis{Candidates: []Candidate{{Raw: "pad thai"}}}
	c.Check(a, NewHistory())

	assert.False(t, a.MenuCompliant)
	require.Len(t, a.Substitutes, 1)
	assert.Empty(t, a.Substitutes[0].Suggested)
	assert.Contains(t, a.ClarificationText, "Could you tell me again")
}

func TestCheckPassesResolvedCandidatesThrough(t *testing.T) {
	catalog := testCatalog(t)
	c := NewComplianceChecker(catalog)

	item := catalog.FindExact("Espresso")
	require.NotNil(t, item)

	a := &Analysis{Candidates: []Candidate{
		{Raw: "Espresso", Item: item},
		{Raw: "still water", Custom: true, CustomName: "still water"},
	}}
	c.Check(a, NewHistory())

	assert.True(t, a.MenuCompliant)
	assert.Len(t, a.Candidates, 2)
}
