package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"trattoria/internal/menu"
	"trattoria/internal/order"
	"trattoria/internal/providers"
)

// Phase is an advisory label for where the conversation stands. It informs
// prompt tone only; no operation is ever refused because of the phase.
type Phase string

const (
	PhaseGreeting   Phase = "GREETING"
	PhaseExploring  Phase = "EXPLORING"
	PhaseOrdering   Phase = "ORDERING"
	PhaseConfirming Phase = "CONFIRMING"
	PhaseCompleted  Phase = "COMPLETED"
)

const apologyReply = "I'm terribly sorry, I didn't catch that. Could you repeat it for me?"

// Waiter drives one table's conversation: it screens the message, tracks
// preferences, decides whether the customer is ordering, extracts and
// validates items, applies them to the order and produces the reply. Not
// safe for concurrent use; callers serialize per conversation.
type Waiter struct {
	catalog    *menu.Catalog
	provider   providers.Provider
	tuning     Tuning
	gate       *SafetyGate
	prefs      *PreferenceTracker
	classifier *IntentClassifier
	extractor  *ItemExtractor
	compliance *ComplianceChecker

	history *History
	order   *order.Order
	phase   Phase
}

// NewWaiter assembles a waiter for one conversation. The provider may be
// nil, which degrades replies to deterministic summaries but keeps the
// order pipeline fully functional.
func NewWaiter(catalog *menu.Catalog, provider providers.Provider, tuning Tuning) *Waiter {
	return &Waiter{
		catalog:    catalog,
		provider:   provider,
		tuning:     tuning,
		gate:       NewSafetyGate(provider),
		prefs:      NewPreferenceTracker(),
		classifier: NewIntentClassifier(provider, tuning),
		extractor:  NewItemExtractor(catalog),
		compliance: NewComplianceChecker(catalog),
		history:    NewHistory(),
		order:      order.New(),
		phase:      PhaseGreeting,
	}
}

// Order exposes the conversation's order
func (w *Waiter) Order() *order.Order { return w.order }

// History exposes the conversation transcript
func (w *Waiter) History() *History { return w.history }

// Phase returns the current advisory phase
func (w *Waiter) Phase() Phase { return w.phase }

// Greeting returns the opening line for a fresh table
func (w *Waiter) Greeting() string {
	return fmt.Sprintf("Buonasera and welcome to %s! I'm your waiter for this evening. May I bring you something to drink while you look at the menu?", w.catalog.RestaurantName())
}

// Chat processes one customer message and returns the reply together with
// the turn's analysis. The analysis is always populated, including for
// blocked messages.
func (w *Waiter) Chat(ctx context.Context, message string) (string, *Analysis, error) {
	analysis := &Analysis{MenuCompliant: true}

	allowed, feedback := w.gate.Allow(ctx, message)
	if !allowed {
		analysis.Blocked = true
		w.record(message, feedback)
		return feedback, analysis, nil
	}

	turnPrefs := w.prefs.Extract(message)
	w.order.Preferences().Merge(turnPrefs)

	analysis.OrderProbability = w.classifier.EstimateOrderProbability(ctx, message)
	analysis.IsOrderIntent = analysis.OrderProbability > w.tuning.OrderThreshold

	var applied []string
	if analysis.IsOrderIntent {
		analysis.Candidates = w.extractor.Extract(message, w.history, w.order)
		if len(analysis.Candidates) == 0 {
			analysis.NeedsClarification = true
			analysis.Clarification = ClarifyOrderIntent
			analysis.ClarificationText = "It sounds like you'd like to order something, but I'm not sure what. Could you tell me which dish you'd like?"
		} else {
			w.compliance.Check(analysis, w.history)
			applied = w.apply(analysis)
		}
	}

	// A reference to something that matched nothing on the menu is answered
	// with the prepared question. A vague order with no reference at all goes
	// to the model instead, annotated, so it can ask or suggest options.
	if analysis.NeedsClarification && (analysis.Clarification == ClarifyItemConfirmation || w.provider == nil) {
		w.record(message, analysis.ClarificationText)
		w.advancePhase(analysis)
		return analysis.ClarificationText, analysis, nil
	}

	reply, err := w.reply(ctx, message, applied, analysis)
	if err != nil {
		if errors.As(err, new(*providers.ProviderError)) {
			log.Printf("[waiter] reply generation failed: %v", err)
			reply = apologyReply
			if analysis.ClarificationText != "" {
				reply = analysis.ClarificationText
			}
		} else {
			return "", analysis, err
		}
	}

	if w.tuning.RecheckResponses {
		if ok, feedback := w.gate.CheckResponse(ctx, reply, message); !ok {
			log.Printf("[waiter] reply failed recheck (%s), substituting apology", feedback)
			reply = apologyReply
		}
	}

	w.record(message, reply)
	w.advancePhase(analysis)
	return reply, analysis, nil
}

// apply adds the compliant candidates to the order and returns the display
// names of what was added for prompt annotation.
func (w *Waiter) apply(analysis *Analysis) []string {
	var applied []string
	for _, cand := range analysis.Candidates {
		if cand.Custom {
			id := "custom:" + menu.Normalize(cand.CustomName)
			w.order.AddCustomItem(id, cand.CustomName, 1, "")
			applied = append(applied, cand.CustomName)
			continue
		}
		if cand.Item == nil {
			continue
		}
		price, size := cand.Item.PriceForSize(cand.Size)
		w.order.AddItem(cand.Item.ID, cand.Item.Name, price, 1, "", size)
		applied = append(applied, cand.Item.Name)
	}
	return applied
}

// reply generates the conversational answer, grounding the model in the
// menu, the running order and the recorded preferences.
func (w *Waiter) reply(ctx context.Context, message string, applied []string, analysis *Analysis) (string, error) {
	if w.provider == nil {
		if len(applied) > 0 {
			return fmt.Sprintf("Excellent choice! I've added %s. %s", strings.Join(applied, ", "), w.order.Summary()), nil
		}
		return "Of course. Is there anything on the menu I can tell you more about?", nil
	}

	messages := []providers.Message{{Role: providers.RoleSystem, Content: w.persona()}}
	// Turn roles reuse the provider role constants.
	for _, turn := range w.history.Window(w.tuning.HistoryWindow) {
		messages = append(messages, providers.Message{Role: turn.Role, Content: turn.Text})
	}
	messages = append(messages, providers.Message{Role: providers.RoleUser, Content: message})
	if len(applied) > 0 {
		messages = append(messages, providers.Message{
			Role:    providers.RoleSystem,
			Content: fmt.Sprintf("Note: the following items were just added to the order, acknowledge them naturally: %s", strings.Join(applied, ", ")),
		})
	}
	if analysis.Clarification == ClarifyOrderIntent {
		messages = append(messages, providers.Message{
			Role:    providers.RoleSystem,
			Content: "Note: the customer seems to want to order but has not named a dish. Ask what they would like, or suggest something from the menu.",
		})
	}

	return w.provider.Generate(ctx, messages,
		providers.WithMaxTokens(w.tuning.MaxReplyTokens),
		providers.WithTemperature(w.tuning.ReplyTemperature),
	)
}

func (w *Waiter) persona() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a warm, professional Italian waiter at %s. Answer briefly and never invent dishes that are not on the menu.\n\n", w.catalog.RestaurantName())
	b.WriteString(w.catalog.FormatForLLM())
	b.WriteString("\n\nCustomer preferences: ")
	b.WriteString(w.order.Preferences().Describe())
	b.WriteString("\nCurrent order:\n")
	b.WriteString(w.order.Summary())
	return b.String()
}

func (w *Waiter) record(message, reply string) {
	w.history.Append(providers.RoleUser, message)
	w.history.Append(providers.RoleAssistant, reply)
}

// advancePhase moves the advisory phase along the conversation arc
func (w *Waiter) advancePhase(analysis *Analysis) {
	switch {
	case w.order.Status() == order.StatusSent || w.order.Status() == order.StatusCompleted:
		w.phase = PhaseCompleted
	case analysis.NeedsClarification:
		w.phase = PhaseConfirming
	case !w.order.IsEmpty():
		w.phase = PhaseOrdering
	case w.phase == PhaseGreeting:
		w.phase = PhaseExploring
	}
}

// OrderSummary returns the customer-facing order recap
func (w *Waiter) OrderSummary() string { return w.order.Summary() }

// ConfirmOrder confirms the current order and reports the result
func (w *Waiter) ConfirmOrder() (string, error) {
	if w.order.IsEmpty() {
		return "", fmt.Errorf("confirm order: nothing ordered yet")
	}
	if !w.order.Confirm() {
		return "", fmt.Errorf("confirm order: already %s", w.order.Status())
	}
	w.phase = PhaseConfirming
	return fmt.Sprintf("Perfetto, your order is confirmed. %s", w.order.Summary()), nil
}

// SendToKitchen marks the confirmed order as sent and returns the kitchen
// ticket.
func (w *Waiter) SendToKitchen() (string, error) {
	if !w.order.SendToKitchen() {
		return "", fmt.Errorf("send to kitchen: order is %s, not confirmed", w.order.Status())
	}
	w.phase = PhaseCompleted
	return w.order.KitchenSummary(), nil
}

// ClearOrder empties the order but keeps preferences and history
func (w *Waiter) ClearOrder() {
	w.order.Clear()
	w.phase = PhaseExploring
}

// Reset starts the conversation over entirely
func (w *Waiter) Reset() {
	w.history.Reset()
	w.order = order.New()
	w.phase = PhaseGreeting
}
