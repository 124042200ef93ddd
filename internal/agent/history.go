package agent

// Turn is a single conversation exchange half
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// History is the append-only record of a session's conversation. The LLM sees
// only a truncated window of it, but reference resolution (pronouns, implicit
// confirmations) scans the full record.
type History struct {
	turns []Turn
}

// NewHistory creates an empty conversation history
func NewHistory() *History {
	return &History{}
}

// Append records one turn
func (h *History) Append(role, text string) {
	h.turns = append(h.turns, Turn{Role: role, Text: text})
}

// Len returns the number of recorded turns
func (h *History) Len() int { return len(h.turns) }

// Turns returns a copy of all recorded turns
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Window returns the most recent n turns for LLM context
func (h *History) Window(n int) []Turn {
	if n <= 0 || len(h.turns) <= n {
		return h.Turns()
	}
	out := make([]Turn, n)
	copy(out, h.turns[len(h.turns)-n:])
	return out
}

// LastAssistant returns the text of the most recent assistant turn
func (h *History) LastAssistant() (string, bool) {
	for i := len(h.turns) - 1; i >= 0; i-- {
		if h.turns[i].Role == "assistant" {
			return h.turns[i].Text, true
		}
	}
	return "", false
}

// AssistantTexts returns every assistant turn, oldest first
func (h *History) AssistantTexts() []string {
	var out []string
	for _, t := range h.turns {
		if t.Role == "assistant" {
			out = append(out, t.Text)
		}
	}
	return out
}

// Reset drops all recorded turns
func (h *History) Reset() {
	h.turns = nil
}
