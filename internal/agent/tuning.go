package agent

// Tuning collects the product-level knobs of the engine. The intent blend
// weights and the two order thresholds shipped with different historical
// defaults; they are configuration here, not behavior.
type Tuning struct {
	// ClassifierThreshold is the probability above which the standalone
	// classifier reports an order.
	ClassifierThreshold float64 `yaml:"classifier_threshold"`
	// OrderThreshold is the (lower) threshold the orchestrator uses when
	// deciding whether to run extraction for a turn.
	OrderThreshold float64 `yaml:"order_threshold"`
	// RuleWeight and LLMWeight blend the rule-based and LLM probability
	// estimates inside the ambiguous band.
	RuleWeight float64 `yaml:"rule_weight"`
	LLMWeight  float64 `yaml:"llm_weight"`
	// HistoryWindow is the number of recent turns sent as LLM context.
	HistoryWindow int `yaml:"history_window"`
	// MaxReplyTokens bounds open-ended reply generation.
	MaxReplyTokens int `yaml:"max_reply_tokens"`
	// ReplyTemperature is the sampling temperature for replies.
	ReplyTemperature float64 `yaml:"reply_temperature"`
	// RecheckResponses runs the safety gate over generated replies too.
	RecheckResponses bool `yaml:"recheck_responses"`
}

// DefaultTuning returns the shipped defaults
func DefaultTuning() Tuning {
	return Tuning{
		ClassifierThreshold: 0.7,
		OrderThreshold:      0.6,
		RuleWeight:          0.7,
		LLMWeight:           0.3,
		HistoryWindow:       10,
		MaxReplyTokens:      512,
		ReplyTemperature:    0.8,
		RecheckResponses:    false,
	}
}
