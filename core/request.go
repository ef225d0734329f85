package core

import "context"

// Classification is the result produced by an upstream natural-language
// classifier. This core consumes it, never produces it.
type Classification struct {
	Intent          string   `json:"intent,omitempty"`
	Domain          string   `json:"domain,omitempty"`
	Topic           string   `json:"topic,omitempty"`
	TopicConfidence float64  `json:"topic_confidence,omitempty"`
	Topics          []string `json:"topics,omitempty"`
}

// Request is the per-turn input payload handed to the planner and the
// routing heuristic alongside turn state.
//
// Pattern is an explicit graph override and is honored only when
// PatternExplicit is set. The flag is the narrow channel that separates a
// deliberate caller override from an ambient caller-default pattern; the
// latter must never be mistaken for the former.
type Request struct {
	Query           string         `json:"query"`
	Pattern         string         `json:"pattern,omitempty"`
	PatternExplicit bool           `json:"pattern_explicit,omitempty"`
	Classification  Classification `json:"classification,omitempty"`
}

// Agent is the shape of an external processing component named in execution
// plans. The agents themselves (query refinement, critique, historical
// retrieval, answer synthesis, data query) and the graph runner that
// executes them live outside this core; the planner only decides which of
// them run and from where.
type Agent interface {
	// Name returns the canonical lower-case agent name used in plans.
	Name() string
	// Execute runs the agent against the shared turn state.
	Execute(ctx context.Context, state State, input string) (string, error)
}

// Classifier produces the upstream Classification consumed via Request. It
// is defined here only so callers share one contract; no implementation
// ships with this core.
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}
