package core

// Keys identifying which routing heuristic produced a signal, strongest
// first.
const (
	SignalKeyCommandPrefix = "command_prefix"
	SignalKeyTopicMatch    = "topic_match"
	SignalKeyIntentHint    = "intent_hint"
	SignalKeyNone          = "none"
)

// RoutingSignals is the output of the pure routing heuristic. An empty
// Target means no opinion. All fields are normalized lower-case/trimmed.
type RoutingSignals struct {
	Target string `json:"target,omitempty"`
	Locked bool   `json:"locked,omitempty"`
	Reason string `json:"reason,omitempty"`
	Key    string `json:"key"`
}

// HasOpinion reports whether the heuristic picked a target.
func (s RoutingSignals) HasOpinion() bool { return s.Target != "" }

// ToBag renders the signals as the diagnostic map mirrored into turn state
// under the routing_signals key.
func (s RoutingSignals) ToBag() Bag {
	b := Bag{"key": s.Key, "locked": s.Locked}
	if s.Target != "" {
		b["target"] = s.Target
	}
	if s.Reason != "" {
		b["reason"] = s.Reason
	}
	return b
}
