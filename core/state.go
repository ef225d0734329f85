package core

// Turn-state keys owned by this core. These keys are read and written on the
// caller-owned State map; every other key is opaque pass-through.
const (
	// Routing decision for the current turn.
	KeyRoute        = "route"         // string - locked or hinted route target
	KeyRouteLocked  = "route_locked"  // bool - whether the route is pinned for the turn
	KeyGraphPattern = "graph_pattern" // string - execution graph pattern pinned with the route

	// Routing diagnostics.
	KeyRouteKey       = "route_key"       // string - which heuristic produced the route
	KeyRouteReason    = "route_reason"    // string - human readable routing reason
	KeyRoutingSignals = "routing_signals" // map - diagnostic mirror of RoutingSignals

	// Confirmation-gate protocol.
	KeyPendingAction       = "pending_action"        // map - gate awaiting a yes/no/cancel reply
	KeyPendingActionLast   = "pending_action_last"   // map - snapshot of the superseded gate
	KeyPendingActionResult = "pending_action_result" // map - one-shot decision record

	// Wizard cooperation (the wizard itself is external).
	KeyWizard     = "wizard" // map - nested wizard sub-state
	WizardStepKey = "step"   // string - step field inside the wizard map

	// Per-turn execution hints.
	KeySkipAgents      = "skip_agents"      // []string - agents the runner should skip
	KeySuppressHistory = "suppress_history" // bool - keep this turn's raw text out of history

	// Bail-out bookkeeping written when a gate is declined or cancelled.
	KeyBail       = "bail"        // bool
	KeyBailReason = "bail_reason" // string
)

// Legacy compatibility keys from the old-style confirmation protocol. They
// are cleared whenever a result is consumed so stale confirmations cannot
// re-fire after an upgrade mid-conversation.
const (
	KeyLegacyAwaitingConfirmation = "awaiting_confirmation"
	KeyLegacyConfirmationDecision = "confirmation_decision"
)

// State is the mutable, JSON-safe key/value turn state of a single
// conversation. It is owned by the caller, passed by reference into every
// call and mutated in place; persistence across turns is the caller's
// concern. The core holds no global state, so distinct conversations may be
// processed concurrently as long as each carries its own State and the
// caller serializes overlapping turns of the same conversation.
//
// All accessors are total: a missing key or a wrong-shaped value degrades to
// the zero answer instead of panicking, because a malformed state must never
// block a conversation.
type State map[string]any

// GetString returns the string stored under key, or "" if the key is absent
// or holds a non-string value.
func (s State) GetString(key string) string {
	if s == nil {
		return ""
	}
	v, ok := s[key].(string)
	if !ok {
		return ""
	}
	return v
}

// GetBool returns the boolean stored under key. Only a literal true counts;
// absence, nil and any non-bool value all return false.
func (s State) GetBool(key string) bool {
	if s == nil {
		return false
	}
	v, ok := s[key].(bool)
	return ok && v
}

// GetMap returns the nested mapping stored under key, or nil if the key is
// absent or not map-shaped. The returned map aliases the stored one.
func (s State) GetMap(key string) map[string]any {
	if s == nil {
		return nil
	}
	v, ok := s[key].(map[string]any)
	if !ok {
		return nil
	}
	return v
}

// GetStringSlice returns the string list stored under key. Both []string and
// the []any shape produced by JSON round-trips are accepted; non-string
// elements are skipped.
func (s State) GetStringSlice(key string) []string {
	if s == nil {
		return nil
	}
	switch v := s[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// Set stores value under key. A nil State is a silent no-op so callers never
// need a nil guard on optional state.
func (s State) Set(key string, value any) {
	if s == nil {
		return
	}
	s[key] = value
}

// Delete removes key from the state.
func (s State) Delete(key string) {
	if s == nil {
		return
	}
	delete(s, key)
}

// Has reports whether key is present, regardless of its value.
func (s State) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s[key]
	return ok
}

// Clone returns a deep copy of the state with JSON-safe values; see
// Bag.Sanitize for the copy rules.
func (s State) Clone() State {
	if s == nil {
		return nil
	}
	return State(Bag(s).Sanitize())
}
