package core

import "strings"

// PendingTypeConfirmYesNo is the only gate type currently defined by the
// protocol.
const PendingTypeConfirmYesNo = "confirm_yes_no"

// clearedPrefix tags a consumed gate's type. A consumed gate is rewritten in
// place rather than deleted so that a later state merge cannot resurrect it
// as still awaiting.
const clearedPrefix = "cleared:"

// Decision is the outcome of an answered confirmation gate.
type Decision string

// Gate decisions.
const (
	DecisionYes    Decision = "yes"
	DecisionNo     Decision = "no"
	DecisionCancel Decision = "cancel"
)

// GateStatus is the tagged lifecycle state of a PendingAction. Presence of
// the pending_action key alone never means "pending": only GateAwaiting does.
type GateStatus int

const (
	// GateEmpty means no usable gate: the key is absent, malformed, or the
	// awaiting invariant does not hold.
	GateEmpty GateStatus = iota
	// GateAwaiting means the gate is actively awaiting a yes/no/cancel reply.
	GateAwaiting
	// GateCleared means the gate was consumed and tombstoned.
	GateCleared
)

// PendingAction records that the system is awaiting a yes/no/cancel reply
// before resuming a previously asked question. It is created by an owning
// collaborator, consumed at most once by the turn controller and tombstoned
// forever after.
type PendingAction struct {
	Type            string `json:"type"`
	Owner           string `json:"owner"`
	Awaiting        bool   `json:"awaiting"`
	PendingQuestion string `json:"pending_question"`
	ResumeRoute     string `json:"resume_route"`
	ResumePattern   string `json:"resume_pattern"`
	Reason          string `json:"reason,omitempty"`
	Context         Bag    `json:"context,omitempty"`
	DisplayPrompt   string `json:"display_prompt,omitempty"`
}

// Status derives the tagged lifecycle state. Actively awaiting requires the
// full invariant: type confirm_yes_no, awaiting literally true and a
// non-empty pending question.
func (p *PendingAction) Status() GateStatus {
	switch {
	case p == nil || p.Type == "":
		return GateEmpty
	case strings.HasPrefix(p.Type, clearedPrefix):
		return GateCleared
	case p.Type == PendingTypeConfirmYesNo && p.Awaiting && strings.TrimSpace(p.PendingQuestion) != "":
		return GateAwaiting
	default:
		return GateEmpty
	}
}

// Tombstone rewrites the gate as consumed. The original type is preserved
// inside the tombstone tag for diagnostics.
func (p *PendingAction) Tombstone() {
	if p == nil {
		return
	}
	if !strings.HasPrefix(p.Type, clearedPrefix) {
		p.Type = clearedPrefix + p.Type
	}
	p.Awaiting = false
}

// Encode renders the gate as the JSON-safe map stored under pending_action.
func (p *PendingAction) Encode() map[string]any {
	if p == nil {
		return nil
	}
	m := map[string]any{
		"type":             p.Type,
		"owner":            p.Owner,
		"awaiting":         p.Awaiting,
		"pending_question": p.PendingQuestion,
		"resume_route":     p.ResumeRoute,
		"resume_pattern":   p.ResumePattern,
	}
	if p.Reason != "" {
		m["reason"] = p.Reason
	}
	if p.Context != nil {
		m["context"] = map[string]any(p.Context.Sanitize())
	}
	if p.DisplayPrompt != "" {
		m["display_prompt"] = p.DisplayPrompt
	}
	return m
}

// DecodePendingAction reads the gate stored in state, tolerating any
// malformed shape by returning nil (which reads as GateEmpty). This is the
// degradation contract: a broken gate must never block the conversation.
func DecodePendingAction(state State) *PendingAction {
	m := state.GetMap(KeyPendingAction)
	if m == nil {
		return nil
	}
	return decodeGateMap(m)
}

func decodeGateMap(m map[string]any) *PendingAction {
	p := &PendingAction{
		Type:            stringField(m, "type"),
		Owner:           stringField(m, "owner"),
		PendingQuestion: stringField(m, "pending_question"),
		ResumeRoute:     stringField(m, "resume_route"),
		ResumePattern:   stringField(m, "resume_pattern"),
		Reason:          stringField(m, "reason"),
		DisplayPrompt:   stringField(m, "display_prompt"),
	}
	if b, ok := m["awaiting"].(bool); ok {
		p.Awaiting = b
	}
	if ctx, ok := m["context"].(map[string]any); ok {
		p.Context = Bag(ctx).Sanitize()
	}
	if p.Type == "" {
		return nil
	}
	return p
}

// PendingActionResult is the one-shot record of an answered gate. It must be
// read and removed exactly once by the owning collaborator.
type PendingActionResult struct {
	Owner    string   `json:"owner"`
	Type     string   `json:"type"`
	Decision Decision `json:"decision"`
	Context  Bag      `json:"context,omitempty"`
}

// Encode renders the result as the map stored under pending_action_result.
func (r *PendingActionResult) Encode() map[string]any {
	if r == nil {
		return nil
	}
	m := map[string]any{
		"owner":    r.Owner,
		"type":     r.Type,
		"decision": string(r.Decision),
	}
	if r.Context != nil {
		m["context"] = map[string]any(r.Context.Sanitize())
	}
	return m
}

// DecodePendingActionResult reads the one-shot result from state, or nil if
// absent or malformed.
func DecodePendingActionResult(state State) *PendingActionResult {
	m := state.GetMap(KeyPendingActionResult)
	if m == nil {
		return nil
	}
	r := &PendingActionResult{
		Owner:    stringField(m, "owner"),
		Type:     stringField(m, "type"),
		Decision: Decision(stringField(m, "decision")),
	}
	if ctx, ok := m["context"].(map[string]any); ok {
		r.Context = Bag(ctx).Sanitize()
	}
	if r.Decision == "" {
		return nil
	}
	return r
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}
