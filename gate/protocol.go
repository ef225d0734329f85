package gate

import (
	"fmt"
	"strings"

	"github.com/hupe1980/turnmesh/core"
)

// Ask describes a confirmation gate an owning collaborator wants installed.
type Ask struct {
	// Owner identifies the collaborator that will consume the decision.
	Owner string
	// Question is re-injected as the canonical user text on confirmation.
	Question string
	// ResumeRoute / ResumePattern are locked when the gate resolves to yes
	// (and while re-prompting).
	ResumeRoute   string
	ResumePattern string
	// Reason documents why the confirmation was raised.
	Reason string
	// Context travels opaquely from ask to result.
	Context core.Bag
	// DisplayPrompt overrides the default re-prompt shown on unclear replies.
	DisplayPrompt string
}

// AskConfirmYesNo installs a new confirmation gate on the turn state. Any
// prior gate is snapshotted to pending_action_last first, and a stale result
// for the same owner is discarded: a new question supersedes an
// unanswered-but-decided old one.
func AskConfirmYesNo(state core.State, ask Ask) error {
	if state == nil {
		return fmt.Errorf("ask confirm: nil turn state")
	}
	if strings.TrimSpace(ask.Owner) == "" {
		return fmt.Errorf("ask confirm: owner required")
	}
	if strings.TrimSpace(ask.Question) == "" {
		return fmt.Errorf("ask confirm: question required")
	}

	if prior := state.GetMap(core.KeyPendingAction); prior != nil {
		state.Set(core.KeyPendingActionLast, prior)
	}
	if stale := core.DecodePendingActionResult(state); stale != nil && stale.Owner == ask.Owner {
		state.Delete(core.KeyPendingActionResult)
	}

	pending := &core.PendingAction{
		Type:            core.PendingTypeConfirmYesNo,
		Owner:           ask.Owner,
		Awaiting:        true,
		PendingQuestion: ask.Question,
		ResumeRoute:     ask.ResumeRoute,
		ResumePattern:   ask.ResumePattern,
		Reason:          ask.Reason,
		Context:         ask.Context.Sanitize(),
		DisplayPrompt:   ask.DisplayPrompt,
	}
	state.Set(core.KeyPendingAction, pending.Encode())
	return nil
}

// Consume performs the one-shot, owner-filtered read-and-delete of a gate
// decision. The result is returned only if one exists and belongs to owner;
// a second call returns nothing. Consuming also clears the legacy
// compatibility flags so old-style confirmations cannot re-fire.
func Consume(state core.State, owner string) (*core.PendingActionResult, bool) {
	result := core.DecodePendingActionResult(state)
	if result == nil || result.Owner != owner {
		return nil, false
	}

	state.Delete(core.KeyPendingActionResult)
	state.Delete(core.KeyLegacyAwaitingConfirmation)
	state.Delete(core.KeyLegacyConfirmationDecision)
	return result, true
}

// Awaiting reports whether the state carries an actively-awaiting gate. A
// malformed or tombstoned pending_action reads as not awaiting.
func Awaiting(state core.State) bool {
	return core.DecodePendingAction(state).Status() == core.GateAwaiting
}
