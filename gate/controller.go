package gate

import (
	"github.com/hupe1980/turnmesh/config"
	"github.com/hupe1980/turnmesh/core"
	"github.com/hupe1980/turnmesh/logging"
)

// staleOutputKeys are prior-turn agent output fields cleared whenever a gate
// resolves, so a resumed flow never sees leftovers from the turn that raised
// the question.
var staleOutputKeys = []string{
	"answer",
	"draft_answer",
	"critique",
	"query_results",
	"last_error",
}

// Result is the outcome of Preprocess. When Handled is false the turn was a
// plain utterance and CanonicalUserText is the raw input verbatim. When
// Handled is true, CanonicalUserText is what the rest of the pipeline should
// treat as "what the user asked this turn": the gate's pending question on a
// confirmation, empty on a decline, cancel or re-prompt.
type Result struct {
	Handled           bool   `json:"handled"`
	CanonicalUserText string `json:"canonical_user_text"`
	PromptText        string `json:"prompt_text,omitempty"`
}

// Options configures a Controller.
type Options struct {
	// Config supplies the classification vocabularies and wizard step table
	// (defaults when nil).
	Config *config.Config
	// Logger receives gate decision records (NoOp when nil).
	Logger logging.Logger
}

// Controller interprets confirmation gates at the start of each turn. It is
// stateless between calls; all per-conversation state lives in the
// caller-owned core.State, so one Controller serves any number of
// conversations concurrently.
type Controller struct {
	cfg *config.Config
	log *logging.PipelineLogger
}

// NewController creates a turn controller with optional overrides.
func NewController(optFns ...func(o *Options)) *Controller {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	return &Controller{
		cfg: opts.Config.Normalize(),
		log: logging.NewPipelineLogger(opts.Logger).WithComponent("gate"),
	}
}

// Preprocess decides whether rawText answers an actively-awaiting gate,
// mutating state as a side effect. With no awaiting gate (including every
// malformed-state shape) it passes the text through unchanged. With one, it
// classifies the reply and either consumes the gate (yes/no/cancel) or
// leaves it awaiting and re-prompts (unclear). Classification is total, the
// call never fails.
func (c *Controller) Preprocess(state core.State, rawText string) Result {
	pending := core.DecodePendingAction(state)
	if pending.Status() != core.GateAwaiting {
		return Result{Handled: false, CanonicalUserText: rawText}
	}

	answer := Classify(c.cfg, rawText)
	c.log.LogGateDecision(pending.Owner, answer.String(), true)

	switch answer {
	case AnswerYes:
		c.resolve(state, pending, core.DecisionYes)
		c.healWizard(state)
		lockResumeTarget(state, pending)
		state.Set(core.KeySuppressHistory, true)
		return Result{Handled: true, CanonicalUserText: pending.PendingQuestion}

	case AnswerNo, AnswerCancel:
		decision := core.DecisionNo
		if answer == AnswerCancel {
			decision = core.DecisionCancel
		}
		c.resolve(state, pending, decision)
		state.Set(core.KeyBail, true)
		state.Set(core.KeyBailReason, "confirmation "+string(decision))
		// Route deliberately not locked: the owner decides where a declined
		// flow goes next.
		return Result{Handled: true, CanonicalUserText: ""}

	default:
		// Gate stays awaiting. Lock the route to the resume target anyway so
		// the plan cannot drift while we re-prompt.
		lockResumeTarget(state, pending)
		prompt := pending.DisplayPrompt
		if prompt == "" {
			prompt = c.cfg.DefaultReprompt
		}
		return Result{Handled: true, CanonicalUserText: "", PromptText: prompt}
	}
}

// resolve performs the shared yes/no/cancel cleanup: stale prior-turn output
// fields are cleared, the one-shot result is written for the owner, and the
// gate is tombstoned in place.
func (c *Controller) resolve(state core.State, pending *core.PendingAction, decision core.Decision) {
	for _, key := range staleOutputKeys {
		state.Delete(key)
	}

	result := &core.PendingActionResult{
		Owner:    pending.Owner,
		Type:     pending.Type,
		Decision: decision,
		Context:  pending.Context.Clone(),
	}
	state.Set(core.KeyPendingActionResult, result.Encode())

	pending.Tombstone()
	state.Set(core.KeyPendingAction, pending.Encode())
}

// healWizard resets a co-located wizard sub-state whose step is not in the
// known step set. The wizard itself is external; only the shared step field
// is touched.
func (c *Controller) healWizard(state core.State) {
	wizard := state.GetMap(core.KeyWizard)
	if wizard == nil {
		return
	}
	step, _ := wizard[core.WizardStepKey].(string)
	if !c.cfg.KnownWizardStep(step) {
		wizard[core.WizardStepKey] = c.cfg.DefaultWizardStep()
	}
}

// lockResumeTarget pins route and pattern to the gate's resume target for
// the rest of the turn.
func lockResumeTarget(state core.State, pending *core.PendingAction) {
	if pending.ResumeRoute == "" {
		return
	}
	state.Set(core.KeyRoute, core.NormalizeName(pending.ResumeRoute))
	state.Set(core.KeyRouteLocked, true)
	if pending.ResumePattern != "" {
		state.Set(core.KeyGraphPattern, core.NormalizeName(pending.ResumePattern))
	}
}

// Consume delegates to the package-level Consume, logging the read.
func (c *Controller) Consume(state core.State, owner string) (*core.PendingActionResult, bool) {
	result, ok := Consume(state, owner)
	if ok {
		c.log.Debug("gate.result.consumed", "owner", owner, "decision", string(result.Decision))
	}
	return result, ok
}

// AskConfirmYesNo delegates to the package-level AskConfirmYesNo, logging
// the newly installed gate.
func (c *Controller) AskConfirmYesNo(state core.State, ask Ask) error {
	if err := AskConfirmYesNo(state, ask); err != nil {
		return err
	}
	c.log.Debug("gate.installed", "owner", ask.Owner, "resume_route", ask.ResumeRoute)
	return nil
}
