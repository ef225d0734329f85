// Package turnmesh provides a high-level façade over the turn-control core:
// the confirmation-gate controller, the routing heuristic and the execution
// planner that together decide, for every conversational turn, what the user
// actually asked and which downstream agents run. Most applications interact
// with this package by:
//  1. Creating a TurnMesh via New() (optionally overriding config, store,
//     rules or logger)
//  2. Calling ProcessTurn for each incoming utterance of a conversation
//  3. Handing the returned ExecutionPlan to their agent-graph runner and the
//     canonical user text to the rest of the pipeline
//
// The façade owns conversation persistence through a session.Store (an
// in-memory store by default); the underlying gate, routing and planner
// packages remain directly usable with caller-owned state for hosts that
// manage persistence themselves. All defaults are safe for local development
// and testing.
package turnmesh

import (
	"fmt"
	"reflect"

	"github.com/hupe1980/turnmesh/config"
	"github.com/hupe1980/turnmesh/core"
	"github.com/hupe1980/turnmesh/gate"
	"github.com/hupe1980/turnmesh/logging"
	"github.com/hupe1980/turnmesh/planner"
	"github.com/hupe1980/turnmesh/session"
)

// Options configures the TurnMesh instance.
type Options struct {
	// Config supplies vocabularies and routing tables (defaults when nil).
	Config *config.Config
	// Store persists conversations (in-memory when nil).
	Store session.Store
	// Rules replaces the planner's default ordered rule list.
	Rules []planner.Rule
	// Logger receives structured records (NoOp when nil).
	Logger logging.Logger
}

// TurnMesh is the high-level façade aggregating the turn controller, the
// planner and the conversation store.
type TurnMesh struct {
	controller *gate.Controller
	planner    *planner.Planner
	store      session.Store
	log        *logging.PipelineLogger
}

// New creates a TurnMesh with optional overrides. Any unset service is
// initialized with its default implementation.
func New(optFns ...func(o *Options)) *TurnMesh {
	opts := Options{
		Config: config.Default(),
		Store:  session.NewInMemoryStore(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &TurnMesh{
		controller: gate.NewController(func(o *gate.Options) {
			o.Config = opts.Config
			o.Logger = opts.Logger
		}),
		planner: planner.New(func(o *planner.Options) {
			o.Config = opts.Config
			o.Logger = opts.Logger
			o.Rules = opts.Rules
		}),
		store: opts.Store,
		log:   logging.NewPipelineLogger(opts.Logger).WithComponent("mesh"),
	}
}

// TurnResult aggregates everything one processed turn produced.
type TurnResult struct {
	// Turn is the appended history record.
	Turn session.Turn
	// Preprocess is the gate controller's verdict for the raw utterance.
	Preprocess gate.Result
	// Plan is the validated execution plan for this turn.
	Plan *core.ExecutionPlan
	// State is the turn state after the turn, as persisted.
	State core.State
}

// ProcessTurn runs one full turn for a stored conversation: gate
// preprocessing, planning and persistence of the resulting state delta and
// turn record. The caller must serialize overlapping calls for the same
// conversation; distinct conversations may run concurrently.
func (m *TurnMesh) ProcessTurn(conversationID, rawText string, req core.Request) (*TurnResult, error) {
	conv, err := m.store.Get(conversationID)
	if err != nil {
		return nil, fmt.Errorf("load conversation %q: %w", conversationID, err)
	}

	state := conv.SnapshotState()
	before := state.Clone()

	pre := m.controller.Preprocess(state, rawText)
	req.Query = pre.CanonicalUserText

	plan, err := m.planner.Plan(state, req)
	if err != nil {
		return nil, fmt.Errorf("plan turn for conversation %q: %w", conversationID, err)
	}

	turn := session.NewTurn(rawText, pre.CanonicalUserText)
	turn.Handled = pre.Handled
	turn.Pattern = plan.Pattern
	turn.Suppressed = state.GetBool(core.KeySuppressHistory)
	// The suppress flag is turn-scoped; once captured on the record it must
	// not leak into the next turn.
	state.Delete(core.KeySuppressHistory)

	if err := m.store.ApplyDelta(conversationID, stateDelta(before, state)); err != nil {
		return nil, fmt.Errorf("persist state for conversation %q: %w", conversationID, err)
	}
	if err := m.store.AppendTurn(conversationID, turn); err != nil {
		return nil, fmt.Errorf("append turn for conversation %q: %w", conversationID, err)
	}

	m.log.WithConversation(conversationID, turn.ID).
		Info("mesh.turn.processed", "handled", pre.Handled, "pattern", plan.Pattern)

	return &TurnResult{Turn: turn, Preprocess: pre, Plan: plan, State: state}, nil
}

// AskConfirmYesNo installs a confirmation gate on a stored conversation.
func (m *TurnMesh) AskConfirmYesNo(conversationID string, ask gate.Ask) error {
	conv, err := m.store.Get(conversationID)
	if err != nil {
		return fmt.Errorf("load conversation %q: %w", conversationID, err)
	}
	state := conv.SnapshotState()
	before := state.Clone()
	if err := m.controller.AskConfirmYesNo(state, ask); err != nil {
		return err
	}
	return m.store.ApplyDelta(conversationID, stateDelta(before, state))
}

// Consume performs the one-shot read of a gate decision for a stored
// conversation.
func (m *TurnMesh) Consume(conversationID, owner string) (*core.PendingActionResult, bool, error) {
	conv, err := m.store.Get(conversationID)
	if err != nil {
		return nil, false, fmt.Errorf("load conversation %q: %w", conversationID, err)
	}
	state := conv.SnapshotState()
	before := state.Clone()
	result, ok := m.controller.Consume(state, owner)
	if !ok {
		return nil, false, nil
	}
	if err := m.store.ApplyDelta(conversationID, stateDelta(before, state)); err != nil {
		return nil, false, err
	}
	return result, true, nil
}

// Controller exposes the underlying gate controller for hosts that manage
// turn state themselves.
func (m *TurnMesh) Controller() *gate.Controller { return m.controller }

// Planner exposes the underlying planner.
func (m *TurnMesh) Planner() *planner.Planner { return m.planner }

// Store exposes the conversation store.
func (m *TurnMesh) Store() session.Store { return m.store }

// stateDelta computes the mutation set between two state snapshots: changed
// or added keys map to their new value, removed keys map to nil (which the
// store's ApplyStateDelta treats as delete).
func stateDelta(before, after core.State) map[string]any {
	delta := map[string]any{}
	for k, v := range after {
		if old, ok := before[k]; !ok || !reflect.DeepEqual(old, v) {
			delta[k] = v
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			delta[k] = nil
		}
	}
	return delta
}
