package planner

import (
	"github.com/hupe1980/turnmesh/core"
	"github.com/hupe1980/turnmesh/routing"
)

// Rule is a single planning strategy evaluated in order: it returns a plan
// or nil for "no opinion", and the first non-nil plan wins. Rules may write
// small diagnostic breadcrumbs into turn state but must not perform I/O or
// call agents.
type Rule interface {
	// Name identifies the rule in plan metadata and logs.
	Name() string
	// Plan returns a candidate plan or nil.
	Plan(state core.State, req core.Request) *core.ExecutionPlan
}

// ExplicitPatternRule honors a caller-requested pattern override. Only the
// explicitly flagged channel counts: an ambient caller-default pattern with
// PatternExplicit unset is ignored. The requested pattern is passed through
// verbatim; if it is not canonical, invariant enforcement rejects the turn
// rather than guessing.
type ExplicitPatternRule struct{}

// NewExplicitPatternRule creates the override rule.
func NewExplicitPatternRule() *ExplicitPatternRule { return &ExplicitPatternRule{} }

// Name returns the rule's identifier.
func (r *ExplicitPatternRule) Name() string { return "explicit_pattern" }

// Plan builds a plan for the requested pattern when the override flag is set.
func (r *ExplicitPatternRule) Plan(state core.State, req core.Request) *core.ExecutionPlan {
	if !req.PatternExplicit || req.Pattern == "" {
		return nil
	}
	plan := chainForPattern(core.NormalizeName(req.Pattern))
	plan.Pattern = req.Pattern
	return plan
}

// DataQueryRule routes database-style turns to the data-query branch based
// on the pure routing signals. It mirrors the computed signals into turn
// state as diagnostics whether or not it has an opinion.
type DataQueryRule struct {
	signals *routing.SignalComputer
}

// NewDataQueryRule creates the rule over the given signal computer.
func NewDataQueryRule(signals *routing.SignalComputer) *DataQueryRule {
	if signals == nil {
		signals = routing.NewSignalComputer(nil)
	}
	return &DataQueryRule{signals: signals}
}

// Name returns the rule's identifier.
func (r *DataQueryRule) Name() string { return "data_query" }

// Plan computes routing signals and, on a match, targets the data-query
// pattern; a lockable signal pins the route for the rest of the turn.
func (r *DataQueryRule) Plan(state core.State, req core.Request) *core.ExecutionPlan {
	signals := r.signals.Compute(state, req)
	state.Set(core.KeyRoutingSignals, map[string]any(signals.ToBag()))
	if !signals.HasOpinion() {
		return nil
	}

	state.Set(core.KeyRouteKey, signals.Key)
	state.Set(core.KeyRouteReason, signals.Reason)

	plan := chainForPattern(core.PatternDataQuery)
	plan.Route = signals.Target
	plan.RouteLocked = signals.Locked
	plan.Meta = core.Bag{"signal_key": signals.Key}
	return plan
}

// chainForPattern returns the canonical agent chain for a known pattern.
// Unknown names fall back to the broadest chain so the bogus pattern itself
// (kept on the plan by callers) reaches invariant enforcement intact.
func chainForPattern(pattern string) *core.ExecutionPlan {
	switch pattern {
	case core.PatternStandard:
		return &core.ExecutionPlan{
			Pattern: core.PatternStandard,
			Agents: []string{
				core.AgentRefiner, core.AgentHistorian,
				core.AgentSynthesizer, core.AgentCritic,
			},
			EntryPoint: core.AgentRefiner,
		}
	case core.PatternDataQuery:
		return &core.ExecutionPlan{
			Pattern: core.PatternDataQuery,
			Agents: []string{
				core.AgentRefiner, core.AgentDataQuery,
				core.AgentSynthesizer, core.AgentCritic,
			},
			EntryPoint: core.AgentRefiner,
		}
	default:
		return &core.ExecutionPlan{
			Pattern: core.PatternFull,
			Agents: []string{
				core.AgentRefiner, core.AgentHistorian, core.AgentDataQuery,
				core.AgentSynthesizer, core.AgentCritic,
			},
			EntryPoint: core.AgentRefiner,
		}
	}
}
