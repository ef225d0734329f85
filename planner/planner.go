package planner

import (
	"time"

	"github.com/hupe1980/turnmesh/config"
	"github.com/hupe1980/turnmesh/core"
	"github.com/hupe1980/turnmesh/gate"
	"github.com/hupe1980/turnmesh/logging"
	"github.com/hupe1980/turnmesh/routing"
)

// wizardFastPathStep is the one wizard step that short-circuits planning
// into the fixed data-query entry.
const wizardFastPathStep = "collect_details"

// Options configures a Planner.
type Options struct {
	// Config supplies the routing tables for the default rule set.
	Config *config.Config
	// Logger receives plan records (NoOp when nil).
	Logger logging.Logger
	// Rules replaces the default ordered rule list when non-nil.
	Rules []Rule
}

// Planner evaluates the planning precedence chain and enforces the plan
// invariants. It is stateless between calls and safe for concurrent use
// across conversations.
type Planner struct {
	rules []Rule
	log   *logging.PipelineLogger
}

// New creates a planner. The default rule list is ExplicitPatternRule
// followed by DataQueryRule over the configured routing tables.
func New(optFns ...func(o *Options)) *Planner {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Rules == nil {
		opts.Rules = []Rule{
			NewExplicitPatternRule(),
			NewDataQueryRule(routing.NewSignalComputer(opts.Config)),
		}
	}
	return &Planner{
		rules: opts.Rules,
		log:   logging.NewPipelineLogger(opts.Logger).WithComponent("planner"),
	}
}

// Plan synthesizes and validates the execution plan for one turn, mutating
// state only through rule breadcrumbs. It never returns a partial plan:
// either the plan passed invariant enforcement or the turn fails with a
// *core.PlanError.
func (p *Planner) Plan(state core.State, req core.Request) (*core.ExecutionPlan, error) {
	start := time.Now()

	plan := p.synthesize(state, req)
	if err := Validate(plan, state); err != nil {
		p.log.Error("planner.invalid", "error", err)
		return nil, err
	}

	p.log.LogPlan(plan.Pattern, plan.EntryPoint, plan.Agents, time.Since(start))
	return plan, nil
}

// synthesize walks the precedence chain: wizard fast-path, upstream route
// lock, ordered rules, broadest default.
func (p *Planner) synthesize(state core.State, req core.Request) *core.ExecutionPlan {
	if plan := p.wizardFastPath(state, req); plan != nil {
		return p.finish(state, plan, "wizard_fast_path")
	}
	if plan := p.lockedPlan(state, req); plan != nil {
		return p.finish(state, plan, "route_lock")
	}
	for _, rule := range p.rules {
		if plan := rule.Plan(state, req); plan != nil {
			return p.finish(state, plan, "rule:"+rule.Name())
		}
	}
	return p.finish(state, p.defaultPlan(), "default")
}

// wizardFastPath forces the fixed data-query entry while a guided dialogue
// is mid-flight at its collection step and no gate is actively awaiting. An
// existing route lock does not disable it: a lock constrains the graph, not
// which agent starts.
func (p *Planner) wizardFastPath(state core.State, req core.Request) *core.ExecutionPlan {
	wizard := state.GetMap(core.KeyWizard)
	if wizard == nil {
		return nil
	}
	step, _ := wizard[core.WizardStepKey].(string)
	if core.NormalizeName(step) != wizardFastPathStep {
		return nil
	}
	if gate.Awaiting(state) {
		return nil
	}

	plan := chainForPattern(core.PatternDataQuery)
	plan.EntryPoint = core.AgentDataQuery
	plan.Route = core.RouteDataQuery
	plan.RouteLocked = true
	plan.ResumeQuery = req.Query
	return plan
}

// lockedPlan synthesizes a plan consistent with an upstream route lock. The
// data-query destination is the one special case that expands the agent
// list and switches the pattern; any other locked target rides the standard
// chain with the lock carried through.
func (p *Planner) lockedPlan(state core.State, req core.Request) *core.ExecutionPlan {
	if !state.GetBool(core.KeyRouteLocked) {
		return nil
	}
	target := core.NormalizeName(state.GetString(core.KeyRoute))
	if target == "" {
		return nil
	}

	var plan *core.ExecutionPlan
	if target == core.RouteDataQuery {
		plan = chainForPattern(core.PatternDataQuery)
		plan.ResumeQuery = req.Query
	} else {
		plan = chainForPattern(core.PatternStandard)
		if pattern := core.NormalizeName(state.GetString(core.KeyGraphPattern)); core.IsCanonicalPattern(pattern) {
			plan = chainForPattern(pattern)
		}
	}
	plan.Route = target
	plan.RouteLocked = true
	return plan
}

// defaultPlan is the broadest-capability plan, so an unmatched turn degrades
// to maximum capability rather than a guessed narrow one.
func (p *Planner) defaultPlan() *core.ExecutionPlan {
	return chainForPattern(core.PatternFull)
}

// finish stamps provenance and per-turn skip hints on a candidate.
func (p *Planner) finish(state core.State, plan *core.ExecutionPlan, source string) *core.ExecutionPlan {
	if plan.Meta == nil {
		plan.Meta = core.Bag{}
	}
	plan.Meta["source"] = source
	if plan.SkipAgents == nil {
		plan.SkipAgents = state.GetStringSlice(core.KeySkipAgents)
	}
	return plan
}
