package planner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/turnmesh/core"
	"github.com/hupe1980/turnmesh/gate"
)

// assertWellFormed checks the invariants every accepted plan must satisfy.
func assertWellFormed(t *testing.T, plan *core.ExecutionPlan) {
	t.Helper()
	require.NotNil(t, plan)
	assert.True(t, core.IsCanonicalPattern(plan.Pattern), "pattern %q not canonical", plan.Pattern)
	require.NotEmpty(t, plan.Agents)
	seen := map[string]bool{}
	for _, a := range plan.Agents {
		assert.False(t, seen[a], "duplicate agent %q", a)
		seen[a] = true
	}
	assert.True(t, plan.ContainsAgent(plan.EntryPoint), "entry %q not in agents", plan.EntryPoint)
}

func TestPlan_DefaultIsBroadest(t *testing.T) {
	p := New()
	plan, err := p.Plan(core.State{}, core.Request{Query: "tell me about the school year"})
	require.NoError(t, err)
	assertWellFormed(t, plan)

	assert.Equal(t, core.PatternFull, plan.Pattern)
	assert.Equal(t, core.AgentRefiner, plan.EntryPoint)
	// The broadest plan carries the full chain plus the data-query branch.
	for _, a := range []string{
		core.AgentRefiner, core.AgentHistorian, core.AgentDataQuery,
		core.AgentSynthesizer, core.AgentCritic,
	} {
		assert.True(t, plan.ContainsAgent(a), "missing %q", a)
	}
	assert.Equal(t, "default", plan.Meta["source"])
}

func TestPlan_UpstreamLockToDataQuery(t *testing.T) {
	p := New()
	state := core.State{
		core.KeyRoute:       "data_query",
		core.KeyRouteLocked: true,
		// Other fields must not shake the lock.
		core.KeyGraphPattern: core.PatternFull,
	}
	plan, err := p.Plan(state, core.Request{Query: "whatever came in"})
	require.NoError(t, err)
	assertWellFormed(t, plan)

	assert.True(t, plan.ContainsAgent(core.AgentDataQuery))
	assert.Equal(t, core.PatternDataQuery, plan.Pattern)
	assert.True(t, plan.RouteLocked)
	assert.Equal(t, core.RouteDataQuery, plan.Route)
	assert.Equal(t, "whatever came in", plan.ResumeQuery)
	assert.Equal(t, "route_lock", plan.Meta["source"])
}

func TestPlan_UpstreamLockOtherDestination(t *testing.T) {
	p := New()
	state := core.State{
		core.KeyRoute:        "smalltalk",
		core.KeyRouteLocked:  true,
		core.KeyGraphPattern: core.PatternStandard,
	}
	plan, err := p.Plan(state, core.Request{Query: "hi there"})
	require.NoError(t, err)
	assertWellFormed(t, plan)

	assert.Equal(t, core.PatternStandard, plan.Pattern)
	assert.Equal(t, "smalltalk", plan.Route)
	assert.True(t, plan.RouteLocked)
}

func TestPlan_WizardFastPath(t *testing.T) {
	p := New()

	// Scenario: wizard mid-flight at the collection step, a route lock
	// present. The fast path wins and fixes the entry point, ignoring the
	// lock's pattern.
	state := core.State{
		core.KeyWizard:       map[string]any{core.WizardStepKey: "collect_details"},
		core.KeyRoute:        core.RouteDataQuery,
		core.KeyRouteLocked:  true,
		core.KeyGraphPattern: core.PatternFull,
	}
	plan, err := p.Plan(state, core.Request{Query: "grade 4"})
	require.NoError(t, err)
	assertWellFormed(t, plan)

	assert.Equal(t, core.PatternDataQuery, plan.Pattern)
	assert.Equal(t, core.AgentDataQuery, plan.EntryPoint)
	assert.Equal(t, "grade 4", plan.ResumeQuery)
	assert.Equal(t, "wizard_fast_path", plan.Meta["source"])

	// Other wizard steps do not trigger it.
	state[core.KeyWizard] = map[string]any{core.WizardStepKey: "confirm"}
	plan, err = p.Plan(state, core.Request{Query: "grade 4"})
	require.NoError(t, err)
	assert.NotEqual(t, "wizard_fast_path", plan.Meta["source"])
}

func TestPlan_WizardFastPathYieldsToAwaitingGate(t *testing.T) {
	p := New()
	state := core.State{
		core.KeyWizard: map[string]any{core.WizardStepKey: "collect_details"},
	}
	require.NoError(t, gate.AskConfirmYesNo(state, gate.Ask{
		Owner:    "data_query",
		Question: "run the collected query?",
	}))

	plan, err := p.Plan(state, core.Request{Query: "yes"})
	require.NoError(t, err)
	assert.NotEqual(t, "wizard_fast_path", plan.Meta["source"])
}

func TestPlan_DataQueryRule(t *testing.T) {
	p := New()

	// Scenario: raw text "query consents", no gate, no lock.
	state := core.State{}
	plan, err := p.Plan(state, core.Request{Query: "query consents"})
	require.NoError(t, err)
	assertWellFormed(t, plan)

	assert.True(t, plan.ContainsAgent(core.AgentDataQuery))
	assert.Equal(t, core.PatternDataQuery, plan.Pattern)
	assert.Equal(t, core.RouteDataQuery, plan.Route)
	assert.True(t, plan.RouteLocked)
	assert.Equal(t, "rule:data_query", plan.Meta["source"])

	// Breadcrumbs mirrored into state.
	assert.Equal(t, core.SignalKeyCommandPrefix, state.GetString(core.KeyRouteKey))
	assert.NotEmpty(t, state.GetString(core.KeyRouteReason))
	assert.NotNil(t, state.GetMap(core.KeyRoutingSignals))
}

func TestPlan_IntentHintDoesNotLock(t *testing.T) {
	p := New()
	state := core.State{}
	plan, err := p.Plan(state, core.Request{
		Query:          "pull the attendance report for my class",
		Classification: core.Classification{Intent: "action", Domain: "reports"},
	})
	require.NoError(t, err)
	assertWellFormed(t, plan)

	assert.Equal(t, core.PatternDataQuery, plan.Pattern)
	assert.False(t, plan.RouteLocked)
}

func TestPlan_ExplicitPatternOverride(t *testing.T) {
	p := New()

	plan, err := p.Plan(core.State{}, core.Request{
		Query:           "query consents",
		Pattern:         core.PatternStandard,
		PatternExplicit: true,
	})
	require.NoError(t, err)
	assert.Equal(t, core.PatternStandard, plan.Pattern)
	assert.Equal(t, "rule:explicit_pattern", plan.Meta["source"])

	// The ambient channel is ignored: same pattern without the flag falls
	// through to the later rules.
	plan, err = p.Plan(core.State{}, core.Request{
		Query:   "query consents",
		Pattern: core.PatternStandard,
	})
	require.NoError(t, err)
	assert.Equal(t, core.PatternDataQuery, plan.Pattern)
}

func TestPlan_ExplicitCompiledPatternIsHardError(t *testing.T) {
	p := New()
	_, err := p.Plan(core.State{}, core.Request{
		Query:           "anything",
		Pattern:         core.PatternCompiled,
		PatternExplicit: true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrCompiledPattern)
}

type staticRule struct {
	name string
	plan *core.ExecutionPlan
}

func (r *staticRule) Name() string { return r.name }
func (r *staticRule) Plan(core.State, core.Request) *core.ExecutionPlan {
	return r.plan.Clone()
}

func TestPlan_RuleOrderFirstOpinionWins(t *testing.T) {
	first := chainForPattern(core.PatternStandard)
	second := chainForPattern(core.PatternDataQuery)
	p := New(func(o *Options) {
		o.Rules = []Rule{
			&staticRule{name: "empty", plan: nil},
			&staticRule{name: "first", plan: first},
			&staticRule{name: "second", plan: second},
		}
	})

	plan, err := p.Plan(core.State{}, core.Request{Query: "x"})
	require.NoError(t, err)
	assert.Equal(t, "rule:first", plan.Meta["source"])
	assert.Equal(t, core.PatternStandard, plan.Pattern)
}

func TestPlan_BuggyRuleAborts(t *testing.T) {
	p := New(func(o *Options) {
		o.Rules = []Rule{&staticRule{name: "buggy", plan: &core.ExecutionPlan{
			Pattern:    core.PatternStandard,
			Agents:     []string{core.AgentRefiner},
			EntryPoint: core.AgentCritic,
		}}}
	})
	_, err := p.Plan(core.State{}, core.Request{Query: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEntryPoint)
}

func TestPlan_CarriesSkipAgents(t *testing.T) {
	p := New()
	state := core.State{core.KeySkipAgents: []any{"Critic", "critic"}}
	plan, err := p.Plan(state, core.Request{Query: "hello"})
	require.NoError(t, err)
	assert.Equal(t, []string{"critic"}, plan.SkipAgents)
}

func TestPlan_DeterministicForSameInput(t *testing.T) {
	p := New()
	req := core.Request{Query: "query consents"}

	a, err := p.Plan(core.State{}, req)
	require.NoError(t, err)
	b, err := p.Plan(core.State{}, req)
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("plans differ between identical turns (-first +second):\n%s", diff)
	}
}
