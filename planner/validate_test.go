package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/turnmesh/core"
)

func validPlan() *core.ExecutionPlan {
	return &core.ExecutionPlan{
		Pattern:    core.PatternStandard,
		Agents:     []string{core.AgentRefiner, core.AgentSynthesizer},
		EntryPoint: core.AgentRefiner,
	}
}

func TestValidate_NormalizesInPlace(t *testing.T) {
	plan := &core.ExecutionPlan{
		Pattern:    " Standard ",
		Agents:     []string{" Refiner", "refiner", "SYNTHESIZER", ""},
		EntryPoint: " REFINER ",
		SkipAgents: []string{"Critic", "critic"},
	}
	require.NoError(t, Validate(plan, core.State{}))

	assert.Equal(t, core.PatternStandard, plan.Pattern)
	assert.Equal(t, []string{"refiner", "synthesizer"}, plan.Agents)
	assert.Equal(t, "refiner", plan.EntryPoint)
	assert.Equal(t, []string{"critic"}, plan.SkipAgents)
}

func TestValidate_HardErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *core.ExecutionPlan)
		want   error
	}{
		{"nil plan", nil, core.ErrNoAgents},
		{"unknown pattern", func(p *core.ExecutionPlan) { p.Pattern = "fancy" }, core.ErrUnknownPattern},
		{"compiled pattern", func(p *core.ExecutionPlan) { p.Pattern = core.PatternCompiled }, core.ErrCompiledPattern},
		{"compiled pattern uppercase", func(p *core.ExecutionPlan) { p.Pattern = "Compiled" }, core.ErrCompiledPattern},
		{"empty agents", func(p *core.ExecutionPlan) { p.Agents = nil }, core.ErrNoAgents},
		{"whitespace agents", func(p *core.ExecutionPlan) { p.Agents = []string{" ", ""} }, core.ErrNoAgents},
		{"entry point missing", func(p *core.ExecutionPlan) { p.EntryPoint = "critic" }, core.ErrEntryPoint},
		{"own lock without agent", func(p *core.ExecutionPlan) {
			p.Route = core.RouteDataQuery
			p.RouteLocked = true
		}, core.ErrLockMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var plan *core.ExecutionPlan
			if tc.mutate != nil {
				plan = validPlan()
				tc.mutate(plan)
			}
			err := Validate(plan, core.State{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)

			var planErr *core.PlanError
			assert.ErrorAs(t, err, &planErr)
		})
	}
}

func TestValidate_AmbientLockRequiresDataQueryShape(t *testing.T) {
	ambient := core.State{
		core.KeyRoute:       core.RouteDataQuery,
		core.KeyRouteLocked: true,
	}

	// Standard chain without the data-query agent fails under the lock.
	err := Validate(validPlan(), ambient)
	assert.ErrorIs(t, err, core.ErrLockMismatch)

	// Containing the agent is not enough: the pattern must be compatible too.
	plan := &core.ExecutionPlan{
		Pattern:    core.PatternFull,
		Agents:     []string{core.AgentRefiner, core.AgentDataQuery},
		EntryPoint: core.AgentRefiner,
	}
	err = Validate(plan, ambient)
	assert.ErrorIs(t, err, core.ErrLockMismatch)

	// The compatible shape passes.
	plan = chainForPattern(core.PatternDataQuery)
	assert.NoError(t, Validate(plan, ambient))
}

func TestValidate_PlanLockOverridesAmbient(t *testing.T) {
	// The plan's own lock targets another destination; the ambient data-query
	// lock is then not the effective one.
	ambient := core.State{
		core.KeyRoute:       core.RouteDataQuery,
		core.KeyRouteLocked: true,
	}
	plan := validPlan()
	plan.Route = "smalltalk"
	plan.RouteLocked = true
	assert.NoError(t, Validate(plan, ambient))
}
