package planner

import (
	"fmt"
	"strings"

	"github.com/hupe1980/turnmesh/core"
)

// Validate applies invariant enforcement to a candidate plan, regardless of
// which precedence level produced it. Field values are canonicalized in
// place (lower-case, trimmed, de-duplicated, order-preserving) and then
// checked; any violation is a hard *core.PlanError. Nothing is ever
// silently corrected, because auto-correction would hide a rule bug.
//
// Enforced invariants:
//   - pattern is a member of the closed canonical set; the build-time
//     compilation-variant name is rejected with its own category
//   - agents is non-empty after normalization
//   - entry point is a member of the normalized agent list
//   - an effective route lock (the plan's own, else the ambient one in turn
//     state) targeting the data-query destination requires the data-query
//     agent in the list and the data-query-compatible pattern
func Validate(plan *core.ExecutionPlan, state core.State) error {
	if plan == nil {
		return core.NewPlanError(core.ErrNoAgents, "", "nil plan")
	}

	pattern := core.NormalizeName(plan.Pattern)
	if pattern == core.PatternCompiled {
		return core.NewPlanError(core.ErrCompiledPattern, pattern, "")
	}
	if !core.IsCanonicalPattern(pattern) {
		return core.NewPlanError(core.ErrUnknownPattern, pattern,
			fmt.Sprintf("canonical patterns are %s", strings.Join(core.CanonicalPatterns(), ", ")))
	}
	plan.Pattern = pattern

	plan.Agents = core.NormalizeAgents(plan.Agents)
	if len(plan.Agents) == 0 {
		return core.NewPlanError(core.ErrNoAgents, pattern, "")
	}

	entry := core.NormalizeName(plan.EntryPoint)
	if !plan.ContainsAgent(entry) {
		return core.NewPlanError(core.ErrEntryPoint, pattern,
			fmt.Sprintf("entry point %q, agents [%s]", entry, strings.Join(plan.Agents, ", ")))
	}
	plan.EntryPoint = entry

	plan.SkipAgents = core.NormalizeAgents(plan.SkipAgents)
	plan.Route = core.NormalizeName(plan.Route)

	if target, locked := effectiveLock(plan, state); locked && target == core.RouteDataQuery {
		if !plan.ContainsAgent(core.AgentDataQuery) {
			return core.NewPlanError(core.ErrLockMismatch, pattern,
				fmt.Sprintf("lock targets %q but agent missing", target))
		}
		if plan.Pattern != core.PatternDataQuery {
			return core.NewPlanError(core.ErrLockMismatch, pattern,
				fmt.Sprintf("lock targets %q but pattern is %q", target, plan.Pattern))
		}
	}

	return nil
}

// effectiveLock resolves the lock that governs this plan: the plan's own
// when it carries one, otherwise the ambient lock already present in turn
// state.
func effectiveLock(plan *core.ExecutionPlan, state core.State) (string, bool) {
	if plan.RouteLocked && plan.Route != "" {
		return plan.Route, true
	}
	if state.GetBool(core.KeyRouteLocked) {
		if target := core.NormalizeName(state.GetString(core.KeyRoute)); target != "" {
			return target, true
		}
	}
	return "", false
}
