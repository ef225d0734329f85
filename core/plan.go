package core

import "strings"

// Canonical execution-graph patterns. The set is closed: every runtime plan
// must carry one of these names.
const (
	// PatternStandard is the plain chain: refine, retrieve history,
	// synthesize, critique.
	PatternStandard = "standard"
	// PatternDataQuery is the data-query-compatible pattern: the chain with
	// the data-query branch as the working path.
	PatternDataQuery = "data_query"
	// PatternFull is the broadest graph: the full standard chain plus the
	// data-query branch. It is the fallback when no rule matched, so an
	// unmatched turn degrades to maximum capability rather than a guess.
	PatternFull = "full"
)

// PatternCompiled names the build-time compilation variant of the graph. It
// exists only inside graph tooling and must never appear as a runtime
// pattern; the planner hard-errors if it does.
const PatternCompiled = "compiled"

// Canonical agent names, lower-case as they appear in plans.
const (
	AgentRefiner     = "refiner"
	AgentHistorian   = "historian"
	AgentSynthesizer = "synthesizer"
	AgentCritic      = "critic"
	AgentDataQuery   = "data_query"
)

// RouteDataQuery is the one route destination the upstream-lock handling
// special-cases. If more destinations ever grow such handling the special
// case must be extended explicitly, not generalized silently.
const RouteDataQuery = "data_query"

var canonicalPatterns = map[string]struct{}{
	PatternStandard:  {},
	PatternDataQuery: {},
	PatternFull:      {},
}

// IsCanonicalPattern reports whether name (already normalized) is a member
// of the closed runtime pattern set. PatternCompiled is not a member.
func IsCanonicalPattern(name string) bool {
	_, ok := canonicalPatterns[name]
	return ok
}

// CanonicalPatterns returns the closed runtime pattern set in stable order.
func CanonicalPatterns() []string {
	return []string{PatternStandard, PatternDataQuery, PatternFull}
}

// ExecutionPlan is the validated decision of which agents run this turn, in
// what order, from which entry point. It is synthesized fresh every turn and
// has no lifetime beyond it; after validation it should be treated as
// immutable.
type ExecutionPlan struct {
	Pattern     string   `json:"pattern"`
	Agents      []string `json:"agents"`
	EntryPoint  string   `json:"entry_point"`
	SkipAgents  []string `json:"skip_agents,omitempty"`
	ResumeQuery string   `json:"resume_query,omitempty"`
	Route       string   `json:"route,omitempty"`
	RouteLocked bool     `json:"route_locked,omitempty"`
	Meta        Bag      `json:"meta,omitempty"`
}

// Clone returns an independently mutable copy of the plan.
func (p *ExecutionPlan) Clone() *ExecutionPlan {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Agents = append([]string(nil), p.Agents...)
	cp.SkipAgents = append([]string(nil), p.SkipAgents...)
	cp.Meta = p.Meta.Clone()
	return &cp
}

// ContainsAgent reports whether the normalized agent name is in the plan.
func (p *ExecutionPlan) ContainsAgent(name string) bool {
	if p == nil {
		return false
	}
	name = NormalizeName(name)
	for _, a := range p.Agents {
		if a == name {
			return true
		}
	}
	return false
}

// NormalizeName lower-cases and trims an agent, route or pattern name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeAgents lower-cases, trims and de-duplicates an agent list,
// preserving first-occurrence order and dropping empties.
func NormalizeAgents(agents []string) []string {
	out := make([]string, 0, len(agents))
	seen := make(map[string]struct{}, len(agents))
	for _, a := range agents {
		n := NormalizeName(a)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
