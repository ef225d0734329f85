// Package planner synthesizes the per-turn execution plan: which agents run,
// in what order, from which entry point. Candidates come from a fixed
// precedence chain (wizard fast-path, upstream route lock, ordered rule
// list, broadest default) and every candidate passes invariant enforcement
// before it is returned. Violations are hard errors, never auto-corrected:
// a bad plan indicates a bug in a rule or in upstream state construction,
// and papering over it would hide that bug from every later turn.
package planner
