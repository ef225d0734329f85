// Package core provides the foundational domain types used by TurnMesh. It
// defines the core abstractions for:
//
//   - State (the caller-owned, mutable, JSON-safe turn state of a conversation)
//   - PendingAction / PendingActionResult (the confirmation-gate protocol)
//   - ExecutionPlan (the validated per-turn agent execution decision)
//   - RoutingSignals (the pure routing heuristic output)
//   - Request / Classification (per-turn inputs supplied by the caller)
//
// The package intentionally keeps implementation concerns (gate handling,
// planning, persistence) out of scope, exposing small value types and
// interfaces so higher packages and external collaborators compose cleanly.
// All exported identifiers include concise documentation to aid
// discoverability and external consumption.
package core
