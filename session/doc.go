// Package session provides the conversation container used by the TurnMesh
// façade: per-conversation turn state plus an ordered turn history, and a
// pluggable Store interface with a volatile in-memory implementation.
// Durable stores are the caller's concern; the interface is the contract.
package session
