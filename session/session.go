package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/turnmesh/core"
)

// Turn is the immutable record of one processed request/response cycle.
type Turn struct {
	ID            string    `json:"id"`
	RawText       string    `json:"raw_text"`
	CanonicalText string    `json:"canonical_text"`
	Pattern       string    `json:"pattern,omitempty"`
	Handled       bool      `json:"handled"`
	Suppressed    bool      `json:"suppressed,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTurn creates a turn record with a fresh ID and UTC timestamp.
func NewTurn(rawText, canonicalText string) Turn {
	return Turn{
		ID:            uuid.NewString(),
		RawText:       rawText,
		CanonicalText: canonicalText,
		Timestamp:     time.Now().UTC(),
	}
}

// Conversation tracks the mutable turn state and ordered turn history of a
// single conversation. It is safe for concurrent access, though overlapping
// turns of one conversation must still be serialized by the caller (the
// turn-control core itself mutates State without locking).
//
// Contract:
//   - state mutations update the Updated timestamp
//   - GetTurns returns a defensive copy
//   - GetHistory filters out suppressed turns
//   - Clone deep-copies state and history for safe divergence
type Conversation struct {
	ID      string     `json:"id"`
	State   core.State `json:"state"`
	Turns   []Turn     `json:"turns"`
	Created time.Time  `json:"created"`
	Updated time.Time  `json:"updated"`
	mu      sync.RWMutex
}

// NewConversation creates an empty conversation with the given ID.
func NewConversation(id string) *Conversation {
	now := time.Now().UTC()
	return &Conversation{ID: id, State: core.State{}, Turns: []Turn{}, Created: now, Updated: now}
}

// SnapshotState returns a deep copy of the turn state for a caller that
// wants to mutate independently of the container.
func (c *Conversation) SnapshotState() core.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.State.Clone()
}

// ApplyStateDelta merges the key/value pairs into the turn state. A nil
// value deletes the key, matching how the core tombstones by rewrite but
// removes one-shot records outright.
func (c *Conversation) ApplyStateDelta(delta map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.State == nil {
		c.State = core.State{}
	}
	for k, v := range delta {
		if v == nil {
			delete(c.State, k)
			continue
		}
		c.State[k] = v
	}
	c.Updated = time.Now().UTC()
}

// ReplaceState swaps in a full state snapshot, sanitized to JSON-safe
// values.
func (c *Conversation) ReplaceState(state core.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.State = state.Clone()
	c.Updated = time.Now().UTC()
}

// AddTurn appends a turn record.
func (c *Conversation) AddTurn(t Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Turns = append(c.Turns, t)
	c.Updated = time.Now().UTC()
}

// GetTurns returns a copy of the full turn history.
func (c *Conversation) GetTurns() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	turns := make([]Turn, len(c.Turns))
	copy(turns, c.Turns)
	return turns
}

// GetHistory returns the turns suitable for conversational context:
// suppressed turns (a literal "yes" consumed by a gate, for example) are
// excluded, so history shows the canonical question instead of the
// confirmation noise.
func (c *Conversation) GetHistory() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Turn, 0, len(c.Turns))
	for _, t := range c.Turns {
		if t.Suppressed {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Clone returns a deep copy of the conversation safe for independent
// mutation.
func (c *Conversation) Clone() *Conversation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	clone := &Conversation{
		ID:      c.ID,
		State:   c.State.Clone(),
		Turns:   make([]Turn, len(c.Turns)),
		Created: c.Created,
		Updated: c.Updated,
	}
	if clone.State == nil {
		clone.State = core.State{}
	}
	copy(clone.Turns, c.Turns)
	return clone
}

// Store persists conversations and their evolving state and history.
type Store interface {
	Create(id string) (*Conversation, error)
	Get(id string) (*Conversation, error)
	AppendTurn(conversationID string, t Turn) error
	ApplyDelta(conversationID string, delta map[string]any) error
}
