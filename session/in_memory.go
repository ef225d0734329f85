package session

import "sync"

// InMemoryStore is a volatile Store implementation keeping conversations in
// a process-local map. It is safe for concurrent access and best suited for
// tests or ephemeral demo servers. Each returned conversation is cloned to
// prevent external mutation of internal state.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
}

// NewInMemoryStore constructs an empty in-memory conversation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{conversations: make(map[string]*Conversation)}
}

// Get returns an existing conversation (clone) or creates one lazily.
func (s *InMemoryStore) Get(conversationID string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.conversations[conversationID]; ok {
		return conv.Clone(), nil
	}
	return s.createLocked(conversationID).Clone(), nil
}

// Create forces the creation (or overwriting) of a conversation.
func (s *InMemoryStore) Create(conversationID string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(conversationID).Clone(), nil
}

// AppendTurn adds a turn record to an existing or newly created conversation.
func (s *InMemoryStore) AppendTurn(conversationID string, t Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[conversationID]
	if !ok {
		conv = s.createLocked(conversationID)
	}
	conv.AddTurn(t)
	return nil
}

// ApplyDelta merges a key/value delta into the conversation's turn state.
func (s *InMemoryStore) ApplyDelta(conversationID string, delta map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[conversationID]
	if !ok {
		conv = s.createLocked(conversationID)
	}
	conv.ApplyStateDelta(delta)
	return nil
}

// createLocked allocates and stores a new conversation; caller must hold
// the write lock.
func (s *InMemoryStore) createLocked(conversationID string) *Conversation {
	conv := NewConversation(conversationID)
	s.conversations[conversationID] = conv
	return conv
}
