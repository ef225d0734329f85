package session

import (
	"testing"

	"github.com/hupe1980/turnmesh/core"
)

func TestConversation_ApplyStateDeltaAndClone(t *testing.T) {
	c := NewConversation("c1")

	c.ApplyStateDelta(map[string]any{"a": 1, "b": "x"})
	if v, ok := c.State["a"]; !ok || v.(int) != 1 {
		t.Fatalf("state not applied: %+v", c.State)
	}

	clone := c.Clone()
	if clone == c {
		t.Error("Clone should be a different pointer")
	}
	clone.ApplyStateDelta(map[string]any{"c": 2})
	if _, exists := c.State["c"]; exists {
		t.Error("original should not see clone's new key")
	}
}

func TestConversation_NilDeltaValueDeletes(t *testing.T) {
	c := NewConversation("c2")
	c.ApplyStateDelta(map[string]any{core.KeyPendingActionResult: map[string]any{"decision": "yes"}})
	c.ApplyStateDelta(map[string]any{core.KeyPendingActionResult: nil})
	if _, exists := c.State[core.KeyPendingActionResult]; exists {
		t.Error("nil delta value should delete the key")
	}
}

func TestConversation_HistoryFiltersSuppressed(t *testing.T) {
	c := NewConversation("c3")

	ask := NewTurn("show me attendance for today", "show me attendance for today")
	confirm := NewTurn("yes", "show me attendance for today")
	confirm.Suppressed = true
	c.AddTurn(ask)
	c.AddTurn(confirm)

	if got := len(c.GetTurns()); got != 2 {
		t.Fatalf("expected 2 turns, got %d", got)
	}
	history := c.GetHistory()
	if len(history) != 1 || history[0].ID != ask.ID {
		t.Fatalf("history should hide the suppressed confirmation: %+v", history)
	}

	all := c.GetTurns()
	all[0].RawText = "changed"
	if c.GetTurns()[0].RawText != ask.RawText {
		t.Error("turns slice should be copied on read")
	}
}

func TestInMemoryStore_RoundTrip(t *testing.T) {
	s := NewInMemoryStore()

	if err := s.ApplyDelta("conv", map[string]any{"k": "v"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendTurn("conv", NewTurn("hi", "hi")); err != nil {
		t.Fatal(err)
	}

	conv, err := s.Get("conv")
	if err != nil {
		t.Fatal(err)
	}
	if conv.State.GetString("k") != "v" || len(conv.GetTurns()) != 1 {
		t.Fatalf("stored conversation wrong: %+v", conv)
	}

	// Returned conversations are clones.
	conv.ApplyStateDelta(map[string]any{"k": "mutated"})
	again, _ := s.Get("conv")
	if again.State.GetString("k") != "v" {
		t.Error("external mutation must not reach the store")
	}
}

func TestInMemoryStore_GetCreatesLazily(t *testing.T) {
	s := NewInMemoryStore()
	conv, err := s.Get("fresh")
	if err != nil || conv == nil || conv.ID != "fresh" {
		t.Fatalf("lazy create failed: %v %v", conv, err)
	}
	if conv.State == nil {
		t.Error("fresh conversation should have usable state")
	}
}
