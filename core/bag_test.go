package core

import "testing"

func TestBag_SanitizeDropsUnsafeValues(t *testing.T) {
	type opaque struct{ X int }
	b := Bag{
		"str":    "v",
		"int":    3,
		"float":  1.5,
		"bool":   true,
		"nil":    nil,
		"list":   []any{"a", opaque{}, 2},
		"nested": map[string]any{"fn": func() {}, "ok": "yes"},
		"fn":     func() {},
		"ch":     make(chan int),
	}
	out := b.Sanitize()

	if _, ok := out["fn"]; ok {
		t.Error("functions must be dropped")
	}
	if _, ok := out["ch"]; ok {
		t.Error("channels must be dropped")
	}
	list, _ := out["list"].([]any)
	if len(list) != 2 {
		t.Errorf("unsafe list elements should be dropped: %v", list)
	}
	nested, _ := out["nested"].(map[string]any)
	if len(nested) != 1 || nested["ok"] != "yes" {
		t.Errorf("nested sanitize wrong: %v", nested)
	}
	if out["str"] != "v" || out["int"] != 3 || out["bool"] != true {
		t.Errorf("safe scalars must survive: %v", out)
	}
}

func TestBag_SanitizeCopies(t *testing.T) {
	b := Bag{"m": map[string]any{"k": "v"}}
	out := b.Sanitize()
	out["m"].(map[string]any)["k"] = "changed"
	if b["m"].(map[string]any)["k"] != "v" {
		t.Error("sanitize must deep-copy maps")
	}
	if Bag(nil).Sanitize() != nil {
		t.Error("nil bag sanitizes to nil")
	}
}

func TestNormalizeAgents(t *testing.T) {
	in := []string{" Refiner", "DATA_QUERY", "refiner", "", "critic "}
	want := []string{"refiner", "data_query", "critic"}
	got := NormalizeAgents(in)
	if len(got) != len(want) {
		t.Fatalf("NormalizeAgents = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NormalizeAgents = %v, want %v", got, want)
		}
	}
}
