package core

// Bag is an open key/value payload restricted to JSON-safe values. It backs
// the loosely-typed parts of the protocol (gate context, plan meta) that
// must survive serialization across turns without surprises.
type Bag map[string]any

// Sanitize returns a deep copy of the bag containing only JSON-safe values:
// nil, bool, string, numbers, []any and nested map[string]any. Integer and
// float variants are preserved as-is (they marshal fine); anything else is
// dropped. A nil bag sanitizes to nil.
func (b Bag) Sanitize() Bag {
	if b == nil {
		return nil
	}
	out := make(Bag, len(b))
	for k, v := range b {
		if sv, ok := sanitizeValue(v); ok {
			out[k] = sv
		}
	}
	return out
}

// Clone is a convenience alias for Sanitize; the copy is always safe to
// mutate independently.
func (b Bag) Clone() Bag { return b.Sanitize() }

func sanitizeValue(v any) (any, bool) {
	switch tv := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return tv, true
	case []string:
		out := make([]any, 0, len(tv))
		for _, e := range tv {
			out = append(out, e)
		}
		return out, true
	case []any:
		out := make([]any, 0, len(tv))
		for _, e := range tv {
			if se, ok := sanitizeValue(e); ok {
				out = append(out, se)
			}
		}
		return out, true
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			if se, ok := sanitizeValue(e); ok {
				out[k] = se
			}
		}
		return out, true
	case Bag:
		return map[string]any(tv.Sanitize()), true
	case State:
		return map[string]any(Bag(tv).Sanitize()), true
	default:
		return nil, false
	}
}
