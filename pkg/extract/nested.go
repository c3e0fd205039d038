package extract

// Nested walks a decoded-JSON tree along path and reports whether every
// segment resolved. Missing or non-map segments report false; Nested
// never panics.
func Nested(v any, path ...string) (any, bool) {
	cur := v
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// NestedMap resolves path to a map, or an empty map.
func NestedMap(v any, path ...string) map[string]any {
	if got, ok := Nested(v, path...); ok {
		if m, ok := got.(map[string]any); ok {
			return m
		}
	}
	return map[string]any{}
}

// NestedSlice resolves path to a slice. A single object where a list
// was expected is wrapped in a one-element slice, since some platform
// exports flatten singleton lists.
func NestedSlice(v any, path ...string) []any {
	got, ok := Nested(v, path...)
	if !ok || got == nil {
		return nil
	}
	switch val := got.(type) {
	case []any:
		return val
	case map[string]any:
		return []any{val}
	default:
		return nil
	}
}

// NestedString resolves path to a string, or "".
func NestedString(v any, path ...string) string {
	if got, ok := Nested(v, path...); ok {
		if s, ok := got.(string); ok {
			return s
		}
	}
	return ""
}

// NestedNumber resolves path to a float64, or 0. JSON integers arrive
// as float64 after decoding, so this covers both.
func NestedNumber(v any, path ...string) float64 {
	got, ok := Nested(v, path...)
	if !ok {
		return 0
	}
	switch n := got.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
