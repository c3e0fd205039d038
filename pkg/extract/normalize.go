package extract

import "strings"

// NormalizeKeys lower-cases every map key in a decoded-JSON tree,
// recursing into nested maps and slices. Platform exports vary field
// casing between versions; normalizing once at ingestion lets lookups
// use fixed lowercase paths. On a casing collision the later entry
// wins (map iteration order, i.e. effectively arbitrary but rare in
// practice: exports do not mix casings within one file).
func NormalizeKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[strings.ToLower(k)] = NormalizeKeys(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = NormalizeKeys(child)
		}
		return out
	default:
		return v
	}
}
