package grid

import (
	"encoding/json"
	"strings"
)

// Record is a single row as decoded from the remote API.
type Record = map[string]any

// Resolve walks a dot-separated accessor path through nested maps.
// Any missing segment (or a non-map intermediate) yields nil; it never
// panics, so column definitions can point at fields that only appear
// when the endpoint is asked for detail serialization.
func Resolve(rec Record, path string) any {
	if rec == nil || path == "" {
		return nil
	}
	var cur any = rec
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[seg]
		if !ok {
			return nil
		}
	}
	return cur
}

// AsInt64 coerces the numeric types encoding/json may hand back.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

// AsFloat coerces a resolved value to a float64 for numeric cells.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
