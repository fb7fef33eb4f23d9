package prusalink

import "log/slog"

// Lookup walks parsed JSON key by key and returns the value at the final key.
// Keys may be strings (object members) or ints (array indices). The moment a
// key is missing, an index is out of range, or an intermediate value is not a
// container, Lookup logs a warning and returns fallback. It never fails hard:
// an absent upstream field must degrade to a fallback, not abort the cycle.
func Lookup(root any, fallback any, keys ...any) any {
	cur := root
	for _, k := range keys {
		switch key := k.(type) {
		case string:
			obj, ok := cur.(map[string]any)
			if !ok {
				slog.Warn("prusalink: lookup path not an object", "keys", keys, "at", key)
				return fallback
			}
			cur, ok = obj[key]
			if !ok {
				slog.Warn("prusalink: lookup key not found", "keys", keys, "at", key)
				return fallback
			}
		case int:
			arr, ok := cur.([]any)
			if !ok {
				slog.Warn("prusalink: lookup path not an array", "keys", keys, "at", key)
				return fallback
			}
			if key < 0 || key >= len(arr) {
				slog.Warn("prusalink: lookup index out of range", "keys", keys, "at", key)
				return fallback
			}
			cur = arr[key]
		default:
			slog.Warn("prusalink: lookup key is neither string nor int", "keys", keys)
			return fallback
		}
	}
	return cur
}

// LookupString is Lookup restricted to string values. A value of any other
// type counts as a miss and yields the fallback.
func LookupString(root any, fallback string, keys ...any) string {
	v := Lookup(root, fallback, keys...)
	s, ok := v.(string)
	if !ok {
		slog.Warn("prusalink: lookup value is not a string", "keys", keys)
		return fallback
	}
	return s
}

// LookupFloat is Lookup restricted to numeric values. The second return is
// false when the path is absent or the value is not a number; callers treat
// that as "omit the sample" rather than reporting a false zero.
func LookupFloat(root any, keys ...any) (float64, bool) {
	v := Lookup(root, nil, keys...)
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case nil:
		return 0, false
	default:
		slog.Warn("prusalink: lookup value is not a number", "keys", keys)
		return 0, false
	}
}
