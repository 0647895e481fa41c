package bandit

import "fmt"

// paramFloat coerces a SetParams value into a float64. JSON decoding hands
// us float64, direct callers may pass ints.
func paramFloat(key string, v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	default:
		return 0, fmt.Errorf("parameter %q: expected number, got %T", key, v)
	}
}
