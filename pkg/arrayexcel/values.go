package arrayexcel

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// toInt accepts JSON numbers that hold an integral value.
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil || i > math.MaxInt32 || i < math.MinInt32 {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

// toFloat accepts JSON numbers and numeric strings such as "30".
func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// kindOf names the JSON kind of a decoded value for error messages.
func kindOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, int, int64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// readInt reads an optional integer field. present is false when the key is
// absent or null.
func readInt(m map[string]interface{}, key string) (n int, present bool, err error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	n, ok = toInt(raw)
	if !ok {
		return 0, true, fmt.Errorf("%s must be an integer, got %s", key, kindOf(raw))
	}
	return n, true, nil
}

func requireInt(m map[string]interface{}, key string) (int, error) {
	n, present, err := readInt(m, key)
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, fmt.Errorf("missing %s", key)
	}
	return n, nil
}
