package schema

import "encoding/json"

// Args are the decoded arguments of a tool call.
type Args map[string]any

// String returns the string value at key, or defaultVal.
func (a Args) String(key, defaultVal string) string {
	v, ok := a[key]
	if !ok {
		return defaultVal
	}
	s, ok := v.(string)
	if !ok {
		return defaultVal
	}
	return s
}

// RequireString returns the non-empty string value at key.
func (a Args) RequireString(key string) (string, error) {
	s := a.String(key, "")
	if s == "" {
		return "", NewErrorf(ErrCodeValidation, "missing required parameter %q", key)
	}
	return s, nil
}

// Bool returns the boolean value at key, or defaultVal.
func (a Args) Bool(key string, defaultVal bool) bool {
	v, ok := a[key]
	if !ok {
		return defaultVal
	}
	b, ok := v.(bool)
	if !ok {
		return defaultVal
	}
	return b
}

// Int returns the integer value at key, or defaultVal.
func (a Args) Int(key string, defaultVal int) int {
	v, ok := a[key]
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return defaultVal
		}
		return int(i)
	default:
		return defaultVal
	}
}

// Strings returns the string elements of the array at key. Non-string
// elements are dropped.
func (a Args) Strings(key string) []string {
	v, ok := a[key]
	if !ok {
		return nil
	}
	switch arr := v.(type) {
	case []string:
		return append([]string(nil), arr...)
	case []any:
		result := make([]string, 0, len(arr))
		for _, item := range arr {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	default:
		return nil
	}
}
