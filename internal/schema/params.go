package schema

// Params holds validated, default-filled parameters for one tool invocation.
// It is created per invocation by Schema.Validate and treated as read-only
// by handlers.
type Params map[string]any

// String returns the string value for key, or "" when absent.
func (p Params) String(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// Bool returns the boolean value for key, or false when absent.
func (p Params) Bool(key string) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return false
}

// Float returns the numeric value for key, or 0 when absent.
func (p Params) Float(key string) float64 {
	if v, ok := p[key].(float64); ok {
		return v
	}
	return 0
}

// Int returns the numeric value for key truncated to int, or 0 when absent.
func (p Params) Int(key string) int {
	return int(p.Float(key))
}

// StringSlice returns the string-array value for key, or nil when absent.
func (p Params) StringSlice(key string) []string {
	if v, ok := p[key].([]string); ok {
		return v
	}
	return nil
}

// Has reports whether key carries a value (supplied or defaulted).
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}
