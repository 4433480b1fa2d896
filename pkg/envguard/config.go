package envguard

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Config is a cleaned configuration: schema variables hold their parsed
// values, pass-through variables hold their raw strings.
type Config map[string]any

// Lookup returns the value stored under key
func (c Config) Lookup(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// Get returns the value under key if it is present and of type T
func Get[T any](c Config, key string) (T, bool) {
	v, ok := c[key].(T)
	return v, ok
}

// String returns the value under key as text. Non-string values are rendered
// the way the status report shows them; a missing key yields "".
func (c Config) String(key string) string {
	v, ok := c[key]
	if !ok {
		return ""
	}
	return formatValue(v)
}

// Int returns an integer value. Whole float64 values are converted.
func (c Config) Int(key string) int {
	switch v := c[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	}
	return 0
}

// Float returns a numeric value as float64
func (c Config) Float(key string) float64 {
	switch v := c[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	}
	return 0
}

// Bool returns a boolean value; false when missing or not a boolean
func (c Config) Bool(key string) bool {
	v, _ := c[key].(bool)
	return v
}

// Strings returns a list value
func (c Config) Strings(key string) []string {
	v, _ := c[key].([]string)
	return v
}

// Time returns a date value
func (c Config) Time(key string) time.Time {
	v, _ := c[key].(time.Time)
	return v
}

// Duration returns a duration value
func (c Config) Duration(key string) time.Duration {
	v, _ := c[key].(time.Duration)
	return v
}

// formatValue renders a cleaned value as environment text. Objects and lists
// without a textual form are rendered as JSON.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// stringify converts an overlay value to environment text. Lists are joined
// with commas so they read back through the array builder.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, ",")
	case time.Time, time.Duration, fmt.Stringer, bool, int, float64:
		return formatValue(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = stringify(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	case reflect.Map, reflect.Struct:
		return formatValue(v)
	}
	return fmt.Sprint(v)
}
