// Package tabular holds the state behind every list screen: a caller-owned
// record set projected through search, sort and pagination, plus the
// action callbacks (row, add, edit, confirm-gated delete) the screen
// forwards to its owner.
//
// Nothing in here renders or talks to a backend. The interactive host lives
// in internal/ui/table; the record sources live with their callers.
package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is one row's worth of data. Its shape is defined by the caller.
type Record map[string]any

// Lookup returns the raw value stored under key.
func (r Record) Lookup(key string) (any, bool) {
	v, ok := r[key]
	if ok && v == nil {
		return nil, false
	}
	return v, ok
}

// Text returns the display string for key ("" when the field is missing).
func (r Record) Text(key string) string {
	v, ok := r.Lookup(key)
	if !ok {
		return ""
	}
	return Stringify(v)
}

// Label returns a human-readable identifier for the record, used by the
// delete confirmation prompt.
func (r Record) Label() string {
	for _, key := range []string{"username", "name"} {
		if s := r.Text(key); s != "" {
			return s
		}
	}
	return "this item"
}

// Stringify coerces a field value to the string used for display and search.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02 15:04:05")
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, len(val))
		for i, p := range val {
			parts[i] = Stringify(p)
		}
		return strings.Join(parts, ", ")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
