package tabular

import "strings"

// Filter returns the records where at least one of keys contains query as a
// case-insensitive substring. A blank query matches everything. The input
// slice is never modified.
func Filter(records []Record, query string, keys []string) []Record {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if matches(r, needle, keys) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r Record, needle string, keys []string) bool {
	for _, key := range keys {
		v, ok := r.Lookup(key)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(Stringify(v)), needle) {
			return true
		}
	}
	return false
}
