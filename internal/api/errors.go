package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string // per-field validation messages
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + e.Fields[k]
		}
		return fmt.Sprintf("%d: %s", e.Status, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err means the token was missing or rejected.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// decodeError understands the error bodies the backend produces:
// {"message": "..."}, {"error": "..."} and a flat map of field errors.
func decodeError(status int, body string) error {
	e := &APIError{Status: status}

	var raw map[string]any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		e.Message = strings.TrimSpace(body)
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
		return e
	}

	for _, key := range []string{"message", "error"} {
		if s, ok := raw[key].(string); ok && s != "" {
			e.Message = s
			return e
		}
	}

	e.Fields = make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			e.Fields[k] = s
		}
	}
	if len(e.Fields) == 0 {
		e.Fields = nil
		e.Message = http.StatusText(status)
	}
	return e
}
