package util

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common errors used throughout roster
var (
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrNoAPIURL       = errors.New("no API URL configured")
	ErrNoDatabaseURL  = errors.New("no database URL configured")
	ErrUserNotFound   = errors.New("user not found")
	ErrWriteQuery     = errors.New("write operation not allowed")
	ErrNotInteractive = errors.New("not running in a terminal")
)

// RosterError is a structured error with context and suggestions
type RosterError struct {
	Title       string   // Short error title
	Message     string   // Detailed message
	Context     string   // What was being attempted
	Causes      []string // Possible causes
	Suggestions []string // Actionable suggestions with commands
	Err         error    // Wrapped error
}

func (e *RosterError) Error() string {
	return e.Title
}

func (e *RosterError) Unwrap() error {
	return e.Err
}

// Format returns a nicely formatted error message
func (e *RosterError) Format() string {
	var sb strings.Builder

	// Title
	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Title))

	// Context/message
	if e.Message != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Message))
	}
	if e.Context != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Context))
	}

	// Causes
	if len(e.Causes) > 0 {
		sb.WriteString("\n  Possible causes:\n")
		for _, cause := range e.Causes {
			sb.WriteString(fmt.Sprintf("    • %s\n", cause))
		}
	}

	// Suggestions
	if len(e.Suggestions) > 0 {
		sb.WriteString("\n  Try:\n")
		for _, sug := range e.Suggestions {
			sb.WriteString(fmt.Sprintf("    $ %s\n", sug))
		}
	}

	return sb.String()
}

// NewError creates a new RosterError
func NewError(title string) *RosterError {
	return &RosterError{Title: title}
}

// WithMessage adds a detailed message
func (e *RosterError) WithMessage(msg string) *RosterError {
	e.Message = msg
	return e
}

// WithContext adds context about what was being attempted
func (e *RosterError) WithContext(ctx string) *RosterError {
	e.Context = ctx
	return e
}

// WithCause adds a possible cause
func (e *RosterError) WithCause(cause string) *RosterError {
	e.Causes = append(e.Causes, cause)
	return e
}

// WithCauses adds multiple possible causes
func (e *RosterError) WithCauses(causes ...string) *RosterError {
	e.Causes = append(e.Causes, causes...)
	return e
}

// WithSuggestion adds an actionable suggestion
func (e *RosterError) WithSuggestion(sug string) *RosterError {
	e.Suggestions = append(e.Suggestions, sug)
	return e
}

// WithSuggestions adds multiple suggestions
func (e *RosterError) WithSuggestions(sugs ...string) *RosterError {
	e.Suggestions = append(e.Suggestions, sugs...)
	return e
}

// Wrap wraps an underlying error
func (e *RosterError) Wrap(err error) *RosterError {
	e.Err = err
	return e
}

// ══════════════════════════════════════════════════════════════════════════
// Pre-built error constructors for common cases
// ══════════════════════════════════════════════════════════════════════════

// NotLoggedInError returns a structured error for a missing session
func NotLoggedInError() *RosterError {
	return NewError("Not logged in").
		WithMessage("No access token found in the session file or ROSTER_TOKEN").
		WithSuggestions(
			"roster login           # Log in with your masomo account",
		).
		Wrap(ErrNotLoggedIn)
}

// NoAPIURLError returns a structured error for a missing API URL
func NoAPIURLError() *RosterError {
	return NewError("No API URL configured").
		WithSuggestions(
			"roster config api.url https://school.example.cd",
			"export ROSTER_API_URL=https://school.example.cd",
		).
		Wrap(ErrNoAPIURL)
}

// APIUnreachableError returns a structured error for network failures
func APIUnreachableError(url string, err error) *RosterError {
	return NewError("Cannot reach the masomo API").
		WithContext(url).
		WithCauses(
			"The API server is not running",
			"The configured URL is wrong",
			"Network connectivity issues",
		).
		WithSuggestions(
			"roster config api.url  # Check the configured URL",
		).
		Wrap(err)
}

// SessionExpiredError returns a structured error for rejected tokens
func SessionExpiredError(err error) *RosterError {
	return NewError("Session expired or invalid").
		WithSuggestions(
			"roster login           # Log in again",
		).
		Wrap(err)
}

// DatabaseConnectionError returns a structured error for DB connection issues
func DatabaseConnectionError(url string, err error) *RosterError {
	return NewError("Cannot connect to database").
		WithContext(url).
		WithCauses(
			"Database server is not running",
			"Invalid connection credentials",
			"Network connectivity issues",
			"Database does not exist",
		).
		WithSuggestions(
			"roster config database.url postgres://...",
		).
		Wrap(err)
}

// UserNotFoundError returns a structured error for an unknown username or ID
func UserNotFoundError(ref string) *RosterError {
	return NewError(fmt.Sprintf("User '%s' not found", ref)).
		WithSuggestions(
			"roster users           # Browse users",
		).
		Wrap(ErrUserNotFound)
}

// InvalidInputError returns a structured error listing rejected fields
func InvalidInputError(fields map[string]string) *RosterError {
	e := NewError("Invalid input")
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.WithCause(fmt.Sprintf("%s: %s", k, fields[k]))
	}
	return e
}

// MissingArgumentError returns an error for missing required argument
func MissingArgumentError(argName, example string) *RosterError {
	e := NewError(fmt.Sprintf("Missing required argument: <%s>", argName))
	if example != "" {
		e.WithSuggestion(example)
	}
	return e
}
