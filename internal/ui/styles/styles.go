package styles

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Symbols - Unicode with ASCII fallbacks
const (
	SymbolSuccess  = "✓"
	SymbolError    = "✗"
	SymbolWarning  = "⚠"
	SymbolInfo     = "●"
	SymbolSortUp   = "▲"
	SymbolSortDown = "▼"
	SymbolSortable = "↕"
	SymbolEllipsis = "…"
)

var forceNoColor atomic.Bool

// SetNoColor disables colors regardless of the environment (--no-color).
func SetNoColor(v bool) {
	forceNoColor.Store(v)
}

// NoColor checks if colors should be disabled
func NoColor() bool {
	return forceNoColor.Load() || os.Getenv("NO_COLOR") != "" || os.Getenv("ROSTER_NO_COLOR") != ""
}

// IsAccessible checks if accessibility mode is enabled
// When enabled: no animations, no spinner, simplified output
func IsAccessible() bool {
	return os.Getenv("ROSTER_ACCESSIBLE") == "1" || os.Getenv("ROSTER_ACCESSIBLE") == "true"
}

// Base text styles
var Bold = lipgloss.NewStyle().Bold(true)

// Semantic styles - use these instead of raw colors
var (
	// Message types
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)

	// Account display
	UsernameStyle = lipgloss.NewStyle().Bold(true)
	ActiveStyle   = lipgloss.NewStyle().Foreground(ColorActive)
	InactiveStyle = lipgloss.NewStyle().Foreground(ColorInactive)
	AdminStyle    = lipgloss.NewStyle().Foreground(ColorAdmin)
	TeacherStyle  = lipgloss.NewStyle().Foreground(ColorTeacher)
	StudentStyle  = lipgloss.NewStyle().Foreground(ColorStudent)

	// Diff display
	DiffAdd    = lipgloss.NewStyle().Foreground(Success)
	DiffRemove = lipgloss.NewStyle().Foreground(Error).Strikethrough(true)

	// Help bar
	HelpKey   = lipgloss.NewStyle().Foreground(Accent)
	HelpValue = lipgloss.NewStyle().Foreground(Muted)
)

// ═══════════════════════════════════════════════════════════════════════════
// Render functions - centralized formatting with NoColor support
// ═══════════════════════════════════════════════════════════════════════════

// render applies a style if colors are enabled
func render(s lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return s.Render(text)
}

// Render applies s unless colors are disabled.
func Render(s lipgloss.Style, text string) string {
	return render(s, text)
}

// Username formats a username
func Username(name string) string {
	return render(UsernameStyle, name)
}

// Role formats a masomo role ("admin:principal", "teacher:", ...)
func Role(role string) string {
	switch {
	case strings.HasPrefix(role, "admin:"):
		return render(AdminStyle, role)
	case strings.HasPrefix(role, "teacher:"):
		return render(TeacherStyle, role)
	case strings.HasPrefix(role, "student:"):
		return render(StudentStyle, role)
	default:
		return role
	}
}

// Active formats an account's active flag
func Active(active bool) string {
	if active {
		return render(ActiveStyle, "active")
	}
	return render(InactiveStyle, "inactive")
}

// ═══════════════════════════════════════════════════════════════════════════
// Message formatters - structured output
// ═══════════════════════════════════════════════════════════════════════════

// SuccessMsg formats a success message with checkmark
func SuccessMsg(msg string) string {
	symbol := SymbolSuccess
	if NoColor() {
		symbol = "+"
	}
	return fmt.Sprintf("%s %s", render(SuccessStyle, symbol), msg)
}

// ErrorMsg formats an error message
func ErrorMsg(title string) string {
	return render(ErrorStyle, "Error: "+title)
}

// WarningMsg formats a warning message
func WarningMsg(msg string) string {
	symbol := SymbolWarning
	if NoColor() {
		symbol = "!"
	}
	return fmt.Sprintf("%s %s", render(WarningStyle, symbol), msg)
}

// InfoMsg formats an info message
func InfoMsg(msg string) string {
	return render(InfoStyle, msg)
}

// MutedMsg formats muted/secondary text
func MutedMsg(msg string) string {
	return render(MutedStyle, msg)
}

// ═══════════════════════════════════════════════════════════════════════════
// Section formatters - consistent output structure
// ═══════════════════════════════════════════════════════════════════════════

// SectionHeader formats a section header
func SectionHeader(title string) string {
	return render(Bold, title)
}

// HelpLine formats one key hint of a help bar
func HelpLine(key, description string) string {
	return render(HelpKey, key) + " " + render(HelpValue, description)
}

// Indent returns text indented by n spaces
func Indent(text string, n int) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// Errorf formats an error line in the error color
func Errorf(format string, a ...any) string {
	return render(ErrorStyle, fmt.Sprintf(format, a...))
}
