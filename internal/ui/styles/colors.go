package styles

import "github.com/charmbracelet/lipgloss"

// Color palette. Dark mode optimized, semantic colors.
var (
	// Primary semantic colors
	Accent  = lipgloss.Color("#F4511E") // deep orange - highlights, interactive
	Success = lipgloss.Color("#10B981") // emerald-500 - success, active accounts
	Warning = lipgloss.Color("#F59E0B") // amber-500 - warnings, search matches
	Error   = lipgloss.Color("#EF4444") // red-500 - errors, destructive actions
	Info    = lipgloss.Color("#2196F3") // blue-500 - headers, edit action
	Muted   = lipgloss.Color("#6B7280") // gray-500 - secondary text

	// Text colors
	TextPrimary   = lipgloss.Color("#F9FAFB") // gray-50 - main text
	TextSecondary = lipgloss.Color("#9CA3AF") // gray-400 - descriptions

	// Background colors
	BgHighlight = lipgloss.Color("#1F2937") // gray-800 - selected row
	BgStripe    = lipgloss.Color("#111827") // gray-900 - odd rows
)

// Semantic color aliases for clarity
var (
	// Account colors
	ColorActive   = Success
	ColorInactive = Muted
	ColorAdmin    = Error
	ColorTeacher  = Info
	ColorStudent  = Success

	// Table chrome
	ColorSortActive = Accent // header of the sorted column
	ColorPagerPage  = Accent // current page button
	ColorMatch      = Warning
)
