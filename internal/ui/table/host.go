package table

import tea "github.com/charmbracelet/bubbletea"

// Level is the severity of a status notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// Host is what a record source sees of the running table. Every method is
// safe to call from any goroutine; the work lands on the UI event loop.
type Host interface {
	// Do runs fn on the UI event loop. Views may only be mutated from there.
	Do(fn func())
	// Notify flashes a message in the footer.
	Notify(level Level, msg string)
	// OpenForm shows f on top of the table until it is submitted or dismissed.
	OpenForm(f Form)
}

// Field is one text input of a Form.
type Field struct {
	Key         string
	Label       string
	Value       string
	Placeholder string
	Secret      bool
}

// Form collects a set of values from the user.
type Form struct {
	Title  string
	Fields []Field
	// Preview, when set, renders below the inputs on every keystroke.
	Preview func(values map[string]string) string
	// Submit validates and consumes the values. A non-nil error keeps the
	// form open; errors with a FieldErrors method are shown per field.
	Submit func(values map[string]string) error
}

// fieldErrorer is implemented by validation errors that know which input
// they belong to.
type fieldErrorer interface {
	FieldErrors() map[string]string
}

// programHost forwards to a running bubbletea program. Sends happen on their
// own goroutine so callbacks fired from inside Update never block the loop.
type programHost struct {
	send func(tea.Msg)
}

type doMsg struct{ fn func() }

type noticeMsg struct {
	level Level
	text  string
}

type openFormMsg struct{ form Form }

func (h programHost) Do(fn func())                   { go h.send(doMsg{fn: fn}) }
func (h programHost) Notify(level Level, msg string) { go h.send(noticeMsg{level: level, text: msg}) }
func (h programHost) OpenForm(f Form)                { go h.send(openFormMsg{form: f}) }
