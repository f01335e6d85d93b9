package table

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/masomo/roster/internal/ui/styles"
)

// formState is an open Form and its inputs.
type formState struct {
	form   Form
	inputs []textinput.Model
	focus  int
	errs   map[string]string // per-field messages from the last submit
	err    string            // anything that did not belong to a field
}

func newFormState(f Form) *formState {
	fs := &formState{form: f, inputs: make([]textinput.Model, len(f.Fields))}
	for i, field := range f.Fields {
		ti := textinput.New()
		ti.Placeholder = field.Placeholder
		ti.CharLimit = 200
		ti.Width = 40
		ti.SetValue(field.Value)
		if field.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		fs.inputs[i] = ti
	}
	if len(fs.inputs) > 0 {
		fs.inputs[0].Focus()
	}
	return fs
}

func (fs *formState) values() map[string]string {
	out := make(map[string]string, len(fs.inputs))
	for i, field := range fs.form.Fields {
		out[field.Key] = fs.inputs[i].Value()
	}
	return out
}

func (fs *formState) move(delta int) {
	if len(fs.inputs) == 0 {
		return
	}
	fs.inputs[fs.focus].Blur()
	fs.focus = (fs.focus + delta + len(fs.inputs)) % len(fs.inputs)
	fs.inputs[fs.focus].Focus()
}

// submit runs the form's Submit. It reports whether the form may close.
func (fs *formState) submit() bool {
	if fs.form.Submit == nil {
		return true
	}
	err := fs.form.Submit(fs.values())
	if err == nil {
		return true
	}

	fs.errs, fs.err = nil, ""
	var fe fieldErrorer
	if errors.As(err, &fe) {
		fs.errs = fe.FieldErrors()
		// Jump to the first field with a problem.
		for i, field := range fs.form.Fields {
			if _, bad := fs.errs[field.Key]; bad {
				fs.move(i - fs.focus)
				break
			}
		}
	}
	if len(fs.errs) == 0 {
		fs.err = err.Error()
	}
	return false
}

func (m *tableModel) openForm(f Form) {
	m.form = newFormState(f)
	m.mode = tableModeForm
}

func (m *tableModel) closeForm() {
	m.form = nil
	m.mode = tableModeNormal
}

func (m *tableModel) updateForm(msg tea.KeyMsg) tea.Cmd {
	fs := m.form
	if fs == nil {
		m.mode = tableModeNormal
		return nil
	}

	switch msg.String() {
	case "esc", "ctrl+c":
		m.closeForm()
		return nil
	case "tab", "down":
		fs.move(1)
		return nil
	case "shift+tab", "up":
		fs.move(-1)
		return nil
	case "ctrl+s":
		if fs.submit() {
			m.closeForm()
		}
		return nil
	case "enter":
		if fs.focus < len(fs.inputs)-1 {
			fs.move(1)
			return nil
		}
		if fs.submit() {
			m.closeForm()
		}
		return nil
	}

	if len(fs.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	fs.inputs[fs.focus], cmd = fs.inputs[fs.focus].Update(msg)
	return cmd
}

func (fs *formState) view() string {
	var sb strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Accent)
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	focusStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Accent)

	sb.WriteString(titleStyle.Render(fs.form.Title))
	sb.WriteString("\n\n")

	labelWidth := 0
	for _, field := range fs.form.Fields {
		labelWidth = max(labelWidth, len([]rune(field.Label)))
	}

	for i, field := range fs.form.Fields {
		label := PadOrTruncate(field.Label, labelWidth)
		if i == fs.focus {
			sb.WriteString(focusStyle.Render("› " + label))
		} else {
			sb.WriteString(labelStyle.Render("  " + label))
		}
		sb.WriteString("  ")
		sb.WriteString(fs.inputs[i].View())
		sb.WriteString("\n")
		if msg, bad := fs.errs[field.Key]; bad {
			sb.WriteString(strings.Repeat(" ", labelWidth+4))
			sb.WriteString(styles.Errorf("%s", msg))
			sb.WriteString("\n")
		}
	}

	if fs.err != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.ErrorMsg(fs.err))
		sb.WriteString("\n")
	}

	if fs.form.Preview != nil {
		if preview := fs.form.Preview(fs.values()); preview != "" {
			sb.WriteString("\n")
			sb.WriteString(styles.SectionHeader("Changes"))
			sb.WriteString("\n")
			sb.WriteString(styles.Indent(preview, 2))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(styles.MutedMsg("tab next  shift+tab prev  enter/ctrl+s save  esc cancel"))
	return sb.String()
}
