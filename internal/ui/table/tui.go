package table

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/masomo/roster/internal/tabular"
	"github.com/masomo/roster/internal/ui/styles"
	"github.com/masomo/roster/internal/util"
)

// ═══════════════════════════════════════════════════════════════════════════
// Constants
// ═══════════════════════════════════════════════════════════════════════════

const (
	minColWidth = 3
	colGap      = 2
	chromeLines = 7 // title, search, header, separator, pager, blank, footer
)

// Table mode
type tableMode int

const (
	tableModeNormal tableMode = iota
	tableModeSearch
	tableModeConfirm
	tableModeForm
)

// Exit mode: what to do after quitting TUI
type exitMode int

const (
	exitNormal exitMode = iota
	exitJSON
	exitRaw
	exitPlain
)

// ═══════════════════════════════════════════════════════════════════════════
// Model
// ═══════════════════════════════════════════════════════════════════════════

type tableModel struct {
	title       string
	view        *tabular.View
	sched       *Scheduler
	send        func(tea.Msg)
	cursor      int // selected row on the current page
	colCursor   int // focused column
	scrollY     int // first visible row of the page when the page is taller than the terminal
	width       int // terminal width
	height      int // terminal height
	ready       bool
	mode        tableMode
	searchInput textinput.Model
	form        *formState
	exitMode    exitMode

	// Status message (flash notification, e.g. after yank)
	statusMsg   string
	statusLevel Level
	statusUntil time.Time
}

// ═══════════════════════════════════════════════════════════════════════════
// Key Bindings
// ═══════════════════════════════════════════════════════════════════════════

type tableKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Sort        key.Binding
	PrevPage    key.Binding
	NextPage    key.Binding
	FirstPage   key.Binding
	LastPage    key.Binding
	Search      key.Binding
	Activate    key.Binding
	Add         key.Binding
	Edit        key.Binding
	Delete      key.Binding
	Refresh     key.Binding
	Quit        key.Binding
	YankCell    key.Binding
	YankRow     key.Binding
	ExportJSON  key.Binding
	ExportRaw   key.Binding
	ExportPlain key.Binding
}

var tableKeys = tableKeyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev column")),
	Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next column")),
	Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
	PrevPage:    key.NewBinding(key.WithKeys("pgup", "["), key.WithHelp("[", "prev page")),
	NextPage:    key.NewBinding(key.WithKeys("pgdown", "]"), key.WithHelp("]", "next page")),
	FirstPage:   key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first page")),
	LastPage:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last page")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Activate:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Refresh:     key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	YankCell:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
	YankRow:     key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy row")),
	ExportJSON:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "print as JSON")),
	ExportRaw:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "print raw")),
	ExportPlain: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "print table")),
}

// ═══════════════════════════════════════════════════════════════════════════
// Entry Point
// ═══════════════════════════════════════════════════════════════════════════

// RunOptions wires a record source into the interactive table.
type RunOptions struct {
	// Scheduler must be the one the view was built with for search to be
	// debounced on the UI loop. Nil is fine for views using tabular.Immediate.
	Scheduler *Scheduler
	// Attach is called with the Host before the first frame.
	Attach func(Host)
}

// RunTableTUI launches the interactive table over v. It blocks until the
// user quits. If the user requests an export (J/R/P), the filtered and
// sorted records are printed to stdout after the TUI exits.
func RunTableTUI(title string, v *tabular.View, opts RunOptions) error {
	m := newTableModel(title, v, opts.Scheduler)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// stdin is data (roster view -); read keys from the terminal
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	p := tea.NewProgram(m, progOpts...)
	m.send = p.Send

	if opts.Attach != nil {
		opts.Attach(m.host())
	}

	finalModel, err := p.Run()
	v.Close()
	if err != nil {
		return err
	}

	// Check if user requested output after exit
	if fm, ok := finalModel.(*tableModel); ok {
		switch fm.exitMode {
		case exitJSON:
			return PrintJSONResults(os.Stdout, v.Columns(), v.Rows())
		case exitRaw:
			PrintRaw(os.Stdout, v.Columns(), v.Rows())
		case exitPlain:
			PrintPlainTable(os.Stdout, v.Columns(), v.Rows())
		}
	}

	return nil
}

func newTableModel(title string, v *tabular.View, sched *Scheduler) *tableModel {
	if sched == nil {
		sched = NewScheduler()
	}

	ti := textinput.New()
	ti.Placeholder = "search..."
	ti.CharLimit = 100
	ti.Width = 30
	ti.SetValue(v.Query())

	return &tableModel{
		title:       title,
		view:        v,
		sched:       sched,
		send:        func(tea.Msg) {},
		mode:        tableModeNormal,
		searchInput: ti,
		exitMode:    exitNormal,
	}
}

func (m *tableModel) host() Host {
	return programHost{send: func(msg tea.Msg) { m.send(msg) }}
}

// ═══════════════════════════════════════════════════════════════════════════
// Bubble Tea Interface
// ═══════════════════════════════════════════════════════════════════════════

func (m *tableModel) Init() tea.Cmd {
	return nil
}

func (m *tableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	// Searches typed during this update queue their ticks on the scheduler.
	if queued := m.sched.drain(); len(queued) > 0 {
		cmd = tea.Batch(append(queued, cmd)...)
	}
	return m, cmd
}

func (m *tableModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.ensureRowVisible()

	case scheduleFireMsg:
		if m.sched.fire(msg.tok) {
			m.clampCursor()
		}

	case doMsg:
		msg.fn()
		m.clampCursor()

	case noticeMsg:
		return m.setStatus(msg.level, msg.text)

	case openFormMsg:
		m.openForm(msg.form)
		return textinput.Blink

	case statusClearMsg:
		// Clear the flash message if it has expired
		if !m.statusUntil.IsZero() && time.Now().After(m.statusUntil) {
			m.statusMsg = ""
			m.statusUntil = time.Time{}
		}

	case tea.KeyMsg:
		switch m.mode {
		case tableModeSearch:
			return m.updateSearch(msg)
		case tableModeConfirm:
			return m.updateConfirm(msg)
		case tableModeForm:
			return m.updateForm(msg)
		}
		return m.updateNormal(msg)
	}

	return nil
}

func (m *tableModel) updateNormal(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, tableKeys.Quit):
		return m.quit()

	case key.Matches(msg, tableKeys.Search):
		m.mode = tableModeSearch
		m.searchInput.Focus()
		return textinput.Blink

	case key.Matches(msg, tableKeys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureRowVisible()
		} else if m.view.Prev() {
			m.cursor = len(m.view.PageRows()) - 1
			m.ensureRowVisible()
		}

	case key.Matches(msg, tableKeys.Down):
		if m.cursor < len(m.view.PageRows())-1 {
			m.cursor++
			m.ensureRowVisible()
		} else if m.view.Next() {
			m.cursor = 0
			m.scrollY = 0
		}

	case key.Matches(msg, tableKeys.Left):
		if m.colCursor > 0 {
			m.colCursor--
		}

	case key.Matches(msg, tableKeys.Right):
		if m.colCursor < len(m.view.Columns())-1 {
			m.colCursor++
		}

	case key.Matches(msg, tableKeys.Sort):
		cols := m.view.Columns()
		if m.colCursor >= len(cols) {
			return nil
		}
		if !m.view.ToggleSort(cols[m.colCursor].Key) {
			return m.setStatus(LevelWarning, fmt.Sprintf("%s is not sortable", cols[m.colCursor].Title))
		}
		m.clampCursor()

	case key.Matches(msg, tableKeys.PrevPage):
		m.turnPage(m.view.Prev)

	case key.Matches(msg, tableKeys.NextPage):
		m.turnPage(m.view.Next)

	case key.Matches(msg, tableKeys.FirstPage):
		m.turnPage(m.view.First)

	case key.Matches(msg, tableKeys.LastPage):
		m.turnPage(m.view.Last)

	case key.Matches(msg, tableKeys.Activate):
		if !m.view.Activate(m.cursor) {
			return m.noAction("open")
		}

	case key.Matches(msg, tableKeys.Add):
		if !m.view.Add() {
			return m.noAction("add")
		}

	case key.Matches(msg, tableKeys.Edit):
		if !m.view.Edit(m.cursor) {
			return m.noAction("edit")
		}

	case key.Matches(msg, tableKeys.Delete):
		if m.view.Actions().OnDelete == nil || !m.view.RequestDelete(m.cursor) {
			return m.noAction("delete")
		}
		m.mode = tableModeConfirm

	case key.Matches(msg, tableKeys.Refresh):
		if !m.view.Refresh() {
			return m.noAction("refresh")
		}
		return m.setStatus(LevelInfo, "refreshing")

	case key.Matches(msg, tableKeys.YankCell):
		return m.yankCell()

	case key.Matches(msg, tableKeys.YankRow):
		return m.yankRow()

	case key.Matches(msg, tableKeys.ExportJSON):
		m.exitMode = exitJSON
		return m.quit()

	case key.Matches(msg, tableKeys.ExportRaw):
		m.exitMode = exitRaw
		return m.quit()

	case key.Matches(msg, tableKeys.ExportPlain):
		m.exitMode = exitPlain
		return m.quit()
	}

	return nil
}

func (m *tableModel) quit() tea.Cmd {
	m.view.Close()
	m.sched.stop()
	return tea.Quit
}

func (m *tableModel) turnPage(move func() bool) {
	if move() {
		m.cursor = 0
		m.scrollY = 0
	}
}

func (m *tableModel) noAction(what string) tea.Cmd {
	if len(m.view.PageRows()) == 0 && what != "add" && what != "refresh" {
		return m.setStatus(LevelWarning, "nothing selected")
	}
	return m.setStatus(LevelWarning, fmt.Sprintf("%s is not available here", what))
}

// clampCursor keeps the cursor on the current page after the rows changed
// underneath it.
func (m *tableModel) clampCursor() {
	n := len(m.view.PageRows())
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	m.ensureRowVisible()
}

// ═══════════════════════════════════════════════════════════════════════════
// Search
// ═══════════════════════════════════════════════════════════════════════════

func (m *tableModel) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = tableModeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.view.Type("")
		return nil
	case tea.KeyEnter:
		m.mode = tableModeNormal
		m.searchInput.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// The view debounces; the applied query lands through the scheduler.
	if m.searchInput.Value() != m.view.Query() {
		m.view.Type(m.searchInput.Value())
	}

	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════
// Delete Confirmation
// ═══════════════════════════════════════════════════════════════════════════

func (m *tableModel) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.mode = tableModeNormal
		m.view.ConfirmDelete()
	case "n", "N", "esc", "q", "ctrl+c":
		m.mode = tableModeNormal
		m.view.CancelDelete()
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Status Message (flash notification)
// ═══════════════════════════════════════════════════════════════════════════

type statusClearMsg struct{}

const statusDuration = 3 * time.Second

// setStatus sets a temporary status message that auto-clears.
func (m *tableModel) setStatus(level Level, msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusLevel = level
	m.statusUntil = time.Now().Add(statusDuration)
	return tea.Tick(statusDuration, func(t time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

func (m *tableModel) renderStatus() string {
	switch m.statusLevel {
	case LevelSuccess:
		return styles.SuccessMsg(m.statusMsg)
	case LevelWarning:
		return styles.WarningMsg(m.statusMsg)
	case LevelError:
		return styles.ErrorMsg(m.statusMsg)
	default:
		return styles.InfoMsg(m.statusMsg)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Clipboard (yank)
// ═══════════════════════════════════════════════════════════════════════════

func (m *tableModel) selected() (tabular.Record, bool) {
	rows := m.view.PageRows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return nil, false
	}
	return rows[m.cursor], true
}

// yankCell copies the selected cell value to the system clipboard.
func (m *tableModel) yankCell() tea.Cmd {
	rec, ok := m.selected()
	cols := m.view.Columns()
	if !ok || m.colCursor >= len(cols) {
		return nil
	}
	val := cols[m.colCursor].Cell(rec)
	if err := clipboard.WriteAll(val); err != nil {
		return m.setStatus(LevelError, fmt.Sprintf("clipboard error: %s", err))
	}
	return m.setStatus(LevelSuccess, fmt.Sprintf("Copied: %s", Truncate(val, 40)))
}

// yankRow copies the entire selected row (tab-separated) to the clipboard.
func (m *tableModel) yankRow() tea.Cmd {
	rec, ok := m.selected()
	if !ok {
		return nil
	}
	cols := m.view.Columns()
	if err := clipboard.WriteAll(strings.Join(cells(cols, rec), "\t")); err != nil {
		return m.setStatus(LevelError, fmt.Sprintf("clipboard error: %s", err))
	}
	return m.setStatus(LevelSuccess, fmt.Sprintf("Copied row (%d columns)", len(cols)))
}

// ═══════════════════════════════════════════════════════════════════════════
// Scroll Helpers
// ═══════════════════════════════════════════════════════════════════════════

func (m *tableModel) ensureRowVisible() {
	visibleRows := m.visibleRowCount()
	if m.cursor < m.scrollY {
		m.scrollY = m.cursor
	} else if m.cursor >= m.scrollY+visibleRows {
		m.scrollY = m.cursor - visibleRows + 1
	}
	if m.scrollY < 0 {
		m.scrollY = 0
	}
}

func (m *tableModel) visibleRowCount() int {
	if !m.ready {
		return m.view.PageSize()
	}
	return max(1, m.height-chromeLines)
}

// ═══════════════════════════════════════════════════════════════════════════
// View
// ═══════════════════════════════════════════════════════════════════════════

func (m *tableModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.mode == tableModeForm && m.form != nil {
		return m.form.view()
	}

	var sb strings.Builder

	// Header with title info
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Accent)
	total := len(m.view.Records())
	if m.view.AppliedQuery() != "" {
		sb.WriteString(headerStyle.Render(fmt.Sprintf("%s: %d/%d rows", m.title, m.view.Len(), total)))
	} else {
		sb.WriteString(headerStyle.Render(fmt.Sprintf("%s: %d rows", m.title, total)))
	}
	if s, ok := m.view.SortState(); ok {
		sb.WriteString(styles.MutedMsg(fmt.Sprintf("  [sorted by %s %s]", s.Key, s.Direction)))
	}
	sb.WriteString("\n")

	// Search bar
	switch {
	case m.mode == tableModeSearch:
		sb.WriteString(fmt.Sprintf("/%s", m.searchInput.View()))
		if m.view.SearchPending() {
			sb.WriteString(styles.MutedMsg(" " + styles.SymbolEllipsis))
		}
		sb.WriteString("\n")
	case m.view.AppliedQuery() != "":
		sb.WriteString(styles.MutedMsg(fmt.Sprintf("filter: %s\n", m.view.AppliedQuery())))
	default:
		sb.WriteString("\n")
	}

	sb.WriteString(m.renderTable())
	sb.WriteString(m.renderPager())

	// Footer
	sb.WriteString("\n")
	switch {
	case m.mode == tableModeConfirm:
		_, label, _ := m.view.PendingDelete()
		sb.WriteString(styles.WarningMsg(fmt.Sprintf("Delete %s? ", label)))
		sb.WriteString(styles.MutedMsg("y confirm  n cancel"))
	case m.statusMsg != "" && time.Now().Before(m.statusUntil):
		sb.WriteString(m.renderStatus())
	case m.mode == tableModeSearch:
		sb.WriteString(styles.MutedMsg("enter confirm  esc clear"))
	default:
		sb.WriteString(m.renderHelp())
	}

	return sb.String()
}

// renderHelp lists the keys that do something on this view.
func (m *tableModel) renderHelp() string {
	bindings := []key.Binding{tableKeys.Sort, tableKeys.NextPage, tableKeys.Search, tableKeys.Activate}
	actions := m.view.Actions()
	if actions.OnAdd != nil {
		bindings = append(bindings, tableKeys.Add)
	}
	if actions.OnEdit != nil {
		bindings = append(bindings, tableKeys.Edit)
	}
	if actions.OnDelete != nil {
		bindings = append(bindings, tableKeys.Delete)
	}
	if actions.OnRefresh != nil {
		bindings = append(bindings, tableKeys.Refresh)
	}
	bindings = append(bindings, tableKeys.YankCell, tableKeys.ExportJSON, tableKeys.Quit)

	parts := []string{styles.HelpLine("↑↓←→", "move")}
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.HelpLine(h.Key, h.Desc))
	}
	return strings.Join(parts, "  ")
}

// ═══════════════════════════════════════════════════════════════════════════
// Render Table
// ═══════════════════════════════════════════════════════════════════════════

func (m *tableModel) columnWidths() []int {
	cols := m.view.Columns()
	avail := m.width - 2 - colGap*len(cols)
	return tabular.Distribute(cols, avail, minColWidth)
}

func (m *tableModel) renderTable() string {
	cols := m.view.Columns()
	if len(cols) == 0 {
		return "No columns\n"
	}

	var sb strings.Builder
	widths := m.columnWidths()

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Info)
	selectedHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Accent)
	sortedHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.ColorSortActive).Underline(true)
	separatorStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	selectedSepStyle := lipgloss.NewStyle().Foreground(styles.Accent)
	selectedRowStyle := lipgloss.NewStyle().Background(styles.BgHighlight)
	stripeStyle := lipgloss.NewStyle().Background(styles.BgStripe)
	selectedCellStyle := lipgloss.NewStyle().Background(styles.Accent).Foreground(lipgloss.Color("#000000"))
	normalStyle := lipgloss.NewStyle()
	highlightStyle := lipgloss.NewStyle().Foreground(styles.ColorMatch)

	sortState, sorted := m.view.SortState()

	// Header
	for i, col := range cols {
		title := col.Title
		switch {
		case sorted && sortState.Key == col.Key && sortState.Direction == tabular.Ascending:
			title += " " + styles.SymbolSortUp
		case sorted && sortState.Key == col.Key:
			title += " " + styles.SymbolSortDown
		case col.Sortable:
			title += " " + styles.SymbolSortable
		}
		cell := PadOrTruncate(title, widths[i])
		switch {
		case i == m.colCursor:
			sb.WriteString(selectedHeaderStyle.Render(cell))
		case sorted && sortState.Key == col.Key:
			sb.WriteString(sortedHeaderStyle.Render(cell))
		default:
			sb.WriteString(headerStyle.Render(cell))
		}
		sb.WriteString(strings.Repeat(" ", colGap))
	}
	sb.WriteString("\n")

	// Separator
	for i := range cols {
		sep := strings.Repeat("─", widths[i])
		if i == m.colCursor {
			sb.WriteString(selectedSepStyle.Render(sep))
		} else {
			sb.WriteString(separatorStyle.Render(sep))
		}
		sb.WriteString(strings.Repeat(" ", colGap))
	}
	sb.WriteString("\n")

	rows := m.view.PageRows()
	if len(rows) == 0 {
		if m.view.AppliedQuery() != "" {
			sb.WriteString(styles.MutedMsg("no matches") + "\n")
		} else {
			sb.WriteString(styles.MutedMsg("no rows") + "\n")
		}
		return sb.String()
	}

	query := strings.ToLower(m.view.AppliedQuery())
	end := min(len(rows), m.scrollY+m.visibleRowCount())
	for r := m.scrollY; r < end; r++ {
		rec := rows[r]
		isSelectedRow := r == m.cursor
		for i, col := range cols {
			val := util.Escape(col.Cell(rec))
			cell := PadOrTruncate(val, widths[i])
			hasSearchMatch := query != "" && strings.Contains(strings.ToLower(val), query)
			switch {
			case isSelectedRow && i == m.colCursor:
				sb.WriteString(selectedCellStyle.Render(cell))
			case isSelectedRow:
				sb.WriteString(selectedRowStyle.Render(cell))
			case hasSearchMatch:
				sb.WriteString(highlightStyle.Render(cell))
			case r%2 == 1:
				sb.WriteString(stripeStyle.Render(cell))
			default:
				sb.WriteString(normalStyle.Render(cell))
			}
			sb.WriteString(strings.Repeat(" ", colGap))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderPager draws « ‹ … 3 4 [5] 6 7 … › » for the current page.
func (m *tableModel) renderPager() string {
	w := m.view.Window()
	if w.Total <= 1 {
		return styles.MutedMsg(fmt.Sprintf("page 1 of 1  (%d rows)", m.view.Len())) + "\n"
	}

	enabled := lipgloss.NewStyle().Foreground(styles.TextPrimary)
	disabled := lipgloss.NewStyle().Foreground(styles.Muted)
	current := lipgloss.NewStyle().Bold(true).Foreground(styles.ColorPagerPage)

	nav := func(s string, ok bool) string {
		if ok {
			return styles.Render(enabled, s)
		}
		return styles.Render(disabled, s)
	}

	parts := []string{nav("«", w.CanPrev()), nav("‹", w.CanPrev())}
	if w.LeadingEllipsis {
		parts = append(parts, styles.Render(disabled, styles.SymbolEllipsis))
	}
	for _, p := range w.Pages {
		if p == w.Current {
			parts = append(parts, styles.Render(current, fmt.Sprintf("[%d]", p)))
		} else {
			parts = append(parts, styles.Render(enabled, fmt.Sprintf("%d", p)))
		}
	}
	if w.TrailingEllipsis {
		parts = append(parts, styles.Render(disabled, styles.SymbolEllipsis))
	}
	parts = append(parts, nav("›", w.CanNext()), nav("»", w.CanNext()))

	return strings.Join(parts, " ") + styles.MutedMsg(fmt.Sprintf("   page %d of %d", w.Current, w.Total)) + "\n"
}

func cells(cols []tabular.Column, rec tabular.Record) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = util.Escape(col.Cell(rec))
	}
	return out
}
