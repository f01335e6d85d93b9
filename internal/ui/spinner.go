package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/masomo/roster/internal/ui/styles"
)

// Status output goes to stderr so --json and --raw stay clean on stdout.
var Output io.Writer = os.Stderr

func animated(w io.Writer) bool {
	if styles.IsAccessible() {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Spinner shows that an API call or query is in flight.
type Spinner struct {
	message string
	out     io.Writer
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewSpinner creates a new spinner with the given message
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		out:     Output,
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation in the background
func (s *Spinner) Start() {
	// Accessible mode or non-TTY: just print static message
	if !animated(s.out) {
		fmt.Fprintln(s.out, s.message+"...")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		style := lipgloss.NewStyle().Foreground(styles.Accent)
		i := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				frame := style.Render(frames[i%len(frames)])
				fmt.Fprintf(s.out, "\r%s %s", frame, s.message)
				i++
			}
		}
	}()
}

// Stop stops the spinner and waits for its line to be cleared. Safe to call
// more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}

// Success stops the spinner and shows a success message
func (s *Spinner) Success(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, styles.SuccessMsg(msg))
}

// Error stops the spinner and shows an error message
func (s *Spinner) Error(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, styles.ErrorMsg(msg))
}

// ══════════════════════════════════════════════════════════════════════════
// Progress bar for bulk operations
// ══════════════════════════════════════════════════════════════════════════

// Progress tracks a batch of requests, e.g. deleting several users.
type Progress struct {
	total   int
	current int
	label   string
	width   int
	out     io.Writer
}

// NewProgress creates a new progress bar
func NewProgress(label string, total int) *Progress {
	return &Progress{
		label: label,
		total: total,
		width: 30,
		out:   Output,
	}
}

// Update updates the progress and renders
func (p *Progress) Update(current int) {
	p.current = current
	p.render()
}

// Increment increments progress by 1
func (p *Progress) Increment() {
	p.current++
	p.render()
}

func (p *Progress) render() {
	if p.total <= 0 {
		return
	}
	if !animated(p.out) {
		// One line per step; batches are small
		fmt.Fprintf(p.out, "%s: %d of %d\n", p.label, p.current, p.total)
		return
	}

	pct := float64(p.current) / float64(p.total)
	filled := int(pct * float64(p.width))
	empty := p.width - filled

	bar := lipgloss.NewStyle().Foreground(styles.Success).Render(
		strings.Repeat("█", max(filled, 0)),
	) + lipgloss.NewStyle().Foreground(styles.Muted).Render(
		strings.Repeat("░", max(empty, 0)),
	)

	fmt.Fprintf(p.out, "\r%s %s %3d%% [%d/%d]", p.label, bar, int(pct*100), p.current, p.total)
}

// Done finishes the progress bar
func (p *Progress) Done() {
	if animated(p.out) {
		fmt.Fprintln(p.out)
	}
}
