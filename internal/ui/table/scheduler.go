package table

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/masomo/roster/internal/tabular"
)

// Scheduler runs a view's deferred search on the bubbletea event loop. It is
// not safe for concurrent use: Schedule, Cancel and the fire messages all
// happen inside Update.
type Scheduler struct {
	next    tabular.Token
	pending map[tabular.Token]func()
	queued  []tea.Cmd
}

// NewScheduler returns an empty scheduler to pass to both tabular.Options
// and RunOptions.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[tabular.Token]func())}
}

type scheduleFireMsg struct{ tok tabular.Token }

func (s *Scheduler) Schedule(delay time.Duration, fn func()) tabular.Token {
	s.next++
	tok := s.next
	s.pending[tok] = fn
	s.queued = append(s.queued, tea.Tick(delay, func(time.Time) tea.Msg {
		return scheduleFireMsg{tok: tok}
	}))
	return tok
}

func (s *Scheduler) Cancel(tok tabular.Token) {
	delete(s.pending, tok)
}

// fire runs the callback for tok if it is still pending.
func (s *Scheduler) fire(tok tabular.Token) bool {
	fn, ok := s.pending[tok]
	if !ok {
		return false
	}
	delete(s.pending, tok)
	fn()
	return true
}

// drain hands the ticks queued since the last Update to bubbletea.
func (s *Scheduler) drain() []tea.Cmd {
	cmds := s.queued
	s.queued = nil
	return cmds
}

// stop drops everything still pending; late ticks become no-ops.
func (s *Scheduler) stop() {
	clear(s.pending)
	s.queued = nil
}
