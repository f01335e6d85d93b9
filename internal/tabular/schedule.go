package tabular

import "time"

// DefaultSearchDelay is how long typing has to pause before a query applies.
const DefaultSearchDelay = 300 * time.Millisecond

// Token identifies one scheduled callback.
type Token uint64

// Scheduler runs deferred callbacks on the owner's event loop. Cancel must be
// safe to call with a token that already fired or was never issued.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Token
	Cancel(tok Token)
}

// Immediate runs every callback synchronously, ignoring the delay. It backs
// non-interactive output where there is no typing to debounce.
type Immediate struct{}

func (Immediate) Schedule(_ time.Duration, fn func()) Token {
	fn()
	return 0
}

func (Immediate) Cancel(Token) {}
