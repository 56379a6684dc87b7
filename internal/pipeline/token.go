package pipeline

import "sync/atomic"

// Token requests cooperative cancellation of a run. The pipeline polls
// it at chunk boundaries, so in-flight pages of the current chunk are
// allowed to finish and their text is kept.
type Token struct {
	cancelled atomic.Bool
}

// NewToken creates a token in the not-cancelled state.
func NewToken() *Token {
	return &Token{}
}

// Cancel flags the token. Safe to call from any goroutine and more
// than once.
func (t *Token) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (t *Token) Cancelled() bool {
	return t.cancelled.Load()
}
