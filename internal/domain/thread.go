package domain

import (
	"sync"
	"sync/atomic"
)

// Thread is the append-only turn log for one persona's conversation.
// Turns alternate user→assistant starting with user; the log may end in an
// unanswered user turn while a generation request is outstanding.
type Thread struct {
	owner PersonaID

	mu    sync.RWMutex
	turns []Turn

	// inFlight guards single-flight per thread: at most one outstanding
	// generation request at a time.
	inFlight atomic.Bool
}

func NewThread(owner PersonaID) *Thread {
	return &Thread{owner: owner}
}

func (t *Thread) Owner() PersonaID {
	return t.owner
}

// Append adds a turn to the end of the log.
func (t *Thread) Append(turn Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.turns = append(t.turns, turn)
}

// Turns returns a snapshot of the full log.
func (t *Thread) Turns() []Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// HistoryExcludingLast returns all turns except the most recently appended
// one. After a user turn has just been appended, this is the history of
// completed exchanges only: the pending question travels separately as the
// request input.
func (t *Thread) HistoryExcludingLast() []Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.turns) == 0 {
		return nil
	}
	out := make([]Turn, len(t.turns)-1)
	copy(out, t.turns[:len(t.turns)-1])
	return out
}

func (t *Thread) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.turns)
}

// Clear resets the log to empty. Irreversible.
func (t *Thread) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.turns = nil
}

// BeginGeneration marks a generation request as outstanding. It reports
// false when another request for this thread is already in flight.
func (t *Thread) BeginGeneration() bool {
	return t.inFlight.CompareAndSwap(false, true)
}

// EndGeneration releases the single-flight guard.
func (t *Thread) EndGeneration() {
	t.inFlight.Store(false)
}
