package domain

import "sync"

type EntryKind string

const (
	EntryTopic    EntryKind = "topic"
	EntryResponse EntryKind = "response"
)

// DebateEntry is one message in the shared two-party debate log: either the
// topic (always first) or one persona's response.
type DebateEntry struct {
	Kind    EntryKind
	Speaker PersonaID // empty for topic entries
	Content string
}

// DebateLog holds the single ordered two-party exchange for a session.
// If non-empty, the first entry is the topic; responses after it alternate
// speakers, Confucius opening each round.
type DebateLog struct {
	mu      sync.RWMutex
	entries []DebateEntry
	active  bool
}

func NewDebateLog() *DebateLog {
	return &DebateLog{}
}

// Reset discards any previous exchange and seeds the log with a topic.
func (d *DebateLog) Reset(topic string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries = []DebateEntry{{Kind: EntryTopic, Content: topic}}
	d.active = true
}

// AppendResponse adds one persona response to the end of the log.
func (d *DebateLog) AppendResponse(speaker PersonaID, content string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries = append(d.entries, DebateEntry{
		Kind:    EntryResponse,
		Speaker: speaker,
		Content: content,
	})
}

// Entries returns a snapshot of the log.
func (d *DebateLog) Entries() []DebateEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]DebateEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

func (d *DebateLog) Active() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.active
}

// Topic returns the seeded topic, if any.
func (d *DebateLog) Topic() (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.entries) == 0 || d.entries[0].Kind != EntryTopic {
		return "", false
	}
	return d.entries[0].Content, true
}

// LastResponseBy returns the most recent response content by the given
// speaker.
func (d *DebateLog) LastResponseBy(speaker PersonaID) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for i := len(d.entries) - 1; i >= 0; i-- {
		e := d.entries[i]
		if e.Kind == EntryResponse && e.Speaker == speaker {
			return e.Content, true
		}
	}
	return "", false
}

// Clear empties the log and deactivates the debate. Idempotent.
func (d *DebateLog) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries = nil
	d.active = false
}
