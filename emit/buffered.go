package emit

import "sync"

// BufferedEmitter implements Emitter by storing events in memory.
//
// It captures the full event stream for later inspection, which is how the
// package's own tests observe combiner and folding side effects. Events are
// kept in emission order.
//
// The buffer grows without bound; it is meant for tests, debugging and
// short-lived sessions, not long-running production use.
type BufferedEmitter struct {
	mu     sync.Mutex
	events []Event
}

// NewBufferedEmitter creates an empty BufferedEmitter. Safe for concurrent
// use.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{}
}

// Emit appends the event to the buffer.
func (b *BufferedEmitter) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

// Events returns a copy of all buffered events in emission order.
func (b *BufferedEmitter) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.events...)
}

// EventsByMsg returns a copy of the buffered events carrying the given
// message, in emission order.
func (b *BufferedEmitter) EventsByMsg(msg string) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Event
	for _, ev := range b.events {
		if ev.Msg == msg {
			out = append(out, ev)
		}
	}
	return out
}

// Clear drops all buffered events.
func (b *BufferedEmitter) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

// Flush forwards every buffered event to another emitter and clears the
// buffer. It allows capture-then-forward setups, for example buffering
// during a gesture and logging afterwards.
func (b *BufferedEmitter) Flush(target Emitter) {
	b.mu.Lock()
	events := b.events
	b.events = nil
	b.mu.Unlock()

	for _, ev := range events {
		target.Emit(ev)
	}
}
