package emit

import (
	"io"

	"github.com/rs/zerolog"
)

// LogEmitter implements Emitter by writing structured log lines with
// zerolog.
//
// Example output (console mode disabled):
//
//	{"level":"info","item":3,"element":7,"flow":"ControlFlow","event":"connect"}
//
// Usage:
//
//	emitter := emit.NewLogEmitter(os.Stderr)
//	reg := link.New(factory, emitter, link.Options{})
type LogEmitter struct {
	log zerolog.Logger
}

// NewLogEmitter creates a LogEmitter writing JSON lines to w. A nil writer
// discards output.
func NewLogEmitter(w io.Writer) *LogEmitter {
	if w == nil {
		w = io.Discard
	}
	return &LogEmitter{log: zerolog.New(w)}
}

// NewLogEmitterFor wraps an existing zerolog logger, letting the host
// application keep its configured sinks, level and timestamping.
func NewLogEmitterFor(log zerolog.Logger) *LogEmitter {
	return &LogEmitter{log: log}
}

// Emit writes one log line per event. Meta keys become log fields.
func (l *LogEmitter) Emit(event Event) {
	ev := l.log.Info()
	if event.Item != 0 {
		ev = ev.Int("item", event.Item)
	}
	if event.Element != 0 {
		ev = ev.Int("element", event.Element)
	}
	for k, v := range event.Meta {
		ev = ev.Interface(k, v)
	}
	ev.Str("event", event.Msg).Msg("")
}
