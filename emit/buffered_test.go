package emit

import (
	"sync"
	"testing"
)

func TestBufferedEmitter(t *testing.T) {
	t.Run("keeps events in emission order", func(t *testing.T) {
		b := NewBufferedEmitter()
		b.Emit(Event{Msg: MsgConnect, Item: 1})
		b.Emit(Event{Msg: MsgCombine, Item: 2})
		b.Emit(Event{Msg: MsgConnect, Item: 3})

		events := b.Events()
		if len(events) != 3 {
			t.Fatalf("got %d events, want 3", len(events))
		}
		if events[0].Item != 1 || events[2].Item != 3 {
			t.Error("events out of emission order")
		}
	})

	t.Run("filters by message", func(t *testing.T) {
		b := NewBufferedEmitter()
		b.Emit(Event{Msg: MsgConnect})
		b.Emit(Event{Msg: MsgDisconnect})
		b.Emit(Event{Msg: MsgConnect})

		got := b.EventsByMsg(MsgConnect)
		if len(got) != 2 {
			t.Errorf("got %d connect events, want 2", len(got))
		}
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		b := NewBufferedEmitter()
		b.Emit(Event{Msg: MsgConnect, Item: 1})

		events := b.Events()
		events[0].Item = 99

		if b.Events()[0].Item != 1 {
			t.Error("mutating the returned slice changed the buffer")
		}
	})

	t.Run("clear drops everything", func(t *testing.T) {
		b := NewBufferedEmitter()
		b.Emit(Event{Msg: MsgConnect})
		b.Clear()

		if len(b.Events()) != 0 {
			t.Error("buffer not empty after Clear")
		}
	})

	t.Run("flush forwards and empties", func(t *testing.T) {
		b := NewBufferedEmitter()
		b.Emit(Event{Msg: MsgFold})
		b.Emit(Event{Msg: MsgUnfold})

		sink := NewBufferedEmitter()
		b.Flush(sink)

		if len(sink.Events()) != 2 {
			t.Errorf("sink got %d events, want 2", len(sink.Events()))
		}
		if len(b.Events()) != 0 {
			t.Error("buffer not empty after Flush")
		}
	})
}

func TestBufferedEmitterConcurrent(t *testing.T) {
	b := NewBufferedEmitter()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Emit(Event{Msg: MsgUpdateRequest})
			}
		}()
	}
	wg.Wait()

	if got := len(b.Events()); got != 1000 {
		t.Errorf("got %d events, want 1000", got)
	}
}

func TestNullEmitter(t *testing.T) {
	n := NewNullEmitter()
	n.Emit(Event{Msg: MsgConnect, Item: 1})
}
