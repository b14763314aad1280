package engine

import (
	"cognitive-mapview/internal/domain"
	"sync"
	"testing"
)

func TestQueue_TakeAllReturnsWholeBatch(t *testing.T) {
	q := NewQueue()
	q.Push(domain.ControlEvent(domain.EventFlush))
	q.Push(domain.ControlEvent(domain.EventTurnComplete), domain.ControlEvent(domain.EventClearMap))

	if got := q.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	batch := q.TakeAll()
	want := []domain.EventType{domain.EventFlush, domain.EventTurnComplete, domain.EventClearMap}
	if len(batch) != len(want) {
		t.Fatalf("batch size = %d, want %d", len(batch), len(want))
	}
	for i, ev := range batch {
		if ev.Type != want[i] {
			t.Errorf("batch[%d] = %s, want %s", i, ev.Type, want[i])
		}
	}

	if got := q.TakeAll(); len(got) != 0 {
		t.Errorf("second TakeAll returned %d events", len(got))
	}
	if q.Pushed() != 3 {
		t.Errorf("Pushed() = %d, want 3", q.Pushed())
	}
}

func TestQueue_NotifyCoalesces(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 10; i++ {
		q.Push(domain.ControlEvent(domain.EventFlush))
	}

	select {
	case <-q.Notify():
	default:
		t.Fatal("expected a pending notification")
	}
	select {
	case <-q.Notify():
		t.Fatal("notifications must coalesce into one signal")
	default:
	}

	if got := len(q.TakeAll()); got != 10 {
		t.Errorf("batch size = %d, want 10", got)
	}
}

func TestQueue_EmptyPushDoesNotNotify(t *testing.T) {
	q := NewQueue()
	q.Push()

	select {
	case <-q.Notify():
		t.Fatal("empty push must not signal")
	default:
	}
}

func TestQueue_ConcurrentProducerKeepsOrder(t *testing.T) {
	q := NewQueue()
	const total = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			q.Push(domain.GlyphEvent(domain.GlyphUpdate{Glyph: i}))
		}
	}()

	var got []domain.Event
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	for finished := false; !finished; {
		select {
		case <-q.Notify():
			got = append(got, q.TakeAll()...)
		case <-done:
			got = append(got, q.TakeAll()...)
			finished = true
		}
	}

	if len(got) != total {
		t.Fatalf("received %d events, want %d", len(got), total)
	}
	for i, ev := range got {
		if ev.Glyph.Glyph != i {
			t.Fatalf("event %d has glyph %d: order broken", i, ev.Glyph.Glyph)
		}
	}
}
