package engine

import (
	"cognitive-mapview/internal/domain"
	"sync"
)

// Queue - очередь событий отрисовки между симуляцией и ядром.
//
// Ровно один продюсер (симуляция) и один потребитель (Session/Consumer).
// Push никогда не блокируется: события дописываются под мьютексом, а сигнал
// "карта изменилась" кладется в канал с буфером 1 (повторные сигналы схлопываются).
// TakeAll забирает ВСЕ накопленные события одной пачкой.
type Queue struct {
	mu      sync.Mutex
	pending []domain.Event
	pushed  uint64
	notify  chan struct{}
}

func NewQueue() *Queue {
	return &Queue{
		notify: make(chan struct{}, 1),
	}
}

// Push дописывает события в порядке аргументов и сигналит потребителю.
func (q *Queue) Push(events ...domain.Event) {
	if len(events) == 0 {
		return
	}

	q.mu.Lock()
	q.pending = append(q.pending, events...)
	q.pushed += uint64(len(events))
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
		// Сигнал уже висит, потребитель заберет всё разом
	}
}

// TakeAll забирает пачку целиком. Частичных пачек не бывает.
func (q *Queue) TakeAll() []domain.Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	batch := q.pending
	q.pending = nil
	return batch
}

// Notify - канал сигнала "карта изменилась".
func (q *Queue) Notify() <-chan struct{} {
	return q.notify
}

// Len возвращает количество ожидающих событий.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Pushed - сколько событий прошло через очередь за всё время.
func (q *Queue) Pushed() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pushed
}
