package network

import (
	"cognitive-mapview/pkg/api"
	"cognitive-mapview/pkg/logger"
	"sync"

	"github.com/sirupsen/logrus"
)

// SubscriberBuffer - сколько кадров может накопиться у медленного зрителя.
const SubscriberBuffer = 64

// Broadcaster занимается только рассылкой кадров карты подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ID зрителя -> Личный канал
	subscribers map[string]chan api.MapView
	// Счетчик пропущенных кадров по зрителю (канал был полон)
	skipped map[string]int
	log     *logrus.Entry
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.MapView),
		skipped:     make(map[string]int),
		log:         logger.Component("broadcaster"),
	}
}

// Register создает личный канал для зрителя
func (b *Broadcaster) Register(viewerID string) chan api.MapView {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[viewerID]; ok {
		close(old)
	}

	ch := make(chan api.MapView, SubscriberBuffer)
	b.subscribers[viewerID] = ch
	b.skipped[viewerID] = 0
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(viewerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[viewerID]; ok {
		close(ch)
		delete(b.subscribers, viewerID)
		delete(b.skipped, viewerID)
	}
}

// SendTo отправляет кадр конкретному зрителю (например, начальный снимок при подключении)
func (b *Broadcaster) SendTo(viewerID string, msg api.MapView) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subscribers[viewerID]
	if !ok {
		return false
	}
	return b.trySend(viewerID, ch, msg)
}

// Broadcast отправляет кадр всем. Реализует engine.Publisher.
func (b *Broadcaster) Broadcast(msg api.MapView) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		b.trySend(id, ch, msg)
	}
}

// trySend никогда не блокирует цикл сессии: медленный зритель пропускает кадр.
func (b *Broadcaster) trySend(id string, ch chan api.MapView, msg api.MapView) bool {
	select {
	case ch <- msg:
		return true
	default:
		b.skipped[id]++
		b.log.WithFields(logrus.Fields{
			"viewer":  id,
			"seq":     msg.Sequence,
			"skipped": b.skipped[id],
		}).Debug("Viewer channel full, frame skipped")
		return false
	}
}

// HasSubscriber проверяет, подключен ли зритель
func (b *Broadcaster) HasSubscriber(viewerID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[viewerID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Skipped - сколько кадров пропустил зритель.
func (b *Broadcaster) Skipped(viewerID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.skipped[viewerID]
}
