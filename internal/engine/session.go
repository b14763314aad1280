package engine

import (
	"cognitive-mapview/internal/domain"
	"cognitive-mapview/pkg/api"
	"cognitive-mapview/pkg/logger"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Publisher рассылает кадры презентации (network.Broadcaster).
type Publisher interface {
	Broadcast(msg api.MapView)
}

// Session связывает очередь, потребителя и состояние карты одного игрока.
//
// Run - горутина потребителя: ждет сигнал очереди, делает Drain и публикует кадр.
// Читатели (HTTP, отладка) получают копию последнего кадра через Snapshot.
type Session struct {
	Config   Config
	Queue    *Queue
	Consumer *Consumer

	state     *domain.MapState
	publisher Publisher
	levelInfo LevelInfoSource
	log       *logrus.Entry

	mu    sync.RWMutex
	view  api.MapView
	seq   uint64
	stats Stats
}

// NewSession создает состояние карты по конфигу и потребителя к нему.
// publisher может быть nil: тогда кадры только сохраняются для Snapshot.
func NewSession(cfg Config, publisher Publisher, opts ...Option) *Session {
	o := buildOptions(opts)
	state := domain.NewMapState(cfg.Width, cfg.Height, cfg.SightRadius)

	s := &Session{
		Config:    cfg,
		Queue:     NewQueue(),
		Consumer:  NewConsumer(state, cfg, opts...),
		state:     state,
		publisher: publisher,
		levelInfo: o.levelInfo,
		log:       logger.Component("session"),
	}
	s.view = BuildView(state, nil, nil)
	return s
}

// Run обрабатывает сигналы очереди до отмены контекста.
func (s *Session) Run(ctx context.Context) error {
	s.log.WithFields(logrus.Fields{
		"width":  s.Config.Width,
		"height": s.Config.Height,
		"radius": s.Config.SightRadius,
	}).Info("Session loop started")

	var tick <-chan time.Time
	if s.Config.PollInterval > 0 && s.levelInfo != nil {
		ticker := time.NewTicker(s.Config.PollInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Session loop stopped")
			return ctx.Err()

		case <-s.Queue.Notify():
			s.Step()

		case <-tick:
			if err := s.Poll(); err != nil {
				s.log.WithError(err).Warn("Level info poll failed")
				continue
			}
			s.publish()
		}
	}
}

// Step делает один drain и публикует кадр. Возвращает снимок статуса пачки, если был.
func (s *Session) Step() *domain.StatusSnapshot {
	snap := s.Consumer.Drain(s.Queue)

	// После смены уровня глубину можно узнать только опросом
	if s.Consumer.LastBatchReset() && s.levelInfo != nil {
		if err := s.Poll(); err != nil {
			s.log.WithError(err).Warn("Level info poll after reset failed")
		}
	}

	s.publish()
	return snap
}

// Poll запрашивает запись уровня у симуляции и применяет её.
func (s *Session) Poll() error {
	if s.levelInfo == nil {
		return nil
	}
	raw, err := s.levelInfo.LevelInfo()
	if err != nil {
		return fmt.Errorf("level info query: %w", err)
	}
	info, err := api.DecodeLevelInfo(raw)
	if err != nil {
		return err
	}
	s.Consumer.ApplyLevelInfo(info)
	return nil
}

func (s *Session) publish() {
	view := BuildView(s.state, s.Consumer.LastStatus(), s.Consumer.TakeNewMessages())
	view.Doors = toPointViews(s.Consumer.Doors())
	view.Enemies = toPointViews(s.Consumer.Enemies())
	if s.Consumer.LastBatchReset() {
		view.Type = api.ViewTypeReset
	}

	s.mu.Lock()
	s.seq++
	view.Sequence = s.seq
	s.view = view
	s.stats = s.Consumer.Stats()
	s.mu.Unlock()

	if s.publisher != nil {
		s.publisher.Broadcast(view)
	}
}

// Snapshot возвращает последний опубликованный кадр.
// Срезы кадра после публикации не изменяются, поэтому отдавать их безопасно.
func (s *Session) Snapshot() api.MapView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Stats - счетчики потребителя на момент последней публикации.
func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}
