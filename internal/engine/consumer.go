package engine

import (
	"cognitive-mapview/internal/core/coords"
	"cognitive-mapview/internal/core/types"
	"cognitive-mapview/internal/domain"
	"cognitive-mapview/internal/systems"
	"cognitive-mapview/pkg/api"
	"cognitive-mapview/pkg/logger"
	"errors"

	"github.com/sirupsen/logrus"
)

// Stats - счетчики потребителя для диагностики.
type Stats struct {
	Batches    int `json:"batches"`
	Applied    int `json:"applied"`
	Dropped    int `json:"dropped"`
	Flushes    int `json:"flushes"`
	Resets     int `json:"resets"`
	Recomputes int `json:"recomputes"`
}

// Consumer применяет события очереди отрисовки к MapState.
// Единственный, кто мутирует состояние карты; вызывается только из одной горутины.
type Consumer struct {
	state *domain.MapState
	cfg   Config
	opts  options
	log   *logrus.Entry

	messages *messageLog

	last       *domain.StatusSnapshot
	depth      int
	depthKnown bool

	doors   []coords.Point
	enemies []coords.Point

	stats          Stats
	lastBatchReset bool
}

func NewConsumer(state *domain.MapState, cfg Config, opts ...Option) *Consumer {
	return &Consumer{
		state:    state,
		cfg:      cfg,
		opts:     buildOptions(opts),
		log:      logger.Component("render_queue"),
		messages: newMessageLog(cfg.MessageLogLimit),
	}
}

// Drain забирает все ожидающие события одной пачкой и применяет их по порядку.
// Возвращает снимок статуса из последнего события статуса в пачке, либо nil.
func (c *Consumer) Drain(q *Queue) *domain.StatusSnapshot {
	return c.Apply(q.TakeAll())
}

// Apply применяет готовую пачку (Drain, проигрывание записи, тесты).
// Одно битое событие никогда не прерывает пачку.
func (c *Consumer) Apply(batch []domain.Event) *domain.StatusSnapshot {
	c.stats.Batches++
	c.lastBatchReset = false

	var snap *domain.StatusSnapshot
	playerMoved := false
	gapLogged := false

	for i, ev := range batch {
		evLog := c.log.WithFields(logrus.Fields{
			"event": ev.Type.String(),
			"index": i,
		})

		switch ev.Type {
		case domain.EventGlyph:
			moved, err := c.applyGlyph(ev.Glyph)
			if err != nil {
				c.drop(evLog, err)
				continue
			}
			playerMoved = playerMoved || moved

		case domain.EventMessage:
			if err := c.applyMessage(ev.Payload); err != nil {
				c.drop(evLog, err)
				continue
			}

		case domain.EventStatus:
			s, err := c.applyStatus(ev.Payload)
			if err != nil {
				c.drop(evLog, err)
				continue
			}
			if !gapLogged {
				evLog.WithFields(logrus.Fields{
					"depth":       s.Depth,
					"depth_known": s.DepthKnown,
				}).Debug("Status event carries no depth, carried forward (protocol gap).")
				gapLogged = true
			}
			snap = &s

		case domain.EventClearMap:
			c.applyClearMap()
			playerMoved = false

		case domain.EventTurnComplete:
			c.recompute()

		case domain.EventFlush:
			c.stats.Flushes++

		default:
			if ev.Payload != nil {
				ev.Payload.Release()
			}
			c.drop(evLog, errors.New("unknown event type"))
			continue
		}
		c.stats.Applied++
	}

	if playerMoved {
		c.refreshUnderlying()
	}
	if snap != nil {
		c.last = snap
	}
	return snap
}

func (c *Consumer) drop(evLog *logrus.Entry, err error) {
	c.stats.Dropped++
	evLog.WithError(err).Warn("Event dropped")
}

// applyGlyph пишет тайл в сетку. Возвращает true, если игрок сменил клетку.
func (c *Consumer) applyGlyph(u domain.GlyphUpdate) (bool, error) {
	p, err := c.state.Converter().FromEvent(u.Col, u.Row)
	if err != nil {
		return false, err
	}

	tile := domain.NewTile(p, u.Glyph, u.Char, types.PaletteColor(u.Fg), types.PaletteColor(u.Bg), u.Flags)

	moved := false
	if tile.Category == domain.CategoryPlayer {
		prev, had := c.state.Player()
		if err := c.state.SetPlayer(p); err != nil {
			return false, err
		}
		if !had || prev != p {
			// Терраин под старой клеткой больше не актуален
			c.state.ClearUnderlyingTerrain()
			moved = true
		}
	}

	if err := c.state.SetTile(tile); err != nil {
		return false, err
	}

	if tile.Category == domain.CategoryPlayer {
		c.recompute()
	}

	if u.Flags.Sensed() && c.state.VisibilityAt(p) != domain.VisibilityVisible {
		_ = c.state.MarkSensed(p, u.Flags.Has(domain.FlagDark))
	}
	return moved, nil
}

// applyMessage копирует текст и освобождает payload ровно один раз.
func (c *Consumer) applyMessage(p domain.Payload) error {
	if p == nil {
		return errMissingPayload
	}
	defer p.Release()

	text, err := api.DecodeCString(p.Bytes())
	if err != nil {
		return err
	}
	c.messages.add(text, domain.LogTypeMessage)
	return nil
}

func (c *Consumer) applyClearMap() {
	env := c.state.Environment
	if c.opts.env != nil {
		env = c.opts.env.Environment()
	}
	c.state.Reset(env)
	c.doors = nil
	c.enemies = nil
	c.stats.Resets++
	c.lastBatchReset = true

	c.log.WithFields(logrus.Fields{
		"environment": env,
		"level":       c.state.Level,
	}).Info("Map cleared")
}

func (c *Consumer) recompute() {
	player, ok := c.state.Player()
	if !ok {
		return
	}
	systems.RecomputeVisibility(c.state, player)
	c.stats.Recomputes++
}

// refreshUnderlying спрашивает симуляцию, что под игроком, после его перемещения.
func (c *Consumer) refreshUnderlying() {
	if c.opts.terrain == nil {
		return
	}
	ch, hint, ok := c.opts.terrain.TerrainUnderPlayer()
	if !ok {
		return
	}
	if err := c.state.SetUnderlyingTerrainHint(ch, hint); err != nil {
		c.log.WithError(err).WithField("char", string(ch)).Debug("Underlying terrain not cached")
	}
}

// SetDepth - запасной путь для глубины (опрос уровня): событие статуса её не несет.
func (c *Consumer) SetDepth(depth int) {
	c.depth = depth
	c.depthKnown = true
	if c.last != nil {
		updated := *c.last
		updated.Depth = depth
		updated.DepthKnown = true
		c.last = &updated
	}
}

// ApplyLevelInfo применяет ответ опроса уровня: глубину и списки дверей/врагов.
// Координаты в native-адресации, поэтому переводятся конвертером; невалидные отбрасываются.
func (c *Consumer) ApplyLevelInfo(info api.LevelInfo) {
	c.SetDepth(info.Depth)
	c.doors = c.toStorage(info.Doors)
	c.enemies = c.toStorage(info.Enemies)
}

func (c *Consumer) toStorage(points []api.NativePoint) []coords.Point {
	conv := c.state.Converter()
	out := make([]coords.Point, 0, len(points))
	for _, np := range points {
		p, err := conv.ToStorage(int(np.X), int(np.Y))
		if err != nil {
			c.log.WithError(err).Debug("Level info point dropped")
			continue
		}
		out = append(out, p)
	}
	return out
}

// State отдает состояние карты (только для чтения снаружи пакета).
func (c *Consumer) State() *domain.MapState { return c.state }

// LastStatus - последний опубликованный снимок статуса.
func (c *Consumer) LastStatus() *domain.StatusSnapshot { return c.last }

// Messages возвращает копию журнала сообщений.
func (c *Consumer) Messages() []domain.LogEntry { return c.messages.all() }

// TakeNewMessages возвращает сообщения, пришедшие после прошлого вызова.
func (c *Consumer) TakeNewMessages() []domain.LogEntry { return c.messages.takeNew() }

func (c *Consumer) Stats() Stats { return c.stats }

// LastBatchReset - в последней пачке была очистка карты.
func (c *Consumer) LastBatchReset() bool { return c.lastBatchReset }

func (c *Consumer) Doors() []coords.Point   { return c.doors }
func (c *Consumer) Enemies() []coords.Point { return c.enemies }
