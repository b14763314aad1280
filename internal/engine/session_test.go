package engine

import (
	"cognitive-mapview/internal/core/coords"
	"cognitive-mapview/internal/domain"
	"cognitive-mapview/pkg/api"
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingPublisher struct {
	mu    sync.Mutex
	views []api.MapView
	got   chan struct{}
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{got: make(chan struct{}, 16)}
}

func (p *recordingPublisher) Broadcast(v api.MapView) {
	p.mu.Lock()
	p.views = append(p.views, v)
	p.mu.Unlock()
	select {
	case p.got <- struct{}{}:
	default:
	}
}

func (p *recordingPublisher) last() api.MapView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.views[len(p.views)-1]
}

type fakeLevelInfo struct {
	info  api.LevelInfo
	err   error
	calls int
}

func (f *fakeLevelInfo) LevelInfo() ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return api.EncodeLevelInfo(f.info)
}

func smallConfig() Config {
	cfg := NewConfig()
	cfg.Width, cfg.Height, cfg.SightRadius = 10, 6, 3
	return cfg
}

func TestSession_StepPublishesView(t *testing.T) {
	pub := newRecordingPublisher()
	s := NewSession(smallConfig(), pub)
	state := s.Consumer.State()

	player := coords.Point{X: 4, Y: 3}
	col, row, _ := state.Converter().ToEvent(player)
	s.Queue.Push(
		domain.MessageEvent(api.NewPayload(api.EncodeCString("Hello Agent, welcome!"))),
		domain.GlyphEvent(domain.GlyphUpdate{Col: col, Row: row, Glyph: 333, Char: '@', Fg: 15}),
		domain.StatusEvent(statusPayload(12)),
	)
	s.Step()

	if len(pub.views) != 1 {
		t.Fatalf("published %d views, want 1", len(pub.views))
	}
	v := pub.last()
	if v.Type != api.ViewTypeUpdate || v.Sequence != 1 {
		t.Errorf("type=%s seq=%d", v.Type, v.Sequence)
	}
	if v.Player == nil || v.Player.X != 4 || v.Player.Y != 3 {
		t.Errorf("player = %+v", v.Player)
	}
	if v.Status == nil || v.Status.HP != 12 || v.Status.Alignment != "Lawful" {
		t.Errorf("status = %+v", v.Status)
	}
	if len(v.Logs) != 1 || v.Logs[0].Text != "Hello Agent, welcome!" {
		t.Errorf("logs = %+v", v.Logs)
	}

	// Только исследованные клетки: ромб радиуса 3 внутри сетки 10x6
	for _, tv := range v.Map {
		if tv.Visibility == domain.VisibilityUnexplored.String() {
			t.Errorf("unexplored cell (%d,%d) in view", tv.X, tv.Y)
		}
	}
	if len(v.Map) == 0 {
		t.Fatal("empty map view")
	}

	if snap := s.Snapshot(); snap.Sequence != 1 {
		t.Errorf("snapshot seq = %d", snap.Sequence)
	}

	// Второй кадр без новых сообщений
	s.Step()
	if v := pub.last(); v.Sequence != 2 || len(v.Logs) != 0 {
		t.Errorf("second view seq=%d logs=%d", v.Sequence, len(v.Logs))
	}
}

func TestSession_RememberedCellsComeFromMemory(t *testing.T) {
	s := NewSession(smallConfig(), nil)
	conv := s.Consumer.State().Converter()

	push := func(p coords.Point, glyph int, ch byte) {
		col, row, _ := conv.ToEvent(p)
		s.Queue.Push(domain.GlyphEvent(domain.GlyphUpdate{Col: col, Row: row, Glyph: glyph, Char: ch}))
	}

	push(coords.Point{X: 1, Y: 1}, 2370, '+')
	push(coords.Point{X: 0, Y: 1}, 333, '@')
	s.Step()

	// Игрок ушел, дверь за пределами обзора закрыли "вслепую" другим глифом
	push(coords.Point{X: 0, Y: 1}, 2378, '.')
	push(coords.Point{X: 9, Y: 5}, 333, '@')
	s.Step()
	push(coords.Point{X: 1, Y: 1}, 2372, '\'')
	s.Step()

	view := s.Snapshot()
	var door *api.TileView
	for i, tv := range view.Map {
		if tv.X == 1 && tv.Y == 1 {
			door = &view.Map[i]
		}
	}
	if door == nil {
		t.Fatal("remembered door missing from view")
	}
	if !door.FromMemory || door.Symbol != "+" || door.Visibility != "remembered" {
		t.Errorf("door view = %+v, want remembered '+'", door)
	}
}

func TestSession_ResetPollsLevelInfo(t *testing.T) {
	pub := newRecordingPublisher()
	li := &fakeLevelInfo{info: api.LevelInfo{
		Depth: 5,
		Doors: []api.NativePoint{{X: 2, Y: 1}},
	}}
	s := NewSession(smallConfig(), pub, WithLevelInfoSource(li))

	s.Queue.Push(domain.ControlEvent(domain.EventClearMap), domain.StatusEvent(statusPayload(8)))
	s.Step()

	if li.calls != 1 {
		t.Fatalf("level info polled %d times, want 1", li.calls)
	}
	v := pub.last()
	if v.Type != api.ViewTypeReset {
		t.Errorf("type = %s, want RESET", v.Type)
	}
	if v.Status == nil || v.Status.Depth != 5 || !v.Status.DepthKnown {
		t.Errorf("status = %+v, want depth 5 from poll", v.Status)
	}
	if len(v.Doors) != 1 || v.Doors[0] != (api.PointView{X: 1, Y: 1}) {
		t.Errorf("doors = %+v", v.Doors)
	}

	s.Queue.Push(domain.ControlEvent(domain.EventFlush))
	s.Step()
	if li.calls != 1 {
		t.Error("level info must only be polled after a reset")
	}
}

func TestSession_PollErrors(t *testing.T) {
	li := &fakeLevelInfo{err: errors.New("simulation busy")}
	s := NewSession(smallConfig(), nil, WithLevelInfoSource(li))
	if err := s.Poll(); err == nil {
		t.Error("expected error from failing source")
	}

	bad := &fakeLevelInfo{info: api.LevelInfo{Depth: 1}}
	s = NewSession(smallConfig(), nil, WithLevelInfoSource(bad))
	if err := s.Poll(); err != nil {
		t.Errorf("Poll() = %v", err)
	}

	s = NewSession(smallConfig(), nil)
	if err := s.Poll(); err != nil {
		t.Errorf("Poll() without a source = %v", err)
	}
}

func TestSession_RunDrainsOnNotify(t *testing.T) {
	pub := newRecordingPublisher()
	s := NewSession(smallConfig(), pub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	s.Queue.Push(domain.ControlEvent(domain.EventTurnComplete))

	select {
	case <-pub.got:
	case <-time.After(2 * time.Second):
		t.Fatal("no view published after notify")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
