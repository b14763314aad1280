package agent

import (
	"cognitive-mapview/internal/domain"
	"cognitive-mapview/internal/engine"
	"cognitive-mapview/pkg/api"
	"cognitive-mapview/pkg/dungeon"
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"
)

// feed прогоняет кадр через тот же декодер, что и WebSocket-фид
func feed(t *testing.T, s *engine.Session, frame []byte) {
	t.Helper()
	events, err := api.DecodeFrame(frame)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	s.Queue.Push(events...)
	s.Step()
}

func newPair(seed int64) (*Simulator, *engine.Session) {
	sim := NewSimulator(NewConfig(), rand.New(rand.NewSource(seed)))
	cfg := engine.NewConfig()
	session := engine.NewSession(cfg, nil,
		engine.WithTerrainSource(sim),
		engine.WithEnvironmentSource(sim),
		engine.WithLevelInfoSource(sim),
	)
	return sim, session
}

func TestSimulator_StepBeforeStart(t *testing.T) {
	sim := NewSimulator(NewConfig(), rand.New(rand.NewSource(1)))
	if _, err := sim.Step(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Step() error = %v, want ErrNotStarted", err)
	}
	if _, err := sim.LevelInfo(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("LevelInfo() error = %v, want ErrNotStarted", err)
	}
	if _, _, ok := sim.TerrainUnderPlayer(); ok {
		t.Error("no terrain before start")
	}
}

func TestSimulator_StartFrame(t *testing.T) {
	sim := NewSimulator(NewConfig(), rand.New(rand.NewSource(3)))
	frame, err := sim.Start()
	if err != nil {
		t.Fatal(err)
	}

	events, err := api.DecodeFrame(frame)
	if err != nil {
		t.Fatal(err)
	}
	if events[0].Type != domain.EventClearMap {
		t.Errorf("first event = %s, want CLEAR_MAP", events[0].Type)
	}
	last := events[len(events)-1]
	if last.Type != domain.EventFlush {
		t.Errorf("last event = %s, want FLUSH", last.Type)
	}

	players := 0
	for _, ev := range events {
		if ev.Type == domain.EventGlyph && ev.Glyph.Char == '@' {
			players++
		}
		if ev.Payload != nil {
			ev.Payload.Release()
		}
	}
	if players != 1 {
		t.Errorf("player drawn %d times", players)
	}
}

func TestSimulator_DrivesSession(t *testing.T) {
	sim, session := newPair(11)

	frame, err := sim.Start()
	if err != nil {
		t.Fatal(err)
	}
	feed(t, session, frame)

	state := session.Consumer.State()
	if p, ok := state.Player(); !ok || p != sim.Position() {
		t.Fatalf("player = %s (%v), simulator = %s", p, ok, sim.Position())
	}
	if got := state.VisibilityAt(sim.Position()); got != domain.VisibilityVisible {
		t.Errorf("player cell visibility = %s", got)
	}

	// После сброса ядро опросило уровень: глубина известна
	view := session.Snapshot()
	if view.Status == nil || !view.Status.DepthKnown || view.Status.Depth != 1 {
		t.Fatalf("status after start = %+v", view.Status)
	}
	if len(view.Logs) == 0 {
		t.Error("welcome message missing")
	}

	// Идем до второго уровня
	for i := 0; i < 500 && sim.Depth() < 2; i++ {
		frame, err := sim.Step()
		if err != nil {
			t.Fatal(err)
		}
		feed(t, session, frame)

		p, ok := state.Player()
		if !ok || p != sim.Position() {
			t.Fatalf("step %d: core player %s (%v), simulator %s", i, p, ok, sim.Position())
		}
		if under, ok := state.TileUnderPlayer(); ok && under.Pos() != p {
			t.Fatalf("step %d: underlying tile at %s, player at %s", i, under.Pos(), p)
		}
	}
	if sim.Depth() < 2 {
		t.Fatal("simulation never reached level 2")
	}

	view = session.Snapshot()
	if view.Level != 2 {
		t.Errorf("map resets = %d, want 2", view.Level)
	}
	if view.Status == nil || view.Status.Depth != 2 {
		t.Errorf("depth after descent = %+v", view.Status)
	}

	// Новый уровень начинается на лестнице вверх
	under, ok := state.TileUnderPlayer()
	if !ok || under.Char != dungeon.StairsUp {
		t.Errorf("under player = %v (%v), want up stairs", under, ok)
	}
	if !state.HasActionableTileUnderPlayer() {
		t.Error("stairs under player must be actionable")
	}
}

func TestSimulator_LevelInfo(t *testing.T) {
	sim := NewSimulator(NewConfig(), rand.New(rand.NewSource(5)))
	if _, err := sim.Start(); err != nil {
		t.Fatal(err)
	}

	raw, err := sim.LevelInfo()
	if err != nil {
		t.Fatal(err)
	}
	info, err := api.DecodeLevelInfo(raw)
	if err != nil {
		t.Fatal(err)
	}
	if info.Depth != 1 {
		t.Errorf("depth = %d", info.Depth)
	}
	if len(info.Doors) == 0 {
		t.Error("level without doors")
	}
	for _, d := range info.Doors {
		// native x начинается с 1
		if d.X < 1 {
			t.Errorf("door %v is not in native addressing", d)
		}
	}
}

func TestSimulator_Run(t *testing.T) {
	sim := NewSimulator(NewConfig(), rand.New(rand.NewSource(9)))
	ctx, cancel := context.WithCancel(context.Background())

	frames := 0
	err := sim.Run(ctx, time.Millisecond, func(frame []byte) error {
		frames++
		if frames == 5 {
			cancel()
		}
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if frames < 5 {
		t.Errorf("frames = %d", frames)
	}

	sinkErr := errors.New("closed")
	sim = NewSimulator(NewConfig(), rand.New(rand.NewSource(9)))
	err = sim.Run(context.Background(), time.Millisecond, func([]byte) error { return sinkErr })
	if !errors.Is(err, sinkErr) {
		t.Errorf("Run() = %v, want sink error", err)
	}
}
