package agent

import (
	"cognitive-mapview/internal/core/coords"
	"cognitive-mapview/internal/core/types"
	"cognitive-mapview/internal/domain"
	"cognitive-mapview/pkg/api"
	"cognitive-mapview/pkg/dungeon"
	"cognitive-mapview/pkg/logger"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Simulator - сценарная симуляция (Headless Agent).
//
// Она играет роль внешней игры: генерирует уровень, ведет персонажа к лестнице вниз
// и на каждый ход выдает кадр фида (события отрисовки в нативном формате).
// Параллельно отвечает на запросы ядра: что под игроком, тег окружения, опрос уровня.
//
// Жизненный цикл:
//  1. NewSimulator -> пустое состояние.
//  2. Start -> первый уровень, кадр с ClearMap и полной отрисовкой.
//  3. Step -> один ход: шаг по пути, открытие двери, бой или спуск по лестнице.
//  4. Run -> Start + Step по таймеру до отмены контекста.
type Simulator struct {
	cfg  Config
	rng  *rand.Rand
	conv coords.Converter
	log  *logrus.Entry

	mu      sync.Mutex
	layout  *dungeon.Layout
	player  coords.Point
	path    []coords.Point
	drawn   map[coords.Point]byte
	depth   int
	started bool
	status  api.StatusRecord
}

// FrameSink получает готовые кадры фида (очередь ядра, WebSocket, запись).
type FrameSink func(frame []byte) error

var ErrNotStarted = errors.New("simulation not started")

func NewSimulator(cfg Config, rng *rand.Rand) *Simulator {
	s := &Simulator{
		cfg:  cfg,
		rng:  rng,
		conv: coords.New(cfg.Width, cfg.Height),
		log:  logger.Component("simulator"),
	}
	s.status = api.StatusRecord{
		HP: 14, HPMax: 14, Power: 4, PowerMax: 4, XPLevel: 1, ArmorClass: 7,
		Str: 16, Dex: 14, Con: 15, Int: 9, Wis: 11, Cha: 8,
		Alignment: int32(domain.AlignmentNeutral),
		Hunger:    int32(domain.HungerNotHungry),
	}
	s.status.SetTitle(cfg.Title)
	return s
}

// Start создает первый уровень и возвращает стартовый кадр.
func (s *Simulator) Start() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fw api.FrameWriter
	s.enterLevel(&fw, 1)
	fw.Message(fmt.Sprintf("Hello %s, welcome to the Dungeons of Doom!", s.cfg.Title))
	s.finishTurn(&fw)
	s.started = true
	return fw.Bytes()
}

// Step выполняет один ход и возвращает кадр.
func (s *Simulator) Step() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, ErrNotStarted
	}

	var fw api.FrameWriter
	s.status.Moves++

	if s.player == s.layout.Down {
		s.enterLevel(&fw, s.depth+1)
		fw.Message(fmt.Sprintf("You climb down the stairs to level %d.", s.depth))
		s.finishTurn(&fw)
		return fw.Bytes()
	}

	if len(s.path) == 0 {
		s.path = s.layout.Path(s.player, s.layout.Down)
		if s.path == nil {
			fw.Message("You feel trapped.")
			s.finishTurn(&fw)
			return fw.Bytes()
		}
	}

	next := s.path[0]
	switch obj, has := s.layout.Object(next); {
	case s.layout.Terrain(next) == dungeon.DoorClosed:
		// Открыть дверь - тоже ход
		s.layout.SetTerrain(next, dungeon.DoorOpen)
		fw.Message("The door opens.")

	case has && dungeon.IsMonster(obj):
		s.layout.RemoveObject(next)
		s.status.Experience += int32(1 + s.depth)
		if s.status.Experience >= 20*s.status.XPLevel {
			s.status.XPLevel++
			s.status.HPMax += 3
			fw.Message(fmt.Sprintf("Welcome to experience level %d.", s.status.XPLevel))
		}
		fw.Message(fmt.Sprintf("You kill the %s!", dungeon.NameOf(obj)))

	default:
		s.path = s.path[1:]
		s.player = next
		s.onArrive(&fw)
	}

	s.finishTurn(&fw)
	return fw.Bytes()
}

// onArrive - что происходит, когда игрок ступил на клетку.
func (s *Simulator) onArrive(fw *api.FrameWriter) {
	obj, has := s.layout.Object(s.player)
	switch {
	case has && obj == dungeon.GoldPiece.Char:
		amount := 5 + s.rng.Intn(20*s.depth)
		s.status.Gold += int32(amount)
		s.layout.RemoveObject(s.player)
		fw.Message(fmt.Sprintf("%d gold pieces.", amount))
	case has:
		fw.Message(fmt.Sprintf("You see here a %s.", dungeon.NameOf(obj)))
	case s.layout.Terrain(s.player) == dungeon.Fountain:
		fw.Message("There is a fountain here.")
	case s.layout.Terrain(s.player) == dungeon.StairsDown:
		fw.Message("There is a staircase down here.")
	}
}

func (s *Simulator) enterLevel(fw *api.FrameWriter, depth int) {
	s.depth = depth
	s.layout = dungeon.Generate(depth, s.cfg.Width, s.cfg.Height, s.rng)
	s.player = s.layout.Start
	s.path = nil
	s.drawn = make(map[coords.Point]byte)

	s.log.WithFields(logrus.Fields{
		"depth": depth,
		"rooms": len(s.layout.Rooms),
		"start": s.player,
	}).Info("Level generated")

	fw.Control(domain.EventClearMap)
}

// finishTurn дорисовывает изменившиеся клетки, шлет статус и конец хода.
func (s *Simulator) finishTurn(fw *api.FrameWriter) {
	s.regenerate()
	s.draw(fw)
	fw.Status(s.status)
	fw.Control(domain.EventTurnComplete)
	fw.Control(domain.EventFlush)
}

func (s *Simulator) regenerate() {
	if s.status.Moves%10 == 0 && s.status.HP < s.status.HPMax {
		s.status.HP++
	}
	switch {
	case s.status.Moves > 1500:
		s.status.Hunger = int32(domain.HungerWeak)
	case s.status.Moves > 1000:
		s.status.Hunger = int32(domain.HungerHungry)
	}
}

// draw отправляет глифы клеток, которые видит персонаж и которые изменились.
// Комнаты освещены целиком, в коридоре видно только соседние клетки.
func (s *Simulator) draw(fw *api.FrameWriter) {
	for _, p := range s.seenCells() {
		ch := s.layout.Char(p)
		if p == s.player {
			ch = '@'
		}
		if ch == dungeon.Stone {
			continue
		}
		if prev, ok := s.drawn[p]; ok && prev == ch {
			continue
		}
		s.drawn[p] = ch

		col, row, err := s.conv.ToEvent(p)
		if err != nil {
			continue
		}
		fw.Glyph(domain.GlyphUpdate{
			Col:   col,
			Row:   row,
			Glyph: glyphID(ch),
			Char:  ch,
			Fg:    colorOf(ch),
			Bg:    types.ColorBlack,
		})
	}

	// Клетка, откуда ушел игрок, еще помнит '@'
	for p, ch := range s.drawn {
		if ch == '@' && p != s.player {
			actual := s.layout.Char(p)
			s.drawn[p] = actual
			col, row, err := s.conv.ToEvent(p)
			if err != nil {
				continue
			}
			fw.Glyph(domain.GlyphUpdate{Col: col, Row: row, Glyph: glyphID(actual), Char: actual, Fg: colorOf(actual)})
		}
	}
}

func (s *Simulator) seenCells() []coords.Point {
	var out []coords.Point
	for _, room := range s.layout.Rooms {
		if s.player.X >= room.X && s.player.X <= room.X+room.W && s.player.Y >= room.Y && s.player.Y <= room.Y+room.H {
			for y := room.Y; y <= room.Y+room.H; y++ {
				for x := room.X; x <= room.X+room.W; x++ {
					out = append(out, coords.Point{X: x, Y: y})
				}
			}
		}
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			out = append(out, coords.Point{X: s.player.X + dx, Y: s.player.Y + dy})
		}
	}
	return out
}

// Числовые ID глифов: стабильные, но в остальном условные.
const (
	glyphPlayer = 333
	glyphBase   = 2300
)

func glyphID(ch byte) int {
	if ch == '@' {
		return glyphPlayer
	}
	return glyphBase + int(ch)
}

func colorOf(ch byte) uint8 {
	switch cat := domain.Classify(ch); {
	case cat == domain.CategoryPlayer, cat == domain.CategoryStairs:
		return types.ColorWhite
	case cat == domain.CategoryDoorOpen, cat == domain.CategoryDoorClosed:
		return types.ColorBrown
	case cat == domain.CategoryFountain:
		return types.ColorBlue
	case cat == domain.CategoryMonster:
		return types.ColorRed
	case cat == domain.CategoryGold:
		return types.ColorYellow
	case cat.IsItem():
		return types.ColorCyan
	}
	return types.ColorGray
}

// --- Запросы ядра (engine.TerrainSource, EnvironmentSource, LevelInfoSource) ---

// TerrainUnderPlayer отдает настоящий терраин в клетке игрока.
func (s *Simulator) TerrainUnderPlayer() (byte, domain.TerrainHint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.layout == nil {
		return 0, domain.HintNone, false
	}
	return s.layout.Terrain(s.player), domain.HintNone, true
}

// Environment - тег окружения: каждые 5 уровней подземелье меняет облик.
func (s *Simulator) Environment() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (s.depth - 1) / 5
}

// LevelInfo отвечает на опрос уровня нативной записью.
func (s *Simulator) LevelInfo() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.layout == nil {
		return nil, ErrNotStarted
	}

	info := api.LevelInfo{Depth: s.depth}
	for _, p := range s.layout.Doors() {
		if len(info.Doors) == api.MaxDoors {
			break
		}
		info.Doors = append(info.Doors, s.native(p))
	}
	for _, p := range s.layout.Monsters() {
		if len(info.Enemies) == api.MaxEnemies {
			break
		}
		info.Enemies = append(info.Enemies, s.native(p))
	}
	return api.EncodeLevelInfo(info)
}

func (s *Simulator) native(p coords.Point) api.NativePoint {
	nx, ny, _ := s.conv.ToNative(p)
	return api.NativePoint{X: int16(nx), Y: int16(ny)}
}

// Position - позиция игрока в координатах хранения.
func (s *Simulator) Position() coords.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

func (s *Simulator) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.depth
}

// Run запускает симуляцию: стартовый кадр, затем ход каждые interval.
func (s *Simulator) Run(ctx context.Context, interval time.Duration, sink FrameSink) error {
	frame, err := s.Start()
	if err != nil {
		return err
	}
	if err := sink(frame); err != nil {
		return fmt.Errorf("sink: %w", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.WithField("depth", s.Depth()).Info("Simulation stopped")
			return ctx.Err()
		case <-ticker.C:
			frame, err := s.Step()
			if err != nil {
				return err
			}
			if err := sink(frame); err != nil {
				return fmt.Errorf("sink: %w", err)
			}
		}
	}
}
