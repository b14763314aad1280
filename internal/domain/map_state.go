package domain

import (
	"cognitive-mapview/internal/core/coords"
	"fmt"
)

// Размер по умолчанию: 79 колонок (native 1..79) на 21 строку.
const (
	DefaultWidth       = 79
	DefaultHeight      = 21
	DefaultSightRadius = 8
)

// ErrOutOfBounds - та же ошибка, что и у конвертера, чтобы errors.Is работал по всему коду.
var ErrOutOfBounds = coords.ErrOutOfBounds

// MapState - зеркало карты текущего уровня.
//
// Все сетки плоские, row-major: индекс = y*Width + x.
// Мутирует только потребитель очереди событий (engine) и пересчет видимости (systems);
// презентация получает копии через api.MapView.
type MapState struct {
	Width       int
	Height      int
	SightRadius int

	// Environment - непрозрачный тег окружения/темы от симуляции, хранится как есть.
	Environment int
	// Level - сколько раз карта сбрасывалась (переходы между уровнями).
	Level int

	conv coords.Converter

	tiles      []*Tile
	visibility []Visibility
	remembered []*Tile
	light      []float64

	player    coords.Point
	hasPlayer bool

	// Что лежит под игроком: в основной сетке клетку перекрывает сам игрок.
	underlying *Tile
}

func NewMapState(width, height, sightRadius int) *MapState {
	s := &MapState{
		Width:       width,
		Height:      height,
		SightRadius: sightRadius,
		conv:        coords.New(width, height),
	}
	s.allocate()
	return s
}

func (s *MapState) allocate() {
	n := s.Width * s.Height
	s.tiles = make([]*Tile, n)
	s.visibility = make([]Visibility, n)
	s.remembered = make([]*Tile, n)
	s.light = make([]float64, n)
}

// Reset полностью переинициализирует состояние при смене уровня.
// Сетка, видимость, память, освещенность и тайл под игроком сбрасываются ВМЕСТЕ:
// частичный сброс оставляет "призрачные" тайлы.
func (s *MapState) Reset(env int) {
	s.allocate()
	s.player = coords.Point{}
	s.hasPlayer = false
	s.underlying = nil
	s.Environment = env
	s.Level++
}

// Converter отдает конвертер координат под размер этой карты.
func (s *MapState) Converter() coords.Converter {
	return s.conv
}

func (s *MapState) InBounds(p coords.Point) bool {
	return s.conv.InBounds(p)
}

// GetIndex переводит точку хранения в индекс плоского массива.
func (s *MapState) GetIndex(p coords.Point) int {
	return p.Y*s.Width + p.X
}

func (s *MapState) checkBounds(p coords.Point) error {
	if !s.InBounds(p) {
		return fmt.Errorf("storage %s: %w", p, ErrOutOfBounds)
	}
	return nil
}

// TileAt возвращает тайл клетки, если симуляция его уже присылала.
func (s *MapState) TileAt(p coords.Point) (Tile, bool) {
	if !s.InBounds(p) {
		return Tile{}, false
	}
	t := s.tiles[s.GetIndex(p)]
	if t == nil {
		return Tile{}, false
	}
	return *t, true
}

// SetTile заменяет тайл в клетке (t.X, t.Y).
// Если клетка сейчас видима, обновляется и кеш памяти, чтобы "взгляд назад"
// показывал последнее увиденное, а не устаревшее.
func (s *MapState) SetTile(t Tile) error {
	p := t.Pos()
	if err := s.checkBounds(p); err != nil {
		return err
	}
	idx := s.GetIndex(p)
	stored := t
	s.tiles[idx] = &stored
	if s.visibility[idx] == VisibilityVisible {
		s.remembered[idx] = &stored
	}
	return nil
}

// VisibilityAt - за пределами карты клетка считается неисследованной.
func (s *MapState) VisibilityAt(p coords.Point) Visibility {
	if !s.InBounds(p) {
		return VisibilityUnexplored
	}
	return s.visibility[s.GetIndex(p)]
}

func (s *MapState) SetVisibility(p coords.Point, v Visibility) error {
	if err := s.checkBounds(p); err != nil {
		return err
	}
	s.visibility[s.GetIndex(p)] = v
	return nil
}

// RememberedAt - последний тайл, увиденный в клетке.
func (s *MapState) RememberedAt(p coords.Point) (Tile, bool) {
	if !s.InBounds(p) {
		return Tile{}, false
	}
	t := s.remembered[s.GetIndex(p)]
	if t == nil {
		return Tile{}, false
	}
	return *t, true
}

// Remember копирует текущий тайл клетки в кеш памяти.
// Пустая клетка память не затирает.
func (s *MapState) Remember(p coords.Point) {
	if !s.InBounds(p) {
		return
	}
	idx := s.GetIndex(p)
	if s.tiles[idx] != nil {
		s.remembered[idx] = s.tiles[idx]
	}
}

func (s *MapState) LightAt(p coords.Point) float64 {
	if !s.InBounds(p) {
		return 0
	}
	return s.light[s.GetIndex(p)]
}

// SetLight записывает яркость, значение ограничивается [0.0, 1.0].
func (s *MapState) SetLight(p coords.Point, level float64) error {
	if err := s.checkBounds(p); err != nil {
		return err
	}
	s.light[s.GetIndex(p)] = min(max(level, 0), 1)
	return nil
}

// Player возвращает позицию игрока в координатах хранения.
func (s *MapState) Player() (coords.Point, bool) {
	return s.player, s.hasPlayer
}

func (s *MapState) SetPlayer(p coords.Point) error {
	if err := s.checkBounds(p); err != nil {
		return err
	}
	s.player = p
	s.hasPlayer = true
	return nil
}

// MarkSensed отмечает клетку, известную не зрением (Detected, либо Dark в темноте).
// Видимую клетку не понижает: это делает только пересчет видимости.
func (s *MapState) MarkSensed(p coords.Point, dark bool) error {
	if err := s.checkBounds(p); err != nil {
		return err
	}
	idx := s.GetIndex(p)
	if s.visibility[idx] == VisibilityVisible {
		return nil
	}
	if dark {
		s.visibility[idx] = VisibilityDark
	} else {
		s.visibility[idx] = VisibilityDetected
	}
	return nil
}

// ForEachCell обходит все клетки построчно.
func (s *MapState) ForEachCell(fn func(p coords.Point)) {
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			fn(coords.Point{X: x, Y: y})
		}
	}
}
