package dungeon

import (
	"cognitive-mapview/internal/core/coords"
	"math/rand"
)

// Константы генерации (размер - как у экрана симуляции)
const (
	DefaultWidth  = 79
	DefaultHeight = 21
	MaxRooms      = 9
	MinRoomW      = 4
	MaxRoomW      = 14
	MinRoomH      = 3
	MaxRoomH      = 6
)

// Rect - Вспомогательная структура для комнаты.
// Стены лежат на границе прямоугольника, пол - внутри.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// Inflate расширяет прямоугольник на n клеток во все стороны.
func (r Rect) Inflate(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, W: r.W + 2*n, H: r.H + 2*n}
}

func (r Rect) isInterior(x, y int) bool {
	return x > r.X && x < r.X+r.W && y > r.Y && y < r.Y+r.H
}

func createRoom(l *Layout, room Rect) {
	for y := room.Y; y <= room.Y+room.H; y++ {
		for x := room.X; x <= room.X+room.W; x++ {
			p := coords.Point{X: x, Y: y}
			switch {
			case room.isInterior(x, y):
				l.SetTerrain(p, Floor)
			case y == room.Y || y == room.Y+room.H:
				l.SetTerrain(p, HWall)
			default:
				l.SetTerrain(p, VWall)
			}
		}
	}
}

func (b *LevelBuilder) carve(x, y int) {
	p := coords.Point{X: x, Y: y}
	switch b.layout.Terrain(p) {
	case Stone:
		b.layout.SetTerrain(p, Corridor)
	case HWall, VWall:
		// Проход сквозь стену - дверь
		if b.rng.Intn(4) == 0 {
			b.layout.SetTerrain(p, DoorClosed)
		} else {
			b.layout.SetTerrain(p, DoorOpen)
		}
	}
}

func (b *LevelBuilder) createHCorridor(x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		b.carve(x, y)
	}
}

func (b *LevelBuilder) createVCorridor(y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		b.carve(x, y)
	}
}

func (b *LevelBuilder) randRange(min, max int) int {
	return b.rng.Intn(max-min+1) + min
}

// LevelBuilder предоставляет fluent API для создания уровней
type LevelBuilder struct {
	depth  int
	width  int
	height int
	rooms  []Rect
	layout *Layout
	rng    *rand.Rand
}

// NewLevel создает новый builder для уровня
func NewLevel(depth int, rng *rand.Rand) *LevelBuilder {
	return &LevelBuilder{
		depth:  depth,
		width:  DefaultWidth,
		height: DefaultHeight,
		rng:    rng,
	}
}

// WithSize устанавливает размер карты
func (b *LevelBuilder) WithSize(width, height int) *LevelBuilder {
	b.width = width
	b.height = height
	return b
}

// WithRooms генерирует комнаты и соединяет соседние (по X) коридорами
func (b *LevelBuilder) WithRooms(maxRooms int) *LevelBuilder {
	b.layout = newLayout(b.width, b.height, b.depth)
	b.rooms = make([]Rect, 0, maxRooms)

	for attempt := 0; attempt < maxRooms*6 && len(b.rooms) < maxRooms; attempt++ {
		w := b.randRange(MinRoomW, MaxRoomW)
		h := b.randRange(MinRoomH, MaxRoomH)
		if w+3 > b.width || h+3 > b.height {
			continue
		}
		x := b.randRange(1, b.width-w-2)
		y := b.randRange(1, b.height-h-2)

		newRoom := Rect{X: x, Y: y, W: w, H: h}

		// Между стенами комнат хотя бы клетка камня
		failed := false
		for _, other := range b.rooms {
			if newRoom.Intersects(other.Inflate(1)) {
				failed = true
				break
			}
		}
		if !failed {
			b.rooms = append(b.rooms, newRoom)
		}
	}

	// Сортировка по X: коридоры идут слева направо и реже пересекают комнаты
	for i := 1; i < len(b.rooms); i++ {
		for j := i; j > 0 && b.rooms[j].X < b.rooms[j-1].X; j-- {
			b.rooms[j], b.rooms[j-1] = b.rooms[j-1], b.rooms[j]
		}
	}

	for _, room := range b.rooms {
		createRoom(b.layout, room)
	}

	for i := 1; i < len(b.rooms); i++ {
		prevX, prevY := b.rooms[i-1].Center()
		currX, currY := b.rooms[i].Center()

		if b.rng.Intn(2) == 0 {
			b.createHCorridor(prevX, currX, prevY)
			b.createVCorridor(prevY, currY, currX)
		} else {
			b.createVCorridor(prevY, currY, prevX)
			b.createHCorridor(prevX, currX, currY)
		}
	}

	b.layout.Rooms = b.rooms
	return b
}

// PlaceExits размещает лестницы: вверх (кроме первого уровня) в первой комнате, вниз - в последней.
// Игрок стартует в центре первой комнаты.
func (b *LevelBuilder) PlaceExits() *LevelBuilder {
	if len(b.rooms) == 0 {
		b.layout.Start = coords.Point{X: b.width / 2, Y: b.height / 2}
		return b
	}

	sx, sy := b.rooms[0].Center()
	b.layout.Start = coords.Point{X: sx, Y: sy}
	if b.depth > 1 {
		b.layout.Up = b.layout.Start
		b.layout.HasUp = true
		b.layout.SetTerrain(b.layout.Up, StairsUp)
	}

	dx, dy := b.rooms[len(b.rooms)-1].Center()
	b.layout.Down = coords.Point{X: dx, Y: dy}
	if len(b.rooms) == 1 {
		// Единственная комната: лестница вниз в углу, чтобы не совпасть со стартом
		b.layout.Down = coords.Point{X: b.rooms[0].X + 1, Y: b.rooms[0].Y + 1}
	}
	b.layout.SetTerrain(b.layout.Down, StairsDown)
	return b
}

// WithFountain ставит фонтан в случайную комнату (кроме стартовой)
func (b *LevelBuilder) WithFountain() *LevelBuilder {
	if len(b.rooms) < 3 {
		return b
	}
	if p, ok := b.freeCell(b.rooms[1+b.rng.Intn(len(b.rooms)-2)]); ok {
		b.layout.SetTerrain(p, Fountain)
	}
	return b
}

// SpawnEnemies спавнит врагов, доступных на этой глубине (кроме первой комнаты)
func (b *LevelBuilder) SpawnEnemies(count int) *LevelBuilder {
	for i := 0; i < count && len(b.rooms) > 1; i++ {
		t, ok := pick(EnemyTable, EnemyTemplates, b.depth, b.rng)
		if !ok {
			return b
		}
		room := b.rooms[b.rng.Intn(len(b.rooms)-1)+1]
		if p, ok := b.freeCell(room); ok {
			b.layout.PutObject(p, t.Char)
		}
	}
	return b
}

// SpawnItems спавнит предметы в случайных комнатах
func (b *LevelBuilder) SpawnItems(count int) *LevelBuilder {
	for i := 0; i < count && len(b.rooms) > 0; i++ {
		t, ok := pick(LootTable, ItemTemplates, b.depth, b.rng)
		if !ok {
			return b
		}
		room := b.rooms[b.rng.Intn(len(b.rooms))]
		if p, ok := b.freeCell(room); ok {
			b.layout.PutObject(p, t.Char)
		}
	}
	return b
}

// freeCell ищет клетку пола без объектов (макс 20 попыток)
func (b *LevelBuilder) freeCell(room Rect) (coords.Point, bool) {
	for attempt := 0; attempt < 20; attempt++ {
		p := coords.Point{
			X: room.X + 1 + b.rng.Intn(room.W-1),
			Y: room.Y + 1 + b.rng.Intn(room.H-1),
		}
		if b.layout.Terrain(p) != Floor || p == b.layout.Start {
			continue
		}
		if _, taken := b.layout.Object(p); taken {
			continue
		}
		return p, true
	}
	return coords.Point{}, false
}

// Build возвращает готовый уровень
func (b *LevelBuilder) Build() *Layout {
	if b.layout == nil {
		b.WithRooms(MaxRooms)
	}
	return b.layout
}

// Generate - стандартный уровень: комнаты, лестницы, фонтан, враги и предметы.
func Generate(depth, width, height int, rng *rand.Rand) *Layout {
	return NewLevel(depth, rng).
		WithSize(width, height).
		WithRooms(MaxRooms).
		PlaceExits().
		WithFountain().
		SpawnEnemies(2 + depth).
		SpawnItems(4).
		Build()
}
