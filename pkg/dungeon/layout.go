package dungeon

import (
	"cognitive-mapview/internal/core/coords"
	"strings"
)

// Символы терраина так, как их рисует симуляция
const (
	Stone      byte = ' '
	Floor      byte = '.'
	Corridor   byte = '#'
	HWall      byte = '-'
	VWall      byte = '|'
	DoorClosed byte = '+'
	DoorOpen   byte = '\''
	StairsDown byte = '>'
	StairsUp   byte = '<'
	Fountain   byte = '{'
)

// Layout - сгенерированный уровень: сетка терраина и объекты поверх (монстры, предметы).
// Координаты - в пространстве хранения (с нуля).
type Layout struct {
	Width  int
	Height int
	Depth  int

	Rooms []Rect
	Start coords.Point
	Down  coords.Point
	Up    coords.Point
	HasUp bool

	terrain []byte
	objects map[coords.Point]byte
}

func newLayout(width, height, depth int) *Layout {
	l := &Layout{
		Width:   width,
		Height:  height,
		Depth:   depth,
		terrain: make([]byte, width*height),
		objects: make(map[coords.Point]byte),
	}
	for i := range l.terrain {
		l.terrain[i] = Stone
	}
	return l
}

func (l *Layout) inBounds(p coords.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < l.Width && p.Y < l.Height
}

// Terrain возвращает терраин клетки. За пределами карты - камень.
func (l *Layout) Terrain(p coords.Point) byte {
	if !l.inBounds(p) {
		return Stone
	}
	return l.terrain[p.Y*l.Width+p.X]
}

func (l *Layout) SetTerrain(p coords.Point, ch byte) {
	if l.inBounds(p) {
		l.terrain[p.Y*l.Width+p.X] = ch
	}
}

// Object - монстр или предмет в клетке.
func (l *Layout) Object(p coords.Point) (byte, bool) {
	ch, ok := l.objects[p]
	return ch, ok
}

func (l *Layout) PutObject(p coords.Point, ch byte) {
	l.objects[p] = ch
}

func (l *Layout) RemoveObject(p coords.Point) {
	delete(l.objects, p)
}

// Char - что видно в клетке: объект поверх терраина.
func (l *Layout) Char(p coords.Point) byte {
	if ch, ok := l.objects[p]; ok {
		return ch
	}
	return l.Terrain(p)
}

// Walkable - по клетке можно пройти (закрытую дверь симуляция открывает на ходу).
func (l *Layout) Walkable(p coords.Point) bool {
	switch l.Terrain(p) {
	case Floor, Corridor, DoorClosed, DoorOpen, StairsDown, StairsUp, Fountain:
		return true
	}
	return false
}

// Find возвращает все клетки, для которых match вернул true, построчно.
func (l *Layout) Find(match func(p coords.Point, terrain byte, object byte, hasObject bool) bool) []coords.Point {
	var out []coords.Point
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			p := coords.Point{X: x, Y: y}
			obj, has := l.objects[p]
			if match(p, l.terrain[y*l.Width+x], obj, has) {
				out = append(out, p)
			}
		}
	}
	return out
}

// Doors - все двери уровня построчно.
func (l *Layout) Doors() []coords.Point {
	return l.Find(func(_ coords.Point, t byte, _ byte, _ bool) bool {
		return t == DoorClosed || t == DoorOpen
	})
}

// Monsters - клетки с монстрами (буквы и ':').
func (l *Layout) Monsters() []coords.Point {
	return l.Find(func(_ coords.Point, _ byte, obj byte, has bool) bool {
		return has && IsMonster(obj)
	})
}

// IsMonster - символ объекта обозначает монстра (буквы и ':').
func IsMonster(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == ':'
}

// Path ищет кратчайший путь по 4 направлениям (BFS). Путь не включает from.
// nil - цель недостижима.
func (l *Layout) Path(from, to coords.Point) []coords.Point {
	if from == to {
		return []coords.Point{}
	}
	if !l.Walkable(to) {
		return nil
	}

	prev := make(map[coords.Point]coords.Point)
	visited := map[coords.Point]bool{from: true}
	queue := []coords.Point{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == to {
			break
		}

		for _, d := range directions {
			next := coords.Point{X: current.X + d.X, Y: current.Y + d.Y}
			if visited[next] || !l.Walkable(next) {
				continue
			}
			visited[next] = true
			prev[next] = current
			queue = append(queue, next)
		}
	}

	if !visited[to] {
		return nil
	}

	var path []coords.Point
	for p := to; p != from; p = prev[p] {
		path = append(path, p)
	}
	// Разворачиваем: собирали от цели к началу
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

var directions = []coords.Point{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

// String рисует уровень построчно (для отладки и тестов).
func (l *Layout) String() string {
	var sb strings.Builder
	for y := 0; y < l.Height; y++ {
		row := make([]byte, l.Width)
		for x := 0; x < l.Width; x++ {
			row[x] = l.Char(coords.Point{X: x, Y: y})
		}
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
