package dungeon

import (
	"cognitive-mapview/internal/core/coords"
	"math/rand"
	"testing"
)

func TestGenerate(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		l := Generate(1, DefaultWidth, DefaultHeight, rand.New(rand.NewSource(seed)))

		// 1. Проверка размеров
		if l.Width != DefaultWidth || l.Height != DefaultHeight {
			t.Fatalf("seed %d: size %dx%d", seed, l.Width, l.Height)
		}

		// 2. Должны быть хотя бы две комнаты
		if len(l.Rooms) < 2 {
			t.Errorf("seed %d: only %d rooms", seed, len(l.Rooms))
			continue
		}

		// 3. Игрок не должен появиться в стене
		if !l.Walkable(l.Start) {
			t.Errorf("seed %d: start %s is not walkable (%q)", seed, l.Start, l.Terrain(l.Start))
		}

		// 4. Лестница вниз на месте и достижима
		if l.Terrain(l.Down) != StairsDown {
			t.Errorf("seed %d: no down stairs at %s", seed, l.Down)
		}
		if path := l.Path(l.Start, l.Down); path == nil {
			t.Errorf("seed %d: down stairs unreachable\n%s", seed, l)
		}

		// 5. На первом уровне лестницы вверх нет
		if l.HasUp {
			t.Errorf("seed %d: up stairs on level 1", seed)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(3, DefaultWidth, DefaultHeight, rand.New(rand.NewSource(42)))
	b := Generate(3, DefaultWidth, DefaultHeight, rand.New(rand.NewSource(42)))

	if a.String() != b.String() {
		t.Error("same seed must give the same level")
	}
	if !a.HasUp || a.Terrain(a.Up) != StairsUp || a.Up != a.Start {
		t.Errorf("deeper levels start on up stairs: up=%s start=%s", a.Up, a.Start)
	}
}

func TestGenerate_TerrainAlphabet(t *testing.T) {
	l := Generate(2, DefaultWidth, DefaultHeight, rand.New(rand.NewSource(7)))
	allowed := map[byte]bool{
		Stone: true, Floor: true, Corridor: true, HWall: true, VWall: true,
		DoorClosed: true, DoorOpen: true, StairsDown: true, StairsUp: true, Fountain: true,
	}

	l.Find(func(p coords.Point, terrain byte, obj byte, has bool) bool {
		if !allowed[terrain] {
			t.Errorf("unexpected terrain %q at %s", terrain, p)
		}
		if has && terrain != Floor {
			t.Errorf("object %q placed on %q at %s", obj, terrain, p)
		}
		return false
	})

	// Края карты не трогаются: там только камень
	for x := 0; x < l.Width; x++ {
		if ch := l.Terrain(coords.Point{X: x, Y: 0}); ch != Stone {
			t.Errorf("top row has %q at x=%d", ch, x)
		}
	}
}

func TestLayout_Path(t *testing.T) {
	l := newLayout(5, 3, 1)
	for x := 0; x < 5; x++ {
		l.SetTerrain(coords.Point{X: x, Y: 1}, Floor)
	}
	l.SetTerrain(coords.Point{X: 2, Y: 1}, DoorClosed)

	path := l.Path(coords.Point{X: 0, Y: 1}, coords.Point{X: 4, Y: 1})
	if len(path) != 4 || path[3] != (coords.Point{X: 4, Y: 1}) {
		t.Fatalf("path = %v", path)
	}

	l.SetTerrain(coords.Point{X: 2, Y: 1}, VWall)
	if path := l.Path(coords.Point{X: 0, Y: 1}, coords.Point{X: 4, Y: 1}); path != nil {
		t.Errorf("path through a wall: %v", path)
	}
	if path := l.Path(coords.Point{X: 0, Y: 1}, coords.Point{X: 0, Y: 1}); path == nil || len(path) != 0 {
		t.Errorf("path to self = %v", path)
	}
}

func TestLayout_ObjectsOverTerrain(t *testing.T) {
	l := newLayout(3, 1, 1)
	p := coords.Point{X: 1, Y: 0}
	l.SetTerrain(p, Floor)
	l.PutObject(p, 'd')

	if l.Char(p) != 'd' || l.Terrain(p) != Floor {
		t.Errorf("char=%q terrain=%q", l.Char(p), l.Terrain(p))
	}
	if got := l.Monsters(); len(got) != 1 || got[0] != p {
		t.Errorf("Monsters() = %v", got)
	}
	l.RemoveObject(p)
	if l.Char(p) != Floor {
		t.Errorf("char after remove = %q", l.Char(p))
	}
	if l.Terrain(coords.Point{X: -1, Y: 0}) != Stone {
		t.Error("out of bounds must read as stone")
	}
}

// Тест вспомогательной функции пересечения комнат
func TestRect_Intersects(t *testing.T) {
	r1 := Rect{0, 0, 10, 10}
	r2 := Rect{5, 5, 10, 10} // Пересекается
	r3 := Rect{20, 20, 5, 5} // Не пересекается
	r4 := Rect{12, 0, 4, 4}  // Рядом, но через клетку

	if !r1.Intersects(r2) {
		t.Error("Rects should intersect")
	}
	if r1.Intersects(r3) {
		t.Error("Rects should NOT intersect")
	}
	if r4.Intersects(r1.Inflate(1)) {
		t.Error("Rects one stone apart should NOT intersect")
	}
}

func TestNameOf(t *testing.T) {
	tests := []struct {
		ch   byte
		want string
	}{
		{'$', "gold piece"},
		{'o', "goblin"},
		{'T', "troll"},
		{'~', "thing"},
	}
	for _, tt := range tests {
		if got := NameOf(tt.ch); got != tt.want {
			t.Errorf("NameOf(%q) = %q, want %q", tt.ch, got, tt.want)
		}
	}
}
