package domain

import (
	"cognitive-mapview/internal/core/coords"
	"errors"
	"testing"
)

func floorAt(x, y int) Tile {
	return NewTile(coords.Point{X: x, Y: y}, 2378, '.', 0, 0, 0)
}

func TestMapState_SetTileOutOfBounds(t *testing.T) {
	s := NewMapState(5, 5, 3)

	for _, tile := range []Tile{floorAt(-1, 0), floorAt(5, 0), floorAt(0, 5), floorAt(0, -1)} {
		if err := s.SetTile(tile); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("SetTile(%s) expected ErrOutOfBounds, got %v", tile, err)
		}
	}
	// Соседние клетки не задеты
	s.ForEachCell(func(p coords.Point) {
		if _, ok := s.TileAt(p); ok {
			t.Errorf("cell %s unexpectedly filled", p)
		}
	})
}

func TestMapState_SetTileRefreshesRememberedWhenVisible(t *testing.T) {
	s := NewMapState(5, 5, 3)
	p := coords.Point{X: 2, Y: 2}

	// Невидимая клетка: память не трогаем
	if err := s.SetTile(floorAt(2, 2)); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.RememberedAt(p); ok {
		t.Error("remembered cache must not be filled for a non-visible cell")
	}

	_ = s.SetVisibility(p, VisibilityVisible)
	door := NewTile(p, 2370, '+', 0, 0, 0)
	if err := s.SetTile(door); err != nil {
		t.Fatal(err)
	}
	got, ok := s.RememberedAt(p)
	if !ok || got.Category != CategoryDoorClosed {
		t.Errorf("remembered = %v (%v), want closed door", got, ok)
	}
}

func TestMapState_MarkSensed(t *testing.T) {
	s := NewMapState(5, 5, 3)
	p := coords.Point{X: 1, Y: 1}

	_ = s.MarkSensed(p, false)
	if got := s.VisibilityAt(p); got != VisibilityDetected {
		t.Errorf("got %s, want detected", got)
	}
	_ = s.MarkSensed(p, true)
	if got := s.VisibilityAt(p); got != VisibilityDark {
		t.Errorf("got %s, want dark", got)
	}

	_ = s.SetVisibility(p, VisibilityVisible)
	_ = s.MarkSensed(p, false)
	if got := s.VisibilityAt(p); got != VisibilityVisible {
		t.Errorf("sensing must not downgrade visible, got %s", got)
	}
}

func TestMapState_SetLightClamps(t *testing.T) {
	s := NewMapState(3, 3, 1)
	p := coords.Point{X: 0, Y: 0}

	_ = s.SetLight(p, 1.5)
	if s.LightAt(p) != 1 {
		t.Errorf("light = %v, want 1", s.LightAt(p))
	}
	_ = s.SetLight(p, -0.2)
	if s.LightAt(p) != 0 {
		t.Errorf("light = %v, want 0", s.LightAt(p))
	}
}

// Проверяем сброс по всем клеткам, а не выборочно
func TestMapState_ResetIsComplete(t *testing.T) {
	s := NewMapState(12, 7, 4)

	s.ForEachCell(func(p coords.Point) {
		_ = s.SetVisibility(p, VisibilityVisible)
		_ = s.SetTile(floorAt(p.X, p.Y))
		_ = s.SetLight(p, 0.7)
	})
	_ = s.SetPlayer(coords.Point{X: 3, Y: 3})
	if err := s.SetUnderlyingTerrain('>'); err != nil {
		t.Fatal(err)
	}

	s.Reset(42)

	s.ForEachCell(func(p coords.Point) {
		if v := s.VisibilityAt(p); v != VisibilityUnexplored {
			t.Fatalf("cell %s visibility = %s after reset", p, v)
		}
		if _, ok := s.TileAt(p); ok {
			t.Fatalf("cell %s still has a tile after reset", p)
		}
		if _, ok := s.RememberedAt(p); ok {
			t.Fatalf("cell %s still remembered after reset", p)
		}
		if l := s.LightAt(p); l != 0 {
			t.Fatalf("cell %s light = %v after reset", p, l)
		}
	})
	if _, ok := s.TileUnderPlayer(); ok {
		t.Error("underlying tile must be cleared by reset")
	}
	if _, ok := s.Player(); ok {
		t.Error("player position must be cleared by reset")
	}
	if s.Environment != 42 {
		t.Errorf("environment = %d, want 42", s.Environment)
	}
	if s.Level != 1 {
		t.Errorf("level counter = %d, want 1", s.Level)
	}
}
