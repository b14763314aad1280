package systems

import (
	"cognitive-mapview/internal/core/coords"
	"cognitive-mapview/internal/domain"
)

// HasLineOfSight проверяет прямую видимость от from до to лучом Брезенхэма.
// Луч перекрывает любая ПРОМЕЖУТОЧНАЯ клетка-стена или закрытая дверь.
// Концы луча не блокируют: стену, за которую не видно, саму видно.
func HasLineOfSight(state *domain.MapState, from, to coords.Point) bool {
	visible := true
	bresenham(from, to, func(p coords.Point) bool {
		if p == from || p == to {
			return true
		}
		if isBlocking(state, p) {
			visible = false
			return false
		}
		return true
	})
	return visible
}

// bresenham обходит клетки отрезка от a до b включительно.
// visit возвращает false, чтобы прервать обход.
func bresenham(a, b coords.Point, visit func(p coords.Point) bool) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx := sign(b.X - a.X)
	sy := sign(b.Y - a.Y)
	errAcc := dx + dy

	x, y := a.X, a.Y
	for {
		if !visit(coords.Point{X: x, Y: y}) {
			return
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			x += sx
		}
		if e2 <= dx {
			errAcc += dx
			y += sy
		}
	}
}

// isBlocking проверяет, блокирует ли клетка взгляд.
// Клетка, про которую симуляция ничего не присылала, считается прозрачной.
func isBlocking(state *domain.MapState, p coords.Point) bool {
	// Выход за границы считается блокирующим
	if !state.InBounds(p) {
		return true
	}
	t, ok := state.TileAt(p)
	return ok && t.Category.BlocksSight()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
