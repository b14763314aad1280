package coords

import "fmt"

// Point - координата в пространстве хранения (индексы сетки с нуля).
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// ManhattanTo возвращает манхэттенское расстояние до другой точки.
// Им отсекается радиус обзора.
func (p Point) ManhattanTo(other Point) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
