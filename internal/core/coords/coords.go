package coords

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds возвращается, если координата не попадает в адресуемую область сетки.
// Значение никогда не "прижимается" к краю и не заворачивается.
var ErrOutOfBounds = errors.New("coordinates out of bounds")

// Соглашения об адресации симуляции.
//
//	Native:  x ∈ [1, Width], y ∈ [0, Height)  (колонка 0 у симуляции не используется)
//	Event:   col = native x, row = native y + 1 (строка 0 экрана занята строкой сообщений)
//	Storage: x ∈ [0, Width), y ∈ [0, Height)
//
// Это единственное место, где разрешена арифметика между пространствами.
const (
	nativeColumnOffset = 1
	eventRowOffset     = 1
)

// Converter переводит координаты между пространством симуляции и индексами сетки.
// Value-type без состояния: все методы чистые.
type Converter struct {
	Width  int
	Height int
}

// New создает конвертер для сетки width x height.
func New(width, height int) Converter {
	return Converter{Width: width, Height: height}
}

// InBounds проверяет, что точка хранения лежит в [0,Width)x[0,Height).
func (c Converter) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < c.Width && p.Y < c.Height
}

// ToStorage переводит native-координаты в индексы сетки.
func (c Converter) ToStorage(nx, ny int) (Point, error) {
	p := Point{X: nx - nativeColumnOffset, Y: ny}
	if !c.InBounds(p) {
		return Point{}, fmt.Errorf("native (%d,%d): %w", nx, ny, ErrOutOfBounds)
	}
	return p, nil
}

// ToNative - обратное преобразование к ToStorage.
func (c Converter) ToNative(p Point) (int, int, error) {
	if !c.InBounds(p) {
		return 0, 0, fmt.Errorf("storage %s: %w", p, ErrOutOfBounds)
	}
	return p.X + nativeColumnOffset, p.Y, nil
}

// FromEvent принимает адресацию, в которой приходят события отрисовки (glyph update).
// Она отличается от native сдвигом строки, поэтому живет в отдельной функции.
func (c Converter) FromEvent(col, row int) (Point, error) {
	p := Point{X: col - nativeColumnOffset, Y: row - eventRowOffset}
	if !c.InBounds(p) {
		return Point{}, fmt.Errorf("event (%d,%d): %w", col, row, ErrOutOfBounds)
	}
	return p, nil
}

// ToEvent кодирует точку хранения в адресацию событий отрисовки.
// Нужен продюсерам (сценарная симуляция, тестовые клиенты фида).
func (c Converter) ToEvent(p Point) (int, int, error) {
	if !c.InBounds(p) {
		return 0, 0, fmt.Errorf("storage %s: %w", p, ErrOutOfBounds)
	}
	return p.X + nativeColumnOffset, p.Y + eventRowOffset, nil
}
