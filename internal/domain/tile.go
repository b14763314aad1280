package domain

import (
	"cognitive-mapview/internal/core/coords"
	"cognitive-mapview/internal/core/types"
	"fmt"
)

// Flags - битовый набор особых признаков глифа.
type Flags uint8

const (
	FlagPet      Flags = 1 << iota // Несет союзник (питомец)
	FlagRidden                     // Игрок едет верхом
	FlagDetected                   // Обнаружено магически, не зрением
	FlagDark                       // Известно не зрением, клетка в темноте
)

// Sensed - глиф пришел не от зрения (Detected или Dark).
func (f Flags) Sensed() bool { return f&(FlagDetected|FlagDark) != 0 }

func (f Flags) Has(flag Flags) bool { return f&flag != 0 }

// Tile описывает одну клетку подземелья.
// Тайлы неизменяемы: клетка "обновляется" заменой тайла целиком.
type Tile struct {
	X        int         `json:"x"`
	Y        int         `json:"y"`
	Glyph    int         `json:"glyph"` // Числовой ID глифа от симуляции
	Char     byte        `json:"char"`
	Fg       types.Color `json:"fg"`
	Bg       types.Color `json:"bg"`
	Category Category    `json:"category"`
	Flags    Flags       `json:"flags,omitempty"`
}

// NewTile классифицирует символ и собирает тайл в точке хранения p.
func NewTile(p coords.Point, glyph int, ch byte, fg, bg types.Color, flags Flags) Tile {
	return Tile{
		X:        p.X,
		Y:        p.Y,
		Glyph:    glyph,
		Char:     ch,
		Fg:       fg,
		Bg:       bg,
		Category: Classify(ch),
		Flags:    flags,
	}
}

// Pos возвращает координаты хранения тайла.
func (t Tile) Pos() coords.Point {
	return coords.Point{X: t.X, Y: t.Y}
}

// Equal сравнивает по (x, y, glyph); цвета и флаги не участвуют.
func (t Tile) Equal(other Tile) bool {
	return t.X == other.X && t.Y == other.Y && t.Glyph == other.Glyph
}

func (t Tile) String() string {
	return fmt.Sprintf("Tile{%d,%d glyph=%d char=%q %s}", t.X, t.Y, t.Glyph, t.Char, t.Category)
}
