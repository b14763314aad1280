package domain

import (
	"cognitive-mapview/internal/core/types"
	"errors"
	"fmt"
)

var (
	ErrNoPlayer   = errors.New("player position unknown")
	ErrNotTerrain = errors.New("character is not terrain")
)

// SetUnderlyingTerrain запоминает настоящий терраин под игроком.
// Поток глифов всегда показывает в этой клетке самого игрока, поэтому данные
// приходят боковым каналом и хранятся вне основной сетки.
func (s *MapState) SetUnderlyingTerrain(ch byte) error {
	return s.SetUnderlyingTerrainHint(ch, HintNone)
}

// SetUnderlyingTerrainHint - то же, с подсказкой для неоднозначных символов.
// Кешируется только терраин: предмет или монстр "под игроком" очищает слот.
func (s *MapState) SetUnderlyingTerrainHint(ch byte, hint TerrainHint) error {
	if !s.hasPlayer {
		return ErrNoPlayer
	}

	cat := ClassifyTerrain(ch, hint)
	if !cat.IsTerrain() {
		s.underlying = nil
		return fmt.Errorf("%q (%s): %w", ch, cat, ErrNotTerrain)
	}

	t := Tile{
		X:        s.player.X,
		Y:        s.player.Y,
		Glyph:    -1, // у бокового канала нет ID глифа
		Char:     ch,
		Fg:       types.PaletteColor(types.ColorGray),
		Bg:       types.PaletteColor(types.ColorBlack),
		Category: cat,
	}
	s.underlying = &t
	return nil
}

// TileUnderPlayer возвращает сохраненный терраин под игроком.
func (s *MapState) TileUnderPlayer() (Tile, bool) {
	if s.underlying == nil {
		return Tile{}, false
	}
	return *s.underlying, true
}

// HasActionableTileUnderPlayer - под игроком лестница, фонтан, раковина, алтарь или трон.
// Слот хранит только терраин, поэтому предметы под игроком здесь не обнаруживаются.
func (s *MapState) HasActionableTileUnderPlayer() bool {
	return s.underlying != nil && s.underlying.Category.IsActionable()
}

// ClearUnderlyingTerrain инвалидирует слот (например, игрок исчез с карты).
func (s *MapState) ClearUnderlyingTerrain() {
	s.underlying = nil
}
