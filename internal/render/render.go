// Package render переводит кадры карты в текст для отладки и терминала.
// Это вспомогательный слой презентации: ядро от него не зависит.
package render

import (
	"cognitive-mapview/internal/domain"
	"cognitive-mapview/pkg/api"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var icons = map[domain.Category]rune{
	domain.CategoryFloor:      '·',
	domain.CategoryWall:       '█',
	domain.CategoryDoorOpen:   '▯',
	domain.CategoryDoorClosed: '▮',
	domain.CategoryCorridor:   '░',
	domain.CategoryStairs:     '≡',
	domain.CategoryWater:      '≈',
	domain.CategoryLava:       '≈',
	domain.CategoryAltar:      '┬',
	domain.CategoryFountain:   '⌠',
	domain.CategoryThrone:     '♔',
	domain.CategorySink:       '○',
	domain.CategoryTrap:       '^',
	domain.CategoryPlayer:     '@',
	domain.CategoryGold:       '$',
	domain.CategoryBoulder:    '●',
}

var colors = map[domain.Category]lipgloss.Color{
	domain.CategoryFloor:      lipgloss.Color("240"),
	domain.CategoryWall:       lipgloss.Color("250"),
	domain.CategoryDoorOpen:   lipgloss.Color("130"),
	domain.CategoryDoorClosed: lipgloss.Color("130"),
	domain.CategoryCorridor:   lipgloss.Color("242"),
	domain.CategoryStairs:     lipgloss.Color("15"),
	domain.CategoryWater:      lipgloss.Color("27"),
	domain.CategoryLava:       lipgloss.Color("196"),
	domain.CategoryAltar:      lipgloss.Color("252"),
	domain.CategoryFountain:   lipgloss.Color("39"),
	domain.CategoryThrone:     lipgloss.Color("220"),
	domain.CategorySink:       lipgloss.Color("246"),
	domain.CategoryTrap:       lipgloss.Color("160"),
	domain.CategoryPlayer:     lipgloss.Color("15"),
	domain.CategoryGold:       lipgloss.Color("220"),
}

// Icon - символ для отрисовки категории. Для монстров и предметов без своей
// иконки вызывающий показывает исходный символ симуляции (ok=false).
func Icon(c domain.Category) (rune, bool) {
	r, ok := icons[c]
	return r, ok
}

// Style - стиль категории. Неизвестные категории рисуются цветом из самого тайла.
func Style(c domain.Category) lipgloss.Style {
	style := lipgloss.NewStyle()
	if col, ok := colors[c]; ok {
		style = style.Foreground(col)
	}
	if c == domain.CategoryPlayer {
		style = style.Bold(true)
	}
	return style
}

// ASCII рисует кадр построчно: сетка Width x Height, неизвестные клетки - пробел.
// colored=false дает чистые символы симуляции (удобно для тестов и логов).
func ASCII(view api.MapView, colored bool) string {
	w, h := view.Grid.Width, view.Grid.Height
	if w <= 0 || h <= 0 {
		return ""
	}

	cells := make([]string, w*h)
	for i := range cells {
		cells[i] = " "
	}

	for _, tv := range view.Map {
		if tv.X < 0 || tv.Y < 0 || tv.X >= w || tv.Y >= h {
			continue
		}
		cells[tv.Y*w+tv.X] = cell(tv, colored)
	}

	var sb strings.Builder
	sb.WriteString(statusLine(view))
	sb.WriteRune('\n')
	for y := 0; y < h; y++ {
		sb.WriteString(strings.TrimRight(strings.Join(cells[y*w:(y+1)*w], ""), " "))
		sb.WriteRune('\n')
	}
	return sb.String()
}

func cell(tv api.TileView, colored bool) string {
	if !colored {
		return tv.Symbol
	}

	cat := domain.ParseCategory(tv.Category)
	glyph := tv.Symbol
	if r, ok := Icon(cat); ok {
		glyph = string(r)
	}

	style := Style(cat)
	if _, ok := colors[cat]; !ok && tv.Color != "" {
		style = style.Foreground(lipgloss.Color(tv.Color))
	}
	if tv.Visibility != domain.VisibilityVisible.String() {
		// Запомненные и "почувствованные" клетки приглушены
		style = style.Faint(true)
	}
	if tv.Pet {
		style = style.Underline(true)
	}
	return style.Render(glyph)
}

func statusLine(view api.MapView) string {
	if view.Status == nil {
		return fmt.Sprintf("level %d", view.Level)
	}
	s := view.Status
	depth := "?"
	if s.DepthKnown {
		depth = fmt.Sprint(s.Depth)
	}
	line := fmt.Sprintf("%s  Dlvl:%s HP:%d(%d) Pw:%d(%d) AC:%d Xp:%d $:%d T:%d",
		s.Title, depth, s.HP, s.HPMax, s.Power, s.PowerMax, s.ArmorClass, s.XPLevel, s.Gold, s.Moves)
	if len(s.Conditions) > 0 {
		line += " " + strings.Join(s.Conditions, " ")
	}
	if s.Hunger != "" {
		line += " " + s.Hunger
	}
	return strings.TrimSpace(line)
}
