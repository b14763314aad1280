package types

import (
	"fmt"
)

// Color представляет упакованный 24-битный RGB-цвет.
//
//	[0:8]   - синий
//	[8:16]  - зеленый
//	[16:24] - красный
//	[24:32] - не используется
type Color uint32

const (
	bitsChannel = 8
	maskChannel = (1 << bitsChannel) - 1 // 0xFF
	maskRGB     = (1 << 24) - 1          // 0xFFFFFF

	shiftRed   = 16
	shiftGreen = 8
)

// RGB собирает Color из трех каналов.
//
// Пример:
//
//	c := RGB(0xFF, 0xA5, 0x00) // 0xFFA500, оранжевый
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<shiftRed | uint32(g)<<shiftGreen | uint32(b))
}

// FromHex обрезает значение до младших 24 бит.
func FromHex(v uint32) Color {
	return Color(v & maskRGB)
}

func (c Color) R() uint8 { return uint8(uint32(c) >> shiftRed & maskChannel) }
func (c Color) G() uint8 { return uint8(uint32(c) >> shiftGreen & maskChannel) }
func (c Color) B() uint8 { return uint8(uint32(c) & maskChannel) }

// Hex возвращает строковое HEX-представление цвета (например, "#00FF00").
func (c Color) Hex() string {
	return fmt.Sprintf("#%06X", uint32(c)&maskRGB)
}

// String реализует fmt.Stringer.
// Формат: "Color{#FFA500}"
func (c Color) String() string {
	return fmt.Sprintf("Color{%s}", c.Hex())
}

// Индексы 16-цветной палитры симуляции (так цвета приходят в glyph update).
const (
	ColorBlack uint8 = iota
	ColorRed
	ColorGreen
	ColorBrown
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorGray
	ColorNone
	ColorOrange
	ColorBrightGreen
	ColorYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorWhite

	PaletteSize = 16
)

var palette = [PaletteSize]Color{
	ColorBlack:         FromHex(0x000000),
	ColorRed:           FromHex(0xAA0000),
	ColorGreen:         FromHex(0x00AA00),
	ColorBrown:         FromHex(0xAA5500),
	ColorBlue:          FromHex(0x0000AA),
	ColorMagenta:       FromHex(0xAA00AA),
	ColorCyan:          FromHex(0x00AAAA),
	ColorGray:          FromHex(0xAAAAAA),
	ColorNone:          FromHex(0xAAAAAA),
	ColorOrange:        FromHex(0xFF8800),
	ColorBrightGreen:   FromHex(0x55FF55),
	ColorYellow:        FromHex(0xFFFF55),
	ColorBrightBlue:    FromHex(0x5555FF),
	ColorBrightMagenta: FromHex(0xFF55FF),
	ColorBrightCyan:    FromHex(0x55FFFF),
	ColorWhite:         FromHex(0xFFFFFF),
}

// PaletteColor переводит индекс палитры в RGB.
// Неизвестный индекс (мусор в payload) дает серый, как ColorNone.
func PaletteColor(idx uint8) Color {
	if int(idx) >= PaletteSize {
		return palette[ColorNone]
	}
	return palette[idx]
}
