package domain

import "strings"

// EventType - Внутренний числовой идентификатор события очереди отрисовки
type EventType uint8

// Event types constants
const (
	EventUnknown EventType = iota
	EventGlyph
	EventMessage
	EventStatus
	EventClearMap
	EventTurnComplete
	EventFlush
)

// Маппинг для конвертации String -> Domain
var eventStringToType = map[string]EventType{
	"GLYPH":         EventGlyph,
	"MESSAGE":       EventMessage,
	"STATUS":        EventStatus,
	"CLEAR_MAP":     EventClearMap,
	"TURN_COMPLETE": EventTurnComplete,
	"FLUSH":         EventFlush,
}

// Маппинг для логов Domain -> String
var eventTypeToString = map[EventType]string{
	EventGlyph:        "GLYPH",
	EventMessage:      "MESSAGE",
	EventStatus:       "STATUS",
	EventClearMap:     "CLEAR_MAP",
	EventTurnComplete: "TURN_COMPLETE",
	EventFlush:        "FLUSH",
}

// ParseEvent конвертирует строку в EventType
func ParseEvent(s string) EventType {
	// Делаем нечувствительным к регистру для надежности
	if val, ok := eventStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return EventUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (e EventType) String() string {
	if val, ok := eventTypeToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}

// GlyphUpdate - содержимое события "в клетке теперь этот глиф".
// Col/Row в адресации событий отрисовки, переводятся только через coords.Converter.FromEvent.
type GlyphUpdate struct {
	Col   int
	Row   int
	Glyph int
	Char  byte
	Fg    uint8 // индекс палитры
	Bg    uint8
	Flags Flags
}

// Payload - нативный буфер события (текст сообщения, запись статуса).
// Потребитель копирует данные и вызывает Release ровно один раз на событие.
type Payload interface {
	Bytes() []byte
	Release()
}

// Event - одно событие очереди отрисовки.
type Event struct {
	Type    EventType
	Glyph   GlyphUpdate // для EventGlyph
	Payload Payload     // для EventMessage и EventStatus
}

// Конструкторы для продюсеров и тестов

func GlyphEvent(u GlyphUpdate) Event {
	return Event{Type: EventGlyph, Glyph: u}
}

func MessageEvent(p Payload) Event {
	return Event{Type: EventMessage, Payload: p}
}

func StatusEvent(p Payload) Event {
	return Event{Type: EventStatus, Payload: p}
}

func ControlEvent(t EventType) Event {
	return Event{Type: t}
}
