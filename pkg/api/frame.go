package api

import (
	"bytes"
	"cognitive-mapview/internal/domain"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Формат кадра фида (бинарное WebSocket-сообщение или кадр записи .cdev):
//
//	[ type u8 | len u16 | payload (len байт) ] * N
//
// Глиф - фиксированная GlyphRecord, сообщение - текст с NUL, статус - StatusRecord,
// управляющие события идут с нулевой длиной.

// RecordHeader - заголовок каждой записи кадра.
type RecordHeader struct {
	Type uint8
	Len  uint16
}

// GlyphRecord - нативное событие отрисовки глифа (адресация событий: col/row).
type GlyphRecord struct {
	Col   int16
	Row   int16
	Glyph int32
	Char  uint8
	Fg    uint8
	Bg    uint8
	Flags uint8
}

var GlyphRecordSize = binary.Size(GlyphRecord{})

// MaxRecordLen - ограничение длины одной записи (u16).
const MaxRecordLen = 1<<16 - 1

// FrameWriter накапливает записи одного кадра.
type FrameWriter struct {
	buf bytes.Buffer
	err error
}

func (w *FrameWriter) write(t domain.EventType, payload []byte) {
	if w.err != nil {
		return
	}
	if len(payload) > MaxRecordLen {
		w.err = fmt.Errorf("record %s too long: %d", t, len(payload))
		return
	}
	hdr := RecordHeader{Type: uint8(t), Len: uint16(len(payload))}
	_ = binary.Write(&w.buf, binary.LittleEndian, &hdr)
	w.buf.Write(payload)
}

// Glyph дописывает событие глифа.
func (w *FrameWriter) Glyph(u domain.GlyphUpdate) {
	rec := GlyphRecord{
		Col:   int16(u.Col),
		Row:   int16(u.Row),
		Glyph: int32(u.Glyph),
		Char:  u.Char,
		Fg:    u.Fg,
		Bg:    u.Bg,
		Flags: uint8(u.Flags),
	}
	var b bytes.Buffer
	_ = binary.Write(&b, binary.LittleEndian, &rec)
	w.write(domain.EventGlyph, b.Bytes())
}

// Message дописывает сообщение (с NUL-терминатором).
func (w *FrameWriter) Message(text string) {
	w.write(domain.EventMessage, EncodeCString(text))
}

// RawMessage дописывает сырые байты сообщения как есть (в т.ч. битые).
func (w *FrameWriter) RawMessage(raw []byte) {
	w.write(domain.EventMessage, raw)
}

// Status дописывает запись статуса.
func (w *FrameWriter) Status(rec StatusRecord) {
	w.write(domain.EventStatus, EncodeStatus(rec))
}

// Control дописывает управляющее событие без payload.
func (w *FrameWriter) Control(t domain.EventType) {
	w.write(t, nil)
}

// Bytes возвращает кадр или первую ошибку записи.
func (w *FrameWriter) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

// DecodeFrame разбирает кадр в события в порядке следования.
// Битая запись глифа пропускается (длина записи известна), разбор идет дальше;
// ошибки таких записей собираются в одну. Обрезанный заголовок или тело
// останавливает разбор: возвращаются уже разобранные события.
// Содержимое сообщений и статусов здесь не проверяется: это делает потребитель при drain.
func DecodeFrame(frame []byte) ([]domain.Event, error) {
	r := bytes.NewReader(frame)
	var events []domain.Event
	var skipped []error

	for idx := 0; r.Len() > 0; idx++ {
		var hdr RecordHeader
		if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
			skipped = append(skipped, fmt.Errorf("record %d header: %v: %w", idx, err, ErrMalformedPayload))
			return events, errors.Join(skipped...)
		}
		body := make([]byte, hdr.Len)
		if _, err := io.ReadFull(r, body); err != nil {
			skipped = append(skipped, fmt.Errorf("record %d body (%d bytes): %v: %w", idx, hdr.Len, err, ErrMalformedPayload))
			return events, errors.Join(skipped...)
		}

		t := domain.EventType(hdr.Type)
		switch t {
		case domain.EventGlyph:
			u, err := decodeGlyph(body)
			if err != nil {
				skipped = append(skipped, fmt.Errorf("record %d: %w", idx, err))
				continue
			}
			events = append(events, domain.GlyphEvent(u))
		case domain.EventMessage, domain.EventStatus:
			events = append(events, domain.Event{Type: t, Payload: NewPayload(body)})
		default:
			// Управляющие и неизвестные события пропускаем дальше: решает потребитель
			events = append(events, domain.ControlEvent(t))
		}
	}
	return events, errors.Join(skipped...)
}

func decodeGlyph(body []byte) (domain.GlyphUpdate, error) {
	if len(body) != GlyphRecordSize {
		return domain.GlyphUpdate{}, fmt.Errorf("glyph record is %d bytes, want %d: %w", len(body), GlyphRecordSize, ErrMalformedPayload)
	}
	var rec GlyphRecord
	if err := binary.Read(bytes.NewReader(body), binary.LittleEndian, &rec); err != nil {
		return domain.GlyphUpdate{}, fmt.Errorf("glyph record: %v: %w", err, ErrMalformedPayload)
	}
	if err := rec.Validate(); err != nil {
		return domain.GlyphUpdate{}, err
	}
	return domain.GlyphUpdate{
		Col:   int(rec.Col),
		Row:   int(rec.Row),
		Glyph: int(rec.Glyph),
		Char:  rec.Char,
		Fg:    rec.Fg,
		Bg:    rec.Bg,
		Flags: domain.Flags(rec.Flags),
	}, nil
}
