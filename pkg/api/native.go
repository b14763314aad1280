package api

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformedPayload - нативный payload не удалось разобрать.
var ErrMalformedPayload = errors.New("malformed payload")

// DecodeCString достает текст, завершенный NUL. Без терминатора буфер считается битым:
// длине, которую сообщает продюсер, не доверяем.
func DecodeCString(buf []byte) (string, error) {
	end := bytes.IndexByte(buf, 0)
	if end < 0 {
		return "", fmt.Errorf("missing NUL terminator in %d bytes: %w", len(buf), ErrMalformedPayload)
	}
	return string(buf[:end]), nil
}

// EncodeCString - обратная операция для продюсеров.
func EncodeCString(s string) []byte {
	out := make([]byte, len(s)+1)
	copy(out, s)
	return out
}

// TitleLen - емкость фиксированного буфера титула в записи статуса.
const TitleLen = 32

// StatusRecord - точное представление записи статуса в памяти симуляции (little-endian).
// Глубины подземелья здесь НЕТ: это известный пробел протокола.
type StatusRecord struct {
	HP         int32
	HPMax      int32
	Power      int32
	PowerMax   int32
	XPLevel    int32
	Experience int32
	ArmorClass int32
	Str        int32
	Dex        int32
	Con        int32
	Int        int32
	Wis        int32
	Cha        int32
	Gold       int32
	Moves      int32
	Alignment  int32
	Hunger     int32
	Conditions uint32
	Title      [TitleLen]byte // NUL-terminated
}

// StatusRecordSize - размер записи в байтах.
var StatusRecordSize = binary.Size(StatusRecord{})

// DecodeStatus разбирает запись статуса.
func DecodeStatus(buf []byte) (StatusRecord, error) {
	var rec StatusRecord
	if len(buf) != StatusRecordSize {
		return rec, fmt.Errorf("status record is %d bytes, want %d: %w", len(buf), StatusRecordSize, ErrMalformedPayload)
	}
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &rec); err != nil {
		return rec, fmt.Errorf("failed to read status record: %v: %w", err, ErrMalformedPayload)
	}
	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}

// TitleString - титул из фиксированного буфера.
func (r StatusRecord) TitleString() string {
	s, _ := DecodeCString(r.Title[:])
	return s
}

// SetTitle копирует строку в фиксированный буфер, обрезая до TitleLen-1 байт.
func (r *StatusRecord) SetTitle(s string) {
	r.Title = [TitleLen]byte{}
	copy(r.Title[:TitleLen-1], s)
}

// EncodeStatus сериализует запись для продюсеров (сценарная симуляция, тесты).
func EncodeStatus(rec StatusRecord) []byte {
	var buf bytes.Buffer
	// Запись в bytes.Buffer фиксированной структуры не падает
	_ = binary.Write(&buf, binary.LittleEndian, &rec)
	return buf.Bytes()
}

// Емкости фиксированных списков в записи уровня.
const (
	MaxDoors   = 32
	MaxEnemies = 64
)

// NativePoint - координата в native-адресации симуляции.
type NativePoint struct {
	X int16
	Y int16
}

// LevelInfoRecord - ответ опроса уровня: глубина и фиксированные списки дверей и врагов.
// Реально заполнено только DoorCount/EnemyCount элементов.
type LevelInfoRecord struct {
	Depth      int32
	DoorCount  uint8
	EnemyCount uint8
	_          [2]byte
	Doors      [MaxDoors]NativePoint
	Enemies    [MaxEnemies]NativePoint
}

var LevelInfoRecordSize = binary.Size(LevelInfoRecord{})

// LevelInfo - разобранная запись уровня: ограниченные последовательности вместо массивов.
type LevelInfo struct {
	Depth   int
	Doors   []NativePoint // не длиннее MaxDoors
	Enemies []NativePoint // не длиннее MaxEnemies
}

// DecodeLevelInfo разбирает ответ опроса уровня.
// Счетчики сверяются с емкостью массивов ДО копирования.
func DecodeLevelInfo(buf []byte) (LevelInfo, error) {
	var rec LevelInfoRecord
	if len(buf) != LevelInfoRecordSize {
		return LevelInfo{}, fmt.Errorf("level info is %d bytes, want %d: %w", len(buf), LevelInfoRecordSize, ErrMalformedPayload)
	}
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &rec); err != nil {
		return LevelInfo{}, fmt.Errorf("failed to read level info: %v: %w", err, ErrMalformedPayload)
	}
	if err := rec.Validate(); err != nil {
		return LevelInfo{}, err
	}

	info := LevelInfo{
		Depth:   int(rec.Depth),
		Doors:   make([]NativePoint, rec.DoorCount),
		Enemies: make([]NativePoint, rec.EnemyCount),
	}
	copy(info.Doors, rec.Doors[:rec.DoorCount])
	copy(info.Enemies, rec.Enemies[:rec.EnemyCount])
	return info, nil
}

// EncodeLevelInfo упаковывает LevelInfo в фиксированную запись.
func EncodeLevelInfo(info LevelInfo) ([]byte, error) {
	if len(info.Doors) > MaxDoors {
		return nil, fmt.Errorf("too many doors: %d > %d", len(info.Doors), MaxDoors)
	}
	if len(info.Enemies) > MaxEnemies {
		return nil, fmt.Errorf("too many enemies: %d > %d", len(info.Enemies), MaxEnemies)
	}

	rec := LevelInfoRecord{
		Depth:      int32(info.Depth),
		DoorCount:  uint8(len(info.Doors)),
		EnemyCount: uint8(len(info.Enemies)),
	}
	copy(rec.Doors[:], info.Doors)
	copy(rec.Enemies[:], info.Enemies)

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
