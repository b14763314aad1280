package api

import "fmt"

// Validator - интерфейс, который могут реализовать нативные записи и DTO
type Validator interface {
	Validate() error
}

var (
	_ Validator = LevelInfoRecord{}
	_ Validator = StatusRecord{}
	_ Validator = GlyphRecord{}
)

// Validate сверяет заявленные счетчики с емкостью массивов.
func (r LevelInfoRecord) Validate() error {
	if int(r.DoorCount) > MaxDoors {
		return fmt.Errorf("door count %d exceeds capacity %d: %w", r.DoorCount, MaxDoors, ErrMalformedPayload)
	}
	if int(r.EnemyCount) > MaxEnemies {
		return fmt.Errorf("enemy count %d exceeds capacity %d: %w", r.EnemyCount, MaxEnemies, ErrMalformedPayload)
	}
	return nil
}

// Validate требует NUL в буфере титула и неотрицательные счетчики.
func (r StatusRecord) Validate() error {
	if _, err := DecodeCString(r.Title[:]); err != nil {
		return fmt.Errorf("status title: %w", err)
	}
	if r.HPMax < 0 || r.PowerMax < 0 || r.Moves < 0 {
		return fmt.Errorf("negative maximum in status record: %w", ErrMalformedPayload)
	}
	return nil
}

func (r GlyphRecord) Validate() error {
	if r.Glyph < 0 {
		return fmt.Errorf("negative glyph id %d: %w", r.Glyph, ErrMalformedPayload)
	}
	return nil
}
