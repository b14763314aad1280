package engine

import (
	"cognitive-mapview/internal/domain"
	"time"
)

// Config хранит параметры ядра синхронизации карты
type Config struct {
	// Размер сетки хранения (колонки x строки).
	Width  int
	Height int

	// SightRadius - радиус обзора в клетках (манхэттенское расстояние).
	SightRadius int

	// MessageLogLimit - максимальная длина журнала сообщений; старые вытесняются.
	MessageLogLimit int

	// PollInterval - как часто опрашивать уровень (глубина, двери, враги).
	// 0 - только после смены уровня.
	PollInterval time.Duration
}

// NewConfig создает конфиг по умолчанию
func NewConfig() Config {
	return Config{
		Width:           domain.DefaultWidth,
		Height:          domain.DefaultHeight,
		SightRadius:     domain.DefaultSightRadius,
		MessageLogLimit: 200,
		PollInterval:    0,
	}
}
