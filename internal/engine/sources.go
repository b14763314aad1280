package engine

import "cognitive-mapview/internal/domain"

// Запросы к симуляции, которые ядро делает само (внешний коллаборатор).

// TerrainSource отвечает, какой терраин на самом деле лежит под игроком.
type TerrainSource interface {
	TerrainUnderPlayer() (ch byte, hint domain.TerrainHint, ok bool)
}

// EnvironmentSource отдает текущий тег окружения/темы. Ядро его не интерпретирует.
type EnvironmentSource interface {
	Environment() int
}

// LevelInfoSource отдает нативную запись опроса уровня (api.LevelInfoRecord).
// Это запасной путь, которым приходит глубина подземелья.
type LevelInfoSource interface {
	LevelInfo() ([]byte, error)
}

// Option настраивает Consumer и Session.
type Option func(*options)

type options struct {
	terrain   TerrainSource
	env       EnvironmentSource
	levelInfo LevelInfoSource
}

func WithTerrainSource(src TerrainSource) Option {
	return func(o *options) { o.terrain = src }
}

func WithEnvironmentSource(src EnvironmentSource) Option {
	return func(o *options) { o.env = src }
}

func WithLevelInfoSource(src LevelInfoSource) Option {
	return func(o *options) { o.levelInfo = src }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
