package agent

import "cognitive-mapview/pkg/dungeon"

// Config - параметры сценарной симуляции
type Config struct {
	Width  int
	Height int
	Title  string
}

func NewConfig() Config {
	return Config{
		Width:  dungeon.DefaultWidth,
		Height: dungeon.DefaultHeight,
		Title:  "Agent",
	}
}
