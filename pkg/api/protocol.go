package api

// --- ЯДРО -> ПРЕЗЕНТАЦИЯ ---

// Типы кадров MapView
const (
	ViewTypeUpdate = "UPDATE"
	ViewTypeReset  = "RESET"
)

// MapView это корневой объект, который получает презентация.
// Это КОПИЯ состояния карты после очередного drain: презентация читает её
// и никогда не трогает MapState напрямую.
type MapView struct {
	// Type - "UPDATE" или "RESET" (пачка содержала очистку карты).
	Type string `json:"type"`

	// Sequence растет с каждым опубликованным кадром.
	Sequence uint64 `json:"seq"`

	// Level счетчик сбросов карты; Environment - непрозрачный тег окружения.
	Level       int `json:"level"`
	Environment int `json:"environment"`

	Grid GridMeta `json:"grid"`

	// Player позиция игрока в координатах хранения, если известна.
	Player *PointView `json:"player,omitempty"`

	// Under - терраин под игроком; UnderActionable - с ним можно взаимодействовать.
	Under           *TileView `json:"under,omitempty"`
	UnderActionable bool      `json:"underActionable"`

	// Map - только исследованные клетки (видимые, запомненные, обнаруженные).
	Map []TileView `json:"map,omitempty"`

	Status *StatusView `json:"status,omitempty"`

	// Logs - сообщения, пришедшие с прошлого кадра.
	Logs []LogEntry `json:"logs,omitempty"`

	// Doors и Enemies - из последнего опроса уровня (координаты хранения).
	Doors   []PointView `json:"doors,omitempty"`
	Enemies []PointView `json:"enemies,omitempty"`
}

// GridMeta содержит общие размеры карты
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

type PointView struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// TileView это DTO для одной клетки карты.
type TileView struct {
	X int `json:"x"`
	Y int `json:"y"`

	Glyph  int    `json:"glyph"`
	Symbol string `json:"symbol"`
	Color  string `json:"color"`
	Bg     string `json:"bg,omitempty"`

	Category string `json:"category"`

	// Visibility: visible, remembered, detected, dark.
	Visibility string `json:"visibility"`

	// Light 0.0-1.0, яркость для отрисовки.
	Light float64 `json:"light"`

	// FromMemory true, если показан запомненный тайл, а не текущий.
	FromMemory bool `json:"fromMemory,omitempty"`

	Pet      bool `json:"pet,omitempty"`
	Ridden   bool `json:"ridden,omitempty"`
	Detected bool `json:"detected,omitempty"`
}

// StatusView это DTO строки статуса.
type StatusView struct {
	Title      string   `json:"title,omitempty"`
	HP         int      `json:"hp"`
	HPMax      int      `json:"hpMax"`
	Power      int      `json:"power"`
	PowerMax   int      `json:"powerMax"`
	XPLevel    int      `json:"xpLevel"`
	Experience int      `json:"experience"`
	ArmorClass int      `json:"ac"`
	Str        int      `json:"str"`
	Dex        int      `json:"dex"`
	Con        int      `json:"con"`
	Int        int      `json:"int"`
	Wis        int      `json:"wis"`
	Cha        int      `json:"cha"`
	Gold       int      `json:"gold"`
	Moves      int      `json:"moves"`
	Alignment  string   `json:"alignment"`
	Hunger     string   `json:"hunger,omitempty"`
	Conditions []string `json:"conditions,omitempty"`

	// Depth может быть устаревшим: событие статуса глубину не несет.
	Depth      int  `json:"depth"`
	DepthKnown bool `json:"depthKnown"`
}

// LogEntry представляет одну запись в журнале сообщений.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // MESSAGE, SYSTEM
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}
