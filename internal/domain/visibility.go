package domain

// Visibility - состояние видимости клетки.
// Нулевое значение - Unexplored, поэтому свежая сетка сразу "не исследована".
type Visibility uint8

const (
	VisibilityUnexplored Visibility = iota // Никогда не наблюдалась
	VisibilityRemembered                   // Видели раньше, сейчас вне обзора
	VisibilityVisible                      // В прямой видимости
	VisibilityDetected                     // Известна не зрением (телепатия и т.п.)
	VisibilityDark                         // Известна не зрением, в темноте
)

var visibilityToString = map[Visibility]string{
	VisibilityUnexplored: "unexplored",
	VisibilityRemembered: "remembered",
	VisibilityVisible:    "visible",
	VisibilityDetected:   "detected",
	VisibilityDark:       "dark",
}

func (v Visibility) String() string {
	if s, ok := visibilityToString[v]; ok {
		return s
	}
	return "unknown"
}

func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// IsKnown - клетка хоть как-то известна игроку.
func (v Visibility) IsKnown() bool {
	return v != VisibilityUnexplored
}
