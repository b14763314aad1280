package domain

// Recording - записанная сессия фида: кадры в том виде, в каком они пришли от симуляции.
// Проигрывание прогоняет кадры через тот же декодер и очередь, что и живой фид.
type Recording struct {
	Width     int
	Height    int
	Timestamp int64 // Unix seconds начала записи
	Frames    [][]byte
}

// Append добавляет копию кадра: буфер вызывающего может переиспользоваться.
func (r *Recording) Append(frame []byte) {
	cp := make([]byte, len(frame))
	copy(cp, frame)
	r.Frames = append(r.Frames, cp)
}
