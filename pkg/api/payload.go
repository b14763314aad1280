package api

import (
	"sync"
	"sync/atomic"
)

// Буферы нативных payload переиспользуются: события сообщений и статуса приходят каждый ход.
var bufferPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 256)
		return &b
	},
}

// NativePayload - буфер события в нативном формате симуляции.
// Реализует domain.Payload. Буфер возвращается в пул при первом Release;
// повторные вызовы только учитываются (Releases), чтобы тесты ловили двойное освобождение.
type NativePayload struct {
	buf      *[]byte
	releases atomic.Int32
}

// NewPayload копирует data в буфер из пула.
func NewPayload(data []byte) *NativePayload {
	bp := bufferPool.Get().(*[]byte)
	*bp = append((*bp)[:0], data...)
	return &NativePayload{buf: bp}
}

// Bytes возвращает содержимое. После Release - nil.
func (p *NativePayload) Bytes() []byte {
	if p.releases.Load() > 0 {
		return nil
	}
	return *p.buf
}

// Release отдает буфер обратно в пул.
func (p *NativePayload) Release() {
	if p.releases.Add(1) == 1 {
		bufferPool.Put(p.buf)
	}
}

// Releases - сколько раз вызывали Release.
func (p *NativePayload) Releases() int {
	return int(p.releases.Load())
}
