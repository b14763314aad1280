package engine

import (
	"cognitive-mapview/internal/domain"
	"time"

	"github.com/google/uuid"
)

// messageLog - журнал сообщений ограниченной длины.
// Старые записи вытесняются; unread - сколько последних записей еще не отдавались презентации.
type messageLog struct {
	limit   int
	entries []domain.LogEntry
	unread  int
}

func newMessageLog(limit int) *messageLog {
	if limit <= 0 {
		limit = 1
	}
	return &messageLog{limit: limit}
}

func (l *messageLog) add(text, logType string) {
	l.entries = append(l.entries, domain.LogEntry{
		ID:        uuid.NewString(),
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	})
	if overflow := len(l.entries) - l.limit; overflow > 0 {
		l.entries = append(l.entries[:0], l.entries[overflow:]...)
	}
	l.unread = min(l.unread+1, len(l.entries))
}

func (l *messageLog) all() []domain.LogEntry {
	out := make([]domain.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *messageLog) takeNew() []domain.LogEntry {
	if l.unread == 0 {
		return nil
	}
	out := make([]domain.LogEntry, l.unread)
	copy(out, l.entries[len(l.entries)-l.unread:])
	l.unread = 0
	return out
}
