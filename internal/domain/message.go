package domain

// LogEntry - запись в журнале сообщений, видимом презентации
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"` // MESSAGE, SYSTEM
	Timestamp int64  `json:"timestamp"`
}

const (
	LogTypeMessage = "MESSAGE"
	LogTypeSystem  = "SYSTEM"
)
