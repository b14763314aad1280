package server

import (
	"cognitive-mapview/internal/render"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// DebugHandler предоставляет доступ к внутреннему состоянию ядра (только чтение)
type DebugHandler struct {
	Server *Server
}

func NewDebugHandler(s *Server) *DebugHandler {
	return &DebugHandler{Server: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(r chi.Router) {
	r.Route("/debug", func(r chi.Router) {
		r.Get("/map", h.handleMap)
		r.Get("/state", h.handleState)
		r.Get("/stats", h.handleStats)
	})
}

// /debug/map?color=1 - карта последнего кадра текстом
func (h *DebugHandler) handleMap(w http.ResponseWriter, r *http.Request) {
	colored := r.URL.Query().Get("color") == "1"
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(render.ASCII(h.Server.Session.Snapshot(), colored)))
}

// /debug/state - последний кадр целиком (тот же JSON, что получают зрители)
func (h *DebugHandler) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Server.Session.Snapshot())
}

// /debug/stats - счетчики очереди и потребителя
func (h *DebugHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	type StatsView struct {
		Pending    int    `json:"pending"`
		Pushed     uint64 `json:"pushed"`
		Viewers    int    `json:"viewers"`
		FeedActive bool   `json:"feedActive"`
		Batches    int    `json:"batches"`
		Applied    int    `json:"applied"`
		Dropped    int    `json:"dropped"`
		Flushes    int    `json:"flushes"`
		Resets     int    `json:"resets"`
		Recomputes int    `json:"recomputes"`
	}

	s := h.Server
	stats := s.Session.Stats()
	writeJSON(w, http.StatusOK, StatsView{
		Pending:    s.Session.Queue.Len(),
		Pushed:     s.Session.Queue.Pushed(),
		Viewers:    s.Hub.SubscriberCount(),
		FeedActive: s.feedBusy.Load(),
		Batches:    stats.Batches,
		Applied:    stats.Applied,
		Dropped:    stats.Dropped,
		Flushes:    stats.Flushes,
		Resets:     stats.Resets,
		Recomputes: stats.Recomputes,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}
