package server

import (
	"cognitive-mapview/internal/network"
	"cognitive-mapview/pkg/api"
	"cognitive-mapview/pkg/logger"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Viewer - посредник между WebSocket и Broadcaster. Только читает кадры карты.
type Viewer struct {
	ID   string
	Hub  *network.Broadcaster
	Conn *websocket.Conn
	Send chan api.MapView
	log  *logrus.Entry
}

func NewViewer(hub *network.Broadcaster, conn *websocket.Conn) *Viewer {
	id := uuid.NewString()
	return &Viewer{
		ID:   id,
		Hub:  hub,
		Conn: conn,
		Send: hub.Register(id),
		log:  logger.Log.WithFields(logrus.Fields{"component": "viewer", "viewer": id}),
	}
}

// readPump нужен только для ping/pong и обнаружения закрытия: зритель команд не шлет
func (v *Viewer) readPump() {
	defer func() {
		v.Hub.Unregister(v.ID)
		if err := v.Conn.Close(); err != nil {
			v.log.WithError(err).Debug("failed to close websocket connection")
		}
		v.log.Info("Viewer disconnected")
	}()

	v.Conn.SetReadLimit(maxMessageSize)
	if err := v.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		v.log.WithError(err).Warn("failed to set read deadline")
	}
	v.Conn.SetPongHandler(func(string) error {
		if err := v.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			v.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		if _, _, err := v.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				v.log.WithError(err).Warn("WS error")
			}
			return
		}
	}
}

// writePump отправляет кадры клиенту + Ping
func (v *Viewer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := v.Conn.Close(); err != nil {
			v.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case view, ok := <-v.Send:
			if err := v.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				v.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				// Broadcaster закрыл канал (Unregister)
				if err := v.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					v.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := v.Conn.WriteJSON(view); err != nil {
				v.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := v.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				v.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := v.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				v.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
