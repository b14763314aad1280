package server

import (
	"cognitive-mapview/pkg/api"
	"cognitive-mapview/pkg/logger"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// maxFrameSize - предел одного кадра фида (полная перерисовка 79x21 помещается с запасом)
const maxFrameSize = 1 << 20

// handleFeed принимает бинарные кадры симуляции и кладет события в очередь ядра.
// Продюсер у очереди ровно один, поэтому второе подключение отклоняется.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if !s.feedBusy.CompareAndSwap(false, true) {
		http.Error(w, "feed already connected", http.StatusConflict)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.feedBusy.Store(false)
		logger.Log.WithError(err).Error("Feed upgrade error")
		return
	}

	go func() {
		defer s.feedBusy.Store(false)
		s.readFeed(conn)
	}()
}

func (s *Server) readFeed(conn *websocket.Conn) {
	log := logger.Log.WithFields(logrus.Fields{
		"component": "feed",
		"remote":    conn.RemoteAddr().String(),
	})
	log.Info("Simulation feed connected")

	defer func() {
		if err := conn.Close(); err != nil {
			log.WithError(err).Debug("failed to close feed connection")
		}
		log.Info("Simulation feed disconnected")
	}()

	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(data string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
	})

	for {
		msgType, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("Feed read error")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		if msgType != websocket.BinaryMessage {
			log.WithField("type", msgType).Warn("Non-binary feed message ignored")
			continue
		}
		s.IngestFrame(frame)
	}
}

// IngestFrame декодирует кадр и передает события в очередь.
// Обрезанный кадр не теряется целиком: разобранная часть уходит в очередь.
func (s *Server) IngestFrame(frame []byte) {
	if s.Sink != nil {
		s.Sink(frame)
	}

	events, err := api.DecodeFrame(frame)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "feed",
			"decoded":   len(events),
			"bytes":     len(frame),
		}).WithError(err).Warn("Malformed feed frame")
	}
	s.Session.Queue.Push(events...)
}
