package server

import (
	"cognitive-mapview/internal/engine"
	"cognitive-mapview/internal/network"
	"cognitive-mapview/internal/version"
	"cognitive-mapview/pkg/logger"
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// FrameSink получает каждый сырой кадр фида до декодирования (запись .cdev).
type FrameSink func(frame []byte)

type Server struct {
	Session *engine.Session
	Hub     *network.Broadcaster
	Port    string
	Sink    FrameSink

	feedBusy atomic.Bool
}

func New(session *engine.Session, hub *network.Broadcaster, port string) *Server {
	return &Server{
		Session: session,
		Hub:     hub,
		Port:    port,
	}
}

// Routes собирает роутер
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(enableCORS)

	r.Get("/ws", s.handleWS)
	r.Get("/feed", s.handleFeed)
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	NewDebugHandler(s).RegisterRoutes(r)
	return r
}

// Run запускает HTTP сервер и останавливает его при отмене контекста
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.Port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Mapview server running on :%s", s.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Log.WithFields(logrus.Fields{
			"component": "http",
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    ww.Status(),
			"duration":  time.Since(start).String(),
		}).Debug("Request served")
	})
}

// handleWS подключает зрителя: сразу отдает последний кадр, дальше - рассылка хаба
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	viewer := NewViewer(s.Hub, conn)
	viewer.log.Info("Viewer connected")
	s.Hub.SendTo(viewer.ID, s.Session.Snapshot())

	// Запускаем пампы
	go viewer.writePump()
	go viewer.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Info())
}
