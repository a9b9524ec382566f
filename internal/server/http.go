package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pursuit-server/internal/engine"
	"pursuit-server/internal/version"
	"pursuit-server/pkg/api"
	"pursuit-server/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	Engine *engine.GameService
	Port   string

	// ctx живет столько же, сколько сервер; от него наследуются сессии
	ctx context.Context
}

func New(engine *engine.GameService, port string) *Server {
	return &Server{
		Engine: engine,
		Port:   port,
		ctx:    context.Background(),
	}
}

// Router собирает все роуты сервера
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(enableCORS)

	r.Get("/ws", s.handleWS)
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	// Debug Routes
	NewDebugHandler(s.Engine).RegisterRoutes(r)

	return r
}

// Run запускает HTTP сервер и останавливает его при отмене ctx
func (s *Server) Run(ctx context.Context) error {
	s.ctx = ctx

	srv := &http.Server{
		Addr:              ":" + s.Port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Pursuit server running on :%s", s.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.notifyShutdown()

	logger.Log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// notifyShutdown предупреждает все открытые сессии об остановке сервера
func (s *Server) notifyShutdown() {
	hub := s.Engine.Hub
	logger.Log.WithField("subscribers", hub.SubscriberCount()).Info("Notifying clients about shutdown")
	hub.Broadcast(api.ServerResponse{
		Type:  api.ResponseShutdown,
		Error: "server is shutting down",
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next.ServeHTTP(w, r)
	})
}

// requestLogger пишет каждый запрос в logrus
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Log.WithFields(logrus.Fields{
			"component":  "http",
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("Request handled")
	})
}

// handleWS обрабатывает подключение по WebSocket: одно подключение - одна сессия
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	// Контекст запроса закончится вместе с этим хендлером, поэтому сессия
	// наследует контекст сервера, а отменяется при разрыве соединения.
	ctx, cancel := context.WithCancel(s.ctx)
	session, updates, err := s.Engine.StartSession(ctx)
	if err != nil {
		cancel()
		logger.Log.WithError(err).Error("Failed to start session")
		_ = conn.Close()
		return
	}

	client := NewClient(s.Engine, conn, session, updates, cancel)

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Info())
}
