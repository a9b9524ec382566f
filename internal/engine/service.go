package engine

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"pursuit-server/internal/network"
	"pursuit-server/pkg/api"
	"pursuit-server/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GameService создает сессии и хранит реестр активных.
// Одно подключение = одна сессия со своим состоянием.
type GameService struct {
	cfg Config
	Hub *network.Broadcaster

	mu       sync.RWMutex
	sessions map[string]*Session

	// started - сколько сессий создано; сессия N получает Seed + N
	started atomic.Uint64
}

func NewService(cfg Config, hub *network.Broadcaster) *GameService {
	return &GameService{
		cfg:      cfg,
		Hub:      hub,
		sessions: make(map[string]*Session),
	}
}

// StartSession создает сессию, подписывает ее в Hub и запускает игровой цикл.
// Цикл живет, пока не отменен ctx. По завершении подписка закрывается.
func (s *GameService) StartSession(ctx context.Context) (*Session, <-chan api.ServerResponse, error) {
	id := uuid.NewString()

	cfg := s.cfg
	cfg.Seed = s.cfg.Seed + s.started.Add(1) - 1

	sess, err := NewSession(id, cfg, s.Hub)
	if err != nil {
		return nil, nil, err
	}

	// Подписка до запуска цикла, чтобы первый снимок не потерялся
	updates := s.Hub.Register(id)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	logger.Log.WithFields(logrus.Fields{
		"session_id": id,
		"seed":       cfg.Seed,
		"difficulty": string(cfg.Difficulty),
	}).Info("Session started")

	go func() {
		sess.Run(ctx)

		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		s.Hub.Unregister(id)

		logger.Log.WithField("session_id", id).Info("Session ended")
	}()

	return sess, updates, nil
}

// Session ищет активную сессию по ID
func (s *GameService) Session(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Sessions - сводка по всем активным сессиям (для отладки), по ID
func (s *GameService) Sessions() []api.SessionInfo {
	s.mu.RLock()
	list := make([]api.SessionInfo, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess.Info())
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// ProcessCommand передает команду сессии по ID
func (s *GameService) ProcessCommand(ctx context.Context, sessionID string, cmd api.ClientCommand) error {
	sess, ok := s.Session(sessionID)
	if !ok {
		return ErrSessionClosed
	}
	return sess.Submit(ctx, cmd)
}
