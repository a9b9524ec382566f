package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"pursuit-server/internal/domain"
	"pursuit-server/internal/engine/handlers"
	"pursuit-server/internal/engine/handlers/actions"
	"pursuit-server/pkg/api"
	"pursuit-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrSessionClosed = errors.New("session closed")
)

// Publisher получает снимки после каждой мутации состояния.
// network.Broadcaster неявно реализует этот интерфейс.
type Publisher interface {
	SendTo(id string, msg api.ServerResponse)
}

// Session - одна изолированная партия со своим игровым циклом.
// Все мутации State происходят только внутри Run.
type Session struct {
	ID string

	state     *State
	commands  chan domain.InternalCommand
	publisher Publisher
	handlers  map[domain.ActionType]handlers.HandlerFunc
	log       *logrus.Entry

	agentEvery time.Duration
	clockEvery time.Duration

	last atomic.Pointer[api.ServerResponse] // Последний разосланный снимок
	done chan struct{}
}

func NewSession(id string, cfg Config, publisher Publisher) (*Session, error) {
	state, err := NewState(cfg)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}

	s := &Session{
		ID:         id,
		state:      state,
		commands:   make(chan domain.InternalCommand, 100),
		publisher:  publisher,
		handlers:   make(map[domain.ActionType]handlers.HandlerFunc),
		log:        logger.Component("session").WithField("session_id", id),
		agentEvery: cfg.AgentTick,
		clockEvery: cfg.ClockTick,
		done:       make(chan struct{}),
	}
	s.registerHandlers()
	return s, nil
}

func (s *Session) registerHandlers() {
	s.handlers[domain.ActionInit] = handlers.WithEmptyPayload(actions.HandleInit)
	s.handlers[domain.ActionMove] = handlers.WithPayload(actions.HandleMove)
	s.handlers[domain.ActionPause] = handlers.WithEmptyPayload(actions.HandlePause)
	s.handlers[domain.ActionRestart] = handlers.WithEmptyPayload(actions.HandleRestart)
}

// Submit принимает команду от внешнего мира (WebSocket или бот)
func (s *Session) Submit(ctx context.Context, cmd api.ClientCommand) error {
	action := domain.ParseAction(cmd.Action)
	if action == domain.ActionUnknown {
		s.log.WithField("action", cmd.Action).Warn("Unknown action")
		return fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}

	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	select {
	case s.commands <- domain.InternalCommand{Action: action, Payload: cmd.Payload}:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done закрывается, когда Run завершился
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Latest - последний разосланный снимок (безопасно из любой горутины)
func (s *Session) Latest() *api.ServerResponse {
	return s.last.Load()
}

// Info - краткая сводка по последнему снимку
func (s *Session) Info() api.SessionInfo {
	info := api.SessionInfo{ID: s.ID}
	if snap := s.Latest(); snap != nil {
		info.Level = snap.Level
		info.Score = snap.Score
		info.HighScore = snap.HighScore
		info.TimeLeft = snap.TimeLeft
		info.GameOver = snap.GameOver
		info.Paused = snap.Paused
	}
	return info
}

// Run - игровой цикл сессии. Единственная горутина, меняющая State.
// Тикеры работают, только пока игра идет: пауза и конец игры их останавливают.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)
	s.log.Info("Session loop started")

	var t tickers
	defer t.stop()

	s.publish()
	for {
		// 1. Тикеры соответствуют состоянию (пауза/конец игры - стоп)
		if s.state.Paused || s.state.GameOver {
			t.stop()
		} else if !t.running() {
			t.start(s.agentEvery, s.clockEvery)
		}

		// 2. Ровно одно событие за итерацию
		select {
		case <-ctx.Done():
			s.log.Info("Session loop stopped")
			return

		case <-t.agentC():
			if s.state.TickAgents() {
				s.publish()
			}

		case <-t.clockC():
			if s.state.TickClock() {
				s.publish()
			}

		case cmd := <-s.commands:
			s.execute(cmd)
		}
	}
}

// execute выполняет команду игрока
func (s *Session) execute(cmd domain.InternalCommand) {
	handler, ok := s.handlers[cmd.Action]
	if !ok {
		return
	}

	ctx := handlers.Context{
		SessionID: s.ID,
		Game:      s.state,
	}

	result, err := handler(ctx, cmd.Payload)
	if err != nil {
		s.log.WithError(err).WithField("action", cmd.Action.String()).Warn("Command rejected")
		s.publisher.SendTo(s.ID, api.ServerResponse{
			Type:      api.ResponseError,
			SessionID: s.ID,
			Error:     err.Error(),
		})
		return
	}

	if result.Msg != "" {
		s.state.AddLog(result.Msg, result.MsgType)
		result.Changed = true
	}
	if result.Changed {
		s.publish()
	}
}

// publish рассылает снимок и очищает накопленные логи
func (s *Session) publish() {
	snap := s.state.Snapshot()
	snap.SessionID = s.ID
	s.state.DrainLogs()

	s.last.Store(snap)
	s.publisher.SendTo(s.ID, *snap)
}

// tickers - пара периодических источников: подшаги агентов и часы.
// Остановленный тикер дает nil-канал, который select никогда не выбирает.
type tickers struct {
	agent *time.Ticker
	clock *time.Ticker
}

func (t *tickers) start(agentEvery, clockEvery time.Duration) {
	t.agent = time.NewTicker(agentEvery)
	t.clock = time.NewTicker(clockEvery)
}

func (t *tickers) stop() {
	if t.agent != nil {
		t.agent.Stop()
		t.agent = nil
	}
	if t.clock != nil {
		t.clock.Stop()
		t.clock = nil
	}
}

func (t *tickers) running() bool {
	return t.agent != nil
}

func (t *tickers) agentC() <-chan time.Time {
	if t.agent == nil {
		return nil
	}
	return t.agent.C
}

func (t *tickers) clockC() <-chan time.Time {
	if t.clock == nil {
		return nil
	}
	return t.clock.C
}
