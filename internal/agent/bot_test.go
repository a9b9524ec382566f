package agent

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"pursuit-server/internal/domain"
	"pursuit-server/internal/engine"
	"pursuit-server/internal/network"
	"pursuit-server/pkg/api"
	"pursuit-server/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// recorder запоминает отправленные ботом команды
type recorder struct {
	mu   sync.Mutex
	cmds []api.ClientCommand
}

func (r *recorder) Submit(_ context.Context, cmd api.ClientCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmd)
	return nil
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.cmds))
	for i, c := range r.cmds {
		out[i] = c.Action
	}
	return out
}

func snapshot(rows ...string) api.ServerResponse {
	return api.ServerResponse{
		Type:  api.ResponseUpdate,
		Level: 1,
		Map:   rows,
	}
}

func TestNextMove_NearestCoin(t *testing.T) {
	state := snapshot(
		"S..C",
		"....",
		"C...",
		"...E",
	)
	state.Player = api.PositionView{X: 1, Y: 2}

	dir, ok := NextMove(state)
	require.True(t, ok)
	assert.Equal(t, api.DirectionPayload{Dx: -1, Dy: 0}, dir)
}

func TestNextMove_ExitWhenNoCoins(t *testing.T) {
	state := snapshot(
		"S.#",
		"..#",
		"..E",
	)
	state.Player = api.PositionView{X: 1, Y: 1}

	dir, ok := NextMove(state)
	require.True(t, ok)
	assert.Equal(t, api.DirectionPayload{Dx: 0, Dy: 1}, dir)
}

func TestNextMove_AvoidsAgents(t *testing.T) {
	// Прямой путь к E идет через агента, обход есть по нижнему ряду
	state := snapshot(
		"S...E",
		".###.",
		".....",
	)
	state.Player = api.PositionView{X: 0, Y: 0}
	state.Agents = []api.AgentView{{ID: "agent_0", Cell: api.PositionView{X: 2, Y: 0}, X: 2, Y: 0}}

	dir, ok := NextMove(state)
	require.True(t, ok)
	assert.Equal(t, api.DirectionPayload{Dx: 0, Dy: 1}, dir)
}

func TestNextMove_FallsBackThroughDanger(t *testing.T) {
	// Обхода нет: бот все равно идет к цели
	state := snapshot("S...E")
	state.Player = api.PositionView{X: 0, Y: 0}
	state.Agents = []api.AgentView{{ID: "agent_0", Cell: api.PositionView{X: 3, Y: 0}, X: 3, Y: 0}}

	dir, ok := NextMove(state)
	require.True(t, ok)
	assert.Equal(t, api.DirectionPayload{Dx: 1, Dy: 0}, dir)
}

func TestNextMove_Unreachable(t *testing.T) {
	state := snapshot(
		"S#.",
		"##.",
		"..E",
	)
	_, ok := NextMove(state)
	assert.False(t, ok)

	_, ok = NextMove(api.ServerResponse{Type: api.ResponseUpdate})
	assert.False(t, ok, "empty map")
}

func TestBot_RestartsOnceAfterGameOver(t *testing.T) {
	rec := &recorder{}
	inbox := make(chan api.ServerResponse, 4)
	bot := NewBot(rec, inbox, 0)

	over := snapshot("SE")
	over.GameOver = true
	inbox <- over
	inbox <- over
	close(inbox)

	res := bot.Run(context.Background())
	assert.Equal(t, []string{"RESTART"}, rec.actions())
	assert.Equal(t, 1, res.Restarts)
}

func TestBot_SkipsPausedAndErrors(t *testing.T) {
	rec := &recorder{}
	inbox := make(chan api.ServerResponse, 4)
	bot := NewBot(rec, inbox, 0)
	bot.MoveEvery = 0

	paused := snapshot("SE")
	paused.Paused = true
	inbox <- paused
	inbox <- api.ServerResponse{Type: api.ResponseError, Error: "boom"}
	inbox <- snapshot("SE")
	close(inbox)

	bot.Run(context.Background())
	require.Len(t, rec.cmds, 1)
	assert.Equal(t, "MOVE", rec.cmds[0].Action)

	var dir api.DirectionPayload
	require.NoError(t, json.Unmarshal(rec.cmds[0].Payload, &dir))
	assert.Equal(t, api.DirectionPayload{Dx: 1, Dy: 0}, dir)
}

func TestBot_ActsOnLatestSnapshotOnly(t *testing.T) {
	// Очередь из одинаковых снимков: ход отправляется один раз
	rec := &recorder{}
	inbox := make(chan api.ServerResponse, 3)
	bot := NewBot(rec, inbox, 0)
	bot.MoveEvery = 0

	for i := 0; i < 3; i++ {
		s := snapshot(
			"S..",
			"C.E",
		)
		s.Tick = i
		inbox <- s
	}
	close(inbox)

	bot.Run(context.Background())
	require.Len(t, rec.cmds, 1)

	var dir api.DirectionPayload
	require.NoError(t, json.Unmarshal(rec.cmds[0].Payload, &dir))
	assert.Equal(t, api.DirectionPayload{Dx: 0, Dy: 1}, dir)
}

func TestMoveGate(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(d time.Duration) time.Time { return start.Add(d) }

	s := snapshot("S..")
	moved := s
	moved.Player = api.PositionView{X: 1, Y: 0}
	next := s
	next.Level = 2

	t.Run("first move is free", func(t *testing.T) {
		var g moveGate
		assert.True(t, g.ready(s, at(0), 0))
	})

	t.Run("waits until player cell changes", func(t *testing.T) {
		var g moveGate
		g.sent(s, at(0))
		assert.False(t, g.ready(s, at(10*time.Millisecond), 0), "stale snapshot")
		assert.True(t, g.ready(moved, at(20*time.Millisecond), 0))
	})

	t.Run("level change counts as applied", func(t *testing.T) {
		var g moveGate
		g.sent(s, at(0))
		assert.True(t, g.ready(next, at(time.Millisecond), 0))
	})

	t.Run("retries a lost move", func(t *testing.T) {
		var g moveGate
		g.sent(s, at(0))
		assert.True(t, g.ready(s, at(moveRetry), 0))
	})

	t.Run("respects move interval", func(t *testing.T) {
		var g moveGate
		g.sent(s, at(0))
		assert.False(t, g.ready(moved, at(10*time.Millisecond), 50*time.Millisecond))
		assert.True(t, g.ready(moved, at(50*time.Millisecond), 50*time.Millisecond))
	})

	t.Run("reset after game over", func(t *testing.T) {
		var g moveGate
		g.sent(s, at(0))
		g.reset()
		assert.True(t, g.ready(s, at(time.Millisecond), 0))
	})
}

func TestBot_StopsAtLevelGoal(t *testing.T) {
	rec := &recorder{}
	inbox := make(chan api.ServerResponse, 1)
	bot := NewBot(rec, inbox, 2)

	s := snapshot("SE")
	s.Level = 3
	s.HighScore = 70
	inbox <- s

	res := bot.Run(context.Background())
	assert.Equal(t, 2, res.LevelsCleared)
	assert.Equal(t, 70, res.HighScore)
	assert.Empty(t, rec.cmds)
}

func TestBot_ClearsLevelsAgainstEngine(t *testing.T) {
	cfg := engine.NewConfig()
	cfg.Seed = 7
	cfg.AgentCount = 0
	cfg.WallProbability = 0
	cfg.CoinCount = 2
	cfg.AgentTick = time.Millisecond
	cfg.ClockTick = time.Hour

	svc := engine.NewService(cfg, network.NewBroadcaster())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sess, updates, err := svc.StartSession(ctx)
	require.NoError(t, err)

	bot := NewBot(sess, updates, 2)
	bot.MoveEvery = time.Millisecond

	res := bot.Run(ctx)
	require.NoError(t, ctx.Err(), "bot did not finish in time")
	assert.Equal(t, 2, res.LevelsCleared)
	assert.Equal(t, 0, res.Restarts)
	assert.GreaterOrEqual(t, res.HighScore, 2*(domain.GoalBonus+domain.CoinValue*cfg.CoinCount))
}

