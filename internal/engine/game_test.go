package engine

import (
	"testing"

	"pursuit-server/internal/domain"
	"pursuit-server/pkg/api"
	"pursuit-server/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func testConfig() Config {
	cfg, _ := Preset(DifficultyEasy)
	cfg.Seed = 1
	return cfg
}

// Helper: собирает партию на карте-фикстуре, минуя генератор
func newTestState(t *testing.T, rows []string, player domain.Position, agents ...domain.Position) *State {
	t.Helper()
	m, err := domain.ParseGridMap(rows)
	require.NoError(t, err)

	cfg := testConfig()
	s := &State{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		log:      logger.Component("game"),
		Level:    1,
		Width:    m.Width,
		Height:   m.Height,
		Map:      m,
		Player:   player,
		TimeLeft: cfg.TimeBudget,
		Logs:     []api.LogEntry{},
	}
	for i, c := range agents {
		s.Agents = append(s.Agents, domain.NewAgent(i, c))
	}
	return s
}

func countLogs(s *State, ev domain.EventType) int {
	n := 0
	for _, l := range s.Logs {
		if l.Type == ev.String() {
			n++
		}
	}
	return n
}

func TestNewState(t *testing.T) {
	s, err := NewState(testConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, s.Level)
	assert.Equal(t, domain.BaseWidth, s.Map.Width)
	assert.Equal(t, domain.BaseHeight, s.Map.Height)
	assert.Equal(t, domain.Position{}, s.Player)
	assert.Len(t, s.Agents, 2)
	assert.Equal(t, 60, s.TimeLeft)
	for _, a := range s.Agents {
		assert.NotEqual(t, s.Player, a.Cell)
		assert.Equal(t, domain.TilePath, s.Map.At(a.Cell))
	}
	assert.Equal(t, 1, countLogs(s, domain.EventLevelStart))
}

func TestNewState_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.WallProbability = 2

	_, err := NewState(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMove_CollectCoin(t *testing.T) {
	s := newTestState(t, []string{
		"S.C.",
		"....",
		"...E",
	}, domain.Position{X: 1, Y: 0})

	res := s.Move(1, 0)

	assert.True(t, res.Moved)
	assert.True(t, res.Coin)
	assert.Equal(t, domain.Position{X: 2, Y: 0}, s.Player)
	assert.Equal(t, domain.CoinValue, s.Score)
	assert.Equal(t, domain.CoinValue, s.HighScore)
	assert.Equal(t, domain.TilePath, s.Map.At(s.Player))
	assert.Zero(t, s.Map.CountTiles(domain.TileCoin))

	// Монета не появляется снова
	s.Move(-1, 0)
	res = s.Move(1, 0)
	assert.False(t, res.Coin)
	assert.Equal(t, domain.CoinValue, s.Score)
}

func TestMove_HighScoreNotBeaten(t *testing.T) {
	s := newTestState(t, []string{"SC.E"}, domain.Position{X: 0, Y: 0})
	s.HighScore = 50

	s.Move(1, 0)

	assert.Equal(t, domain.CoinValue, s.Score)
	assert.Equal(t, 50, s.HighScore)
}

func TestMove_Rejected(t *testing.T) {
	rows := []string{
		"S#.",
		"..E",
	}

	testCases := []struct {
		name   string
		dx, dy int
		setup  func(s *State)
		wall   bool
	}{
		{"Into wall", 1, 0, nil, true},
		{"Out of bounds", 0, -1, nil, true},
		{"Diagonal", 1, 1, nil, false},
		{"Paused", 0, 1, func(s *State) { s.Paused = true }, false},
		{"Game over", 0, 1, func(s *State) { s.GameOver = true }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestState(t, rows, domain.Position{X: 0, Y: 0})
			if tc.setup != nil {
				tc.setup(s)
			}
			before := s.Map.String()

			res := s.Move(tc.dx, tc.dy)

			assert.True(t, res.Blocked)
			assert.Equal(t, tc.wall, res.Wall)
			assert.False(t, res.Moved)
			assert.Equal(t, domain.Position{X: 0, Y: 0}, s.Player)
			assert.Equal(t, before, s.Map.String())
			assert.Zero(t, s.Score)
		})
	}
}

func TestMove_ReachEnd(t *testing.T) {
	s := newTestState(t, []string{
		"S...",
		"....",
		"...E",
	}, domain.Position{X: 2, Y: 2})
	s.Score = 30
	s.TimeLeft = 5

	res := s.Move(1, 0)

	require.True(t, res.LevelComplete)
	assert.Equal(t, 30+domain.GoalBonus, s.Score)
	assert.Equal(t, 50, s.HighScore)
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 4+domain.LevelGrowWidth, s.Width)
	assert.Equal(t, 3+domain.LevelGrowHeight, s.Height)
	assert.Equal(t, s.Width, s.Map.Width)
	assert.Equal(t, s.Height, s.Map.Height)
	assert.Equal(t, domain.Position{}, s.Player)
	assert.Equal(t, s.cfg.TimeBudget, s.TimeLeft)
	assert.Len(t, s.Agents, s.cfg.AgentCount)
	assert.False(t, s.GameOver)
	assert.Equal(t, 1, countLogs(s, domain.EventLevelComplete))
}

func TestMove_IntoAgent(t *testing.T) {
	s := newTestState(t, []string{"S..E"}, domain.Position{X: 0, Y: 0}, domain.Position{X: 1, Y: 0})

	res := s.Move(1, 0)

	assert.True(t, res.Moved)
	assert.True(t, res.Caught)
	assert.True(t, s.GameOver)
	assert.Equal(t, 1, countLogs(s, domain.EventCaught))
}

func TestTickAgents_CollisionOnce(t *testing.T) {
	s := newTestState(t, []string{"S...E"}, domain.Position{X: 0, Y: 0}, domain.Position{X: 3, Y: 0})

	ticks := 0
	for !s.GameOver && ticks < 100 {
		require.True(t, s.TickAgents())
		ticks++
	}
	require.True(t, s.GameOver, "agent never reached the player")
	assert.Equal(t, s.Player, s.Agents[0].RenderCell())
	assert.Equal(t, 1, countLogs(s, domain.EventCaught))

	// Дальнейшие тики ничего не меняют
	frozen := *s.Agents[0]
	tick := s.Tick
	for i := 0; i < 5; i++ {
		assert.False(t, s.TickAgents())
		assert.False(t, s.TickClock())
	}
	assert.Equal(t, frozen.OffsetX, s.Agents[0].OffsetX)
	assert.Equal(t, frozen.Remaining, s.Agents[0].Remaining)
	assert.Equal(t, tick, s.Tick)
	assert.Equal(t, 1, countLogs(s, domain.EventCaught))
}

func TestTickClock_TimeUp(t *testing.T) {
	s := newTestState(t, []string{"S..E"}, domain.Position{X: 0, Y: 0})
	s.TimeLeft = 3

	assert.True(t, s.TickClock())
	assert.True(t, s.TickClock())
	assert.False(t, s.GameOver)

	assert.True(t, s.TickClock())
	assert.Zero(t, s.TimeLeft)
	assert.True(t, s.GameOver)
	assert.Equal(t, 1, countLogs(s, domain.EventTimeUp))

	assert.False(t, s.TickClock())
	assert.Zero(t, s.TimeLeft)
}

func TestPause_PreservesInterpolation(t *testing.T) {
	s := newTestState(t, []string{
		"S.....",
		"......",
		".....E",
	}, domain.Position{X: 0, Y: 0}, domain.Position{X: 5, Y: 2})

	for i := 0; i < 3; i++ {
		s.TickAgents()
	}
	agent := *s.Agents[0]
	require.True(t, agent.Interpolating())
	timeLeft := s.TimeLeft

	require.True(t, s.TogglePause())
	for i := 0; i < 10; i++ {
		assert.False(t, s.TickAgents())
		assert.False(t, s.TickClock())
	}
	assert.True(t, s.Move(0, 1).Blocked)

	a := s.Agents[0]
	assert.Equal(t, agent.Remaining, a.Remaining)
	assert.Equal(t, agent.DeltaX, a.DeltaX)
	assert.Equal(t, agent.DeltaY, a.DeltaY)
	assert.Equal(t, agent.OffsetX, a.OffsetX)
	assert.Equal(t, agent.OffsetY, a.OffsetY)
	assert.Equal(t, agent.Target, a.Target)
	assert.Equal(t, timeLeft, s.TimeLeft)

	// После паузы прыжок продолжается с того же места
	require.True(t, s.TogglePause())
	assert.True(t, s.TickAgents())
	assert.Equal(t, agent.Remaining-1, a.Remaining)
	assert.Equal(t, agent.Target, a.Target)

	assert.Equal(t, 1, countLogs(s, domain.EventPaused))
	assert.Equal(t, 1, countLogs(s, domain.EventResumed))
}

func TestTogglePause_AfterGameOver(t *testing.T) {
	s := newTestState(t, []string{"S.E"}, domain.Position{X: 0, Y: 0})
	s.GameOver = true

	assert.False(t, s.TogglePause())
	assert.False(t, s.Paused)
}

func TestRestart(t *testing.T) {
	s := newTestState(t, []string{
		"S.....",
		"......",
		"......",
		".....E",
	}, domain.Position{X: 3, Y: 2})
	s.Level = 3
	s.Score = 40
	s.HighScore = 70

	// Пока игра идет - перезапуск запрещен
	assert.False(t, s.Restart())
	assert.Equal(t, 40, s.Score)

	s.GameOver = true
	require.True(t, s.Restart())

	assert.False(t, s.GameOver)
	assert.Zero(t, s.Score)
	assert.Equal(t, 70, s.HighScore)
	assert.Equal(t, 3, s.Level)
	assert.Equal(t, 6, s.Map.Width)
	assert.Equal(t, 4, s.Map.Height)
	assert.Equal(t, domain.Position{}, s.Player)
	assert.Equal(t, s.cfg.TimeBudget, s.TimeLeft)
}

func TestSnapshot(t *testing.T) {
	s := newTestState(t, []string{
		"S.C",
		"#.E",
	}, domain.Position{X: 1, Y: 0}, domain.Position{X: 1, Y: 1})
	s.Score = 20
	s.AddLog("hello", "INFO")

	snap := s.Snapshot()

	assert.Equal(t, api.ResponseUpdate, snap.Type)
	assert.Equal(t, []string{"S.C", "#.E"}, snap.Map)
	assert.Equal(t, &api.GridMeta{Width: 3, Height: 2}, snap.Grid)
	assert.Equal(t, api.PositionView{X: 1, Y: 0}, snap.Player)
	require.Len(t, snap.Agents, 1)
	assert.Equal(t, "agent_0", snap.Agents[0].ID)
	assert.Equal(t, 1.0, snap.Agents[0].X)
	assert.Equal(t, 1.0, snap.Agents[0].Y)
	assert.Zero(t, snap.Agents[0].Dx, "idle agent has no velocity")
	assert.Equal(t, 20, snap.Score)
	assert.Equal(t, 1, snap.CoinsLeft)
	require.Len(t, snap.Logs, 1)

	drained := s.DrainLogs()
	assert.Len(t, drained, 1)
	assert.Empty(t, s.Logs)
	assert.Len(t, snap.Logs, 1, "snapshot keeps its own copy")
}

func TestSnapshot_AgentVelocityDuringHop(t *testing.T) {
	s := newTestState(t, []string{
		"S...E",
	}, domain.Position{X: 0, Y: 0}, domain.Position{X: 4, Y: 0})

	require.True(t, s.TickAgents())
	snap := s.Snapshot()
	require.Len(t, snap.Agents, 1)

	a := snap.Agents[0]
	step := 1.0 / float64(s.cfg.InterpolationSteps)
	assert.InDelta(t, -step, a.Dx, 1e-9)
	assert.Zero(t, a.Dy)
	assert.InDelta(t, 4-step, a.X, 1e-6, "offset moved by one substep")
}

func TestMove_NextLevelBuildFailureEndsGame(t *testing.T) {
	s := newTestState(t, []string{"S.E"}, domain.Position{X: 1, Y: 0})
	s.cfg.CoinCount = -1

	res := s.Move(1, 0)

	assert.True(t, res.Moved)
	assert.False(t, res.LevelComplete)
	assert.True(t, s.GameOver)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 1, countLogs(s, domain.EventLevelFailed))
	assert.Equal(t, domain.GoalBonus, s.HighScore)
}
