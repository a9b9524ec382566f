package engine

import (
	"fmt"

	"pursuit-server/internal/domain"
	"pursuit-server/internal/systems"
	"pursuit-server/pkg/api"
	"pursuit-server/pkg/dungeon"
	"pursuit-server/pkg/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

// State - состояние одной партии: карта, игрок, агенты, счет и таймер.
// Не потокобезопасен: все вызовы идут из одной горутины (Session.Run).
type State struct {
	cfg Config
	rng *rand.Rand
	log *logrus.Entry

	Level  int
	Width  int // Текущие размеры (растут с уровнем)
	Height int

	Map    *domain.GridMap
	Player domain.Position
	Agents []*domain.Agent

	Score     int
	HighScore int
	TimeLeft  int
	Tick      int // Тиков агентов с начала уровня

	GameOver bool
	Paused   bool

	Logs []api.LogEntry // Накопленные с прошлого снимка
}

// NewState проверяет конфиг и строит первый уровень
func NewState(cfg Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &State{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		log:    logger.Component("game"),
		Width:  cfg.Width,
		Height: cfg.Height,
		Logs:   []api.LogEntry{},
	}
	if err := s.startLevel(1); err != nil {
		return nil, err
	}
	return s, nil
}

// Config возвращает параметры, с которыми создана партия
func (s *State) Config() Config {
	return s.cfg
}

// startLevel заменяет карту и агентов целиком, счет сохраняется
func (s *State) startLevel(n int) error {
	lvl, err := dungeon.NewLevel(n, s.rng).
		WithSize(s.Width, s.Height).
		WithWalls(s.cfg.WallProbability).
		WithCoins(s.cfg.CoinCount).
		WithAgents(s.cfg.AgentCount).
		Build()
	if err != nil {
		return fmt.Errorf("start level: %w", err)
	}

	s.Level = lvl.Number
	s.Map = lvl.Map
	s.Player = lvl.PlayerStart
	s.Agents = make([]*domain.Agent, 0, len(lvl.AgentCells))
	for i, cell := range lvl.AgentCells {
		s.Agents = append(s.Agents, domain.NewAgent(i, cell))
	}
	s.TimeLeft = s.cfg.TimeBudget
	s.Tick = 0
	s.GameOver = false
	s.Paused = false

	s.AddLog(fmt.Sprintf("Уровень %d: карта %dx%d, монет %d, агентов %d",
		s.Level, s.Width, s.Height, s.Map.CountTiles(domain.TileCoin), len(s.Agents)),
		domain.EventLevelStart.String())
	return nil
}

// Move - ход игрока на соседнюю клетку.
// Стена, край карты, пауза и конец игры: ход отклоняется без изменений.
func (s *State) Move(dx, dy int) domain.MoveResult {
	if s.GameOver || s.Paused {
		return domain.MoveResult{Blocked: true}
	}

	res := systems.CalculateMove(s.Player, dx, dy, s.Map)
	if !res.HasMoved {
		if res.IsWall {
			s.log.WithFields(logrus.Fields{
				"x": res.Target.X,
				"y": res.Target.Y,
			}).Debug("Move blocked by wall")
		}
		return domain.MoveResult{Blocked: true, Wall: res.IsWall}
	}

	s.Player = res.Target
	out := domain.MoveResult{Moved: true}

	// 1. Монета
	if res.Tile == domain.TileCoin {
		_ = s.Map.Set(s.Player, domain.TilePath)
		s.addScore(domain.CoinValue)
		out.Coin = true
		s.AddLog(fmt.Sprintf("Монета! +%d (счет %d)", domain.CoinValue, s.Score), domain.EventCoinCollected.String())
	}

	// 2. Столкновение с агентом
	if s.caught() {
		s.finish(domain.EventCaught, "Вас поймали!")
		out.Caught = true
		return out
	}

	// 3. Выход: бонус, карта растет, новый уровень
	if res.Tile == domain.TileEnd {
		s.addScore(domain.GoalBonus)
		s.AddLog(fmt.Sprintf("Уровень %d пройден! +%d", s.Level, domain.GoalBonus), domain.EventLevelComplete.String())

		s.Width += domain.LevelGrowWidth
		s.Height += domain.LevelGrowHeight
		if err := s.startLevel(s.Level + 1); err != nil {
			s.log.WithError(err).Error("Failed to build next level")
			s.finish(domain.EventLevelFailed, "Не удалось построить следующий уровень")
			return out
		}
		out.LevelComplete = true
	}

	return out
}

// TickAgents - один подшаг всех агентов.
// Возвращает false, если тик проигнорирован (пауза или конец игры).
func (s *State) TickAgents() bool {
	if s.GameOver || s.Paused {
		return false
	}
	s.Tick++

	for _, a := range s.Agents {
		systems.StepAgent(a, s.Map, s.Player, s.cfg.InterpolationSteps)
		if a.RenderCell() == s.Player {
			s.finish(domain.EventCaught, fmt.Sprintf("Вас поймал %s", a.ID))
			break
		}
	}
	return true
}

// TickClock - одна секунда обратного отсчета. Ноль - конец игры.
func (s *State) TickClock() bool {
	if s.GameOver || s.Paused {
		return false
	}
	if s.TimeLeft > 0 {
		s.TimeLeft--
	}
	if s.TimeLeft == 0 {
		s.finish(domain.EventTimeUp, "Время вышло!")
	}
	return true
}

// TogglePause переключает паузу. После конца игры не действует.
func (s *State) TogglePause() bool {
	if s.GameOver {
		return false
	}
	s.Paused = !s.Paused
	if s.Paused {
		s.AddLog("Пауза", domain.EventPaused.String())
	} else {
		s.AddLog("Продолжаем", domain.EventResumed.String())
	}
	return true
}

// Restart разрешен только после конца игры.
// Уровень пересоздается в текущих размерах, счет обнуляется, рекорд остается.
func (s *State) Restart() bool {
	if !s.GameOver {
		return false
	}
	if err := s.startLevel(s.Level); err != nil {
		s.log.WithError(err).Error("Failed to restart level")
		return false
	}
	s.Score = 0
	return true
}

// caught - агент в клетке игрока (по видимой клетке, а не логической)
func (s *State) caught() bool {
	for _, a := range s.Agents {
		if a.RenderCell() == s.Player {
			return true
		}
	}
	return false
}

func (s *State) addScore(points int) {
	s.Score += points
	if s.Score > s.HighScore {
		s.HighScore = s.Score
	}
}

// finish переводит партию в конец игры. Повторные вызовы ничего не меняют.
func (s *State) finish(reason domain.EventType, text string) {
	if s.GameOver {
		return
	}
	s.GameOver = true
	s.AddLog(text, reason.String())
	s.log.WithFields(logrus.Fields{
		"reason": reason.String(),
		"level":  s.Level,
		"score":  s.Score,
	}).Info("Game over")
}
