package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pursuit-server/internal/domain"
)

// ErrInvalidConfig - конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("invalid config")

// Тактовые частоты по умолчанию
const (
	DefaultAgentTick = 50 * time.Millisecond // Подшаг агентов
	DefaultClockTick = time.Second           // Обратный отсчет
)

// Difficulty - именованный набор параметров уровня
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// preset - четыре числовых параметра сложности
type preset struct {
	wallProbability float64
	agents          int
	timeBudget      int
	coins           int
}

var presets = map[Difficulty]preset{
	DifficultyEasy:   {wallProbability: 0.2, agents: 2, timeBudget: 60, coins: 5},
	DifficultyMedium: {wallProbability: 0.3, agents: 3, timeBudget: 45, coins: 7},
	DifficultyHard:   {wallProbability: 0.4, agents: 4, timeBudget: 30, coins: 10},
}

// ParseDifficulty конвертирует строку (из флага или JSON) в Difficulty
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := presets[d]; !ok {
		return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, s)
	}
	return d, nil
}

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. От него зависят все уровни всех сессий.
	// Сессия N получает Seed + N.
	Seed uint64

	Difficulty Difficulty

	Width           int
	Height          int
	WallProbability float64
	CoinCount       int
	AgentCount      int

	// TimeBudget - секунд на уровень
	TimeBudget int

	// InterpolationSteps - подшагов на один прыжок агента
	InterpolationSteps int

	AgentTick time.Duration
	ClockTick time.Duration
}

// NewConfig создает конфиг по умолчанию (легкая сложность, случайный сид)
func NewConfig() Config {
	cfg, _ := Preset(DifficultyEasy)
	return cfg
}

// Preset собирает конфиг из именованного набора
func Preset(d Difficulty) (Config, error) {
	p, ok := presets[d]
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, d)
	}
	return Config{
		Seed:               uint64(time.Now().UnixNano()),
		Difficulty:         d,
		Width:              domain.BaseWidth,
		Height:             domain.BaseHeight,
		WallProbability:    p.wallProbability,
		CoinCount:          p.coins,
		AgentCount:         p.agents,
		TimeBudget:         p.timeBudget,
		InterpolationSteps: domain.InterpolationSteps,
		AgentTick:          DefaultAgentTick,
		ClockTick:          DefaultClockTick,
	}, nil
}

// Validate проверяет конфиг до генерации первого уровня
func (c Config) Validate() error {
	switch {
	case c.Width < 1:
		return fmt.Errorf("%w: width %d must be positive", ErrInvalidConfig, c.Width)
	case c.Height < 1:
		return fmt.Errorf("%w: height %d must be positive", ErrInvalidConfig, c.Height)
	case c.WallProbability < 0 || c.WallProbability > 1:
		return fmt.Errorf("%w: wall probability %v outside [0,1]", ErrInvalidConfig, c.WallProbability)
	case c.CoinCount < 0:
		return fmt.Errorf("%w: coin count %d is negative", ErrInvalidConfig, c.CoinCount)
	case c.AgentCount < 0:
		return fmt.Errorf("%w: agent count %d is negative", ErrInvalidConfig, c.AgentCount)
	case c.TimeBudget < 1:
		return fmt.Errorf("%w: time budget %d must be positive", ErrInvalidConfig, c.TimeBudget)
	case c.InterpolationSteps < 1:
		return fmt.Errorf("%w: interpolation steps %d must be positive", ErrInvalidConfig, c.InterpolationSteps)
	case c.AgentTick <= 0:
		return fmt.Errorf("%w: agent tick %v must be positive", ErrInvalidConfig, c.AgentTick)
	case c.ClockTick <= 0:
		return fmt.Errorf("%w: clock tick %v must be positive", ErrInvalidConfig, c.ClockTick)
	}
	return nil
}
