package dungeon

import (
	"fmt"

	"pursuit-server/internal/domain"

	"golang.org/x/exp/rand"
)

// Level - готовый уровень: карта, старт игрока и клетки агентов
type Level struct {
	Number      int
	Map         *domain.GridMap
	PlayerStart domain.Position
	AgentCells  []domain.Position
}

// LevelBuilder предоставляет fluent API для создания уровней
type LevelBuilder struct {
	level  int
	params Params
	agents int
	rng    *rand.Rand
}

// NewLevel создает новый builder для уровня с базовым размером карты
func NewLevel(level int, rng *rand.Rand) *LevelBuilder {
	return &LevelBuilder{
		level: level,
		params: Params{
			Width:  domain.BaseWidth,
			Height: domain.BaseHeight,
		},
		rng: rng,
	}
}

// WithSize устанавливает размер карты
func (b *LevelBuilder) WithSize(width, height int) *LevelBuilder {
	b.params.Width = width
	b.params.Height = height
	return b
}

// WithWalls задает плотность стен вне главного пути
func (b *LevelBuilder) WithWalls(probability float64) *LevelBuilder {
	b.params.WallProbability = probability
	return b
}

// WithCoins задает число монет
func (b *LevelBuilder) WithCoins(count int) *LevelBuilder {
	b.params.CoinCount = count
	return b
}

// WithXAdvance задает смещение "лесенки" в сторону шагов по X
func (b *LevelBuilder) WithXAdvance(probability float64) *LevelBuilder {
	b.params.XAdvanceProbability = probability
	return b
}

// WithAgents задает число преследователей
func (b *LevelBuilder) WithAgents(count int) *LevelBuilder {
	b.agents = count
	return b
}

// Build генерирует карту и расставляет агентов.
// Игрок всегда стартует в (0,0), агенты туда не ставятся.
func (b *LevelBuilder) Build() (*Level, error) {
	m, err := Generate(b.params, b.rng)
	if err != nil {
		return nil, fmt.Errorf("level %d: %w", b.level, err)
	}

	start := domain.Position{X: 0, Y: 0}
	return &Level{
		Number:      b.level,
		Map:         m,
		PlayerStart: start,
		AgentCells:  SpawnAgents(m, b.agents, []domain.Position{start}, b.rng),
	}, nil
}
