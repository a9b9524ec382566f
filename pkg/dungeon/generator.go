package dungeon

import (
	"errors"
	"fmt"

	"pursuit-server/internal/domain"
	"pursuit-server/pkg/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

// Константы генерации
const (
	// DefaultXAdvance - вероятность шагнуть по X при построении главного пути
	DefaultXAdvance = 0.5

	// CoinAttemptFactor ограничивает случайные попытки поставить монету:
	// не больше CoinAttemptFactor * W * H выборок, дальше полный перебор.
	CoinAttemptFactor = 20
)

// ErrInvalidParams - параметры генерации не прошли проверку
var ErrInvalidParams = errors.New("invalid generation params")

// Params - входные параметры генератора карты
type Params struct {
	Width           int
	Height          int
	WallProbability float64
	CoinCount       int

	// XAdvanceProbability - шанс шага вправо на главном пути.
	// 0 означает DefaultXAdvance.
	XAdvanceProbability float64
}

// Validate проверяет параметры до генерации
func (p Params) Validate() error {
	switch {
	case p.Width < 1 || p.Height < 1:
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidParams, p.Width, p.Height)
	case p.WallProbability < 0 || p.WallProbability > 1:
		return fmt.Errorf("%w: wall probability %v outside [0,1]", ErrInvalidParams, p.WallProbability)
	case p.XAdvanceProbability < 0 || p.XAdvanceProbability > 1:
		return fmt.Errorf("%w: x-advance probability %v outside [0,1]", ErrInvalidParams, p.XAdvanceProbability)
	case p.CoinCount < 0:
		return fmt.Errorf("%w: coin count %d is negative", ErrInvalidParams, p.CoinCount)
	}
	return nil
}

// Generate создает новую карту уровня.
// Результат зависит только от параметров и состояния rng.
func Generate(p Params, rng *rand.Rand) (*domain.GridMap, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	xProb := p.XAdvanceProbability
	if xProb == 0 {
		xProb = DefaultXAdvance
	}

	m := domain.NewGridMap(p.Width, p.Height)

	// 1. Гарантированный путь из (0,0) в (W-1,H-1)
	m.SetMainPath(carveMainPath(p.Width, p.Height, xProb, rng))

	// 2. Стены (кроме главного пути)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			pos := domain.Position{X: x, Y: y}
			if !m.OnMainPath(pos) && rng.Float64() < p.WallProbability {
				m.Tiles[y][x] = domain.TileWall
			}
		}
	}

	// 3. Старт и финиш
	m.Tiles[0][0] = domain.TileStart
	m.Tiles[p.Height-1][p.Width-1] = domain.TileEnd

	// 4. Монеты
	placed := placeCoins(m, p.CoinCount, rng)
	if placed < p.CoinCount {
		logger.Component("dungeon").WithFields(logrus.Fields{
			"requested": p.CoinCount,
			"placed":    placed,
			"width":     p.Width,
			"height":    p.Height,
		}).Warn("Not enough free cells for coins")
	}

	return m, nil
}

// carveMainPath строит монотонную "лесенку": каждый шаг вправо или вниз,
// пока не достигнут дальний угол. Соседние клетки пути всегда смежны по стороне.
func carveMainPath(width, height int, xProb float64, rng *rand.Rand) []domain.Position {
	path := make([]domain.Position, 0, width+height-1)
	x, y := 0, 0
	path = append(path, domain.Position{X: x, Y: y})

	for x < width-1 || y < height-1 {
		switch {
		case x < width-1 && y < height-1:
			if rng.Float64() < xProb {
				x++
			} else {
				y++
			}
		case x < width-1:
			x++
		default:
			y++
		}
		path = append(path, domain.Position{X: x, Y: y})
	}
	return path
}

// placeCoins ставит до count монет на свободные клетки вне главного пути.
// Возвращает фактическое количество.
func placeCoins(m *domain.GridMap, count int, rng *rand.Rand) int {
	if count == 0 {
		return 0
	}

	eligible := func(p domain.Position) bool {
		return m.At(p) == domain.TilePath && !m.OnMainPath(p)
	}

	placed := 0
	maxAttempts := CoinAttemptFactor * m.Width * m.Height
	for attempt := 0; attempt < maxAttempts && placed < count; attempt++ {
		p := domain.Position{X: rng.Intn(m.Width), Y: rng.Intn(m.Height)}
		if eligible(p) {
			m.Tiles[p.Y][p.X] = domain.TileCoin
			placed++
		}
	}
	if placed == count {
		return placed
	}

	// Лимит попыток исчерпан: перебираем все оставшиеся клетки в случайном порядке
	var free []domain.Position
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if p := (domain.Position{X: x, Y: y}); eligible(p) {
				free = append(free, p)
			}
		}
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	for _, p := range free {
		if placed == count {
			break
		}
		m.Tiles[p.Y][p.X] = domain.TileCoin
		placed++
	}
	return placed
}
