package dungeon

import (
	"pursuit-server/internal/domain"

	"github.com/zyedidia/generic/mapset"
	"golang.org/x/exp/rand"
)

// spawnAttemptFactor - сколько случайных выборок на одного агента до полного перебора
const spawnAttemptFactor = 50

// SpawnAgents выбирает count различных клеток для преследователей.
// Подходят только клетки Path (не Start/End/Coin), не входящие в avoid.
// Если карта не вмещает всех, возвращается меньше позиций.
func SpawnAgents(m *domain.GridMap, count int, avoid []domain.Position, rng *rand.Rand) []domain.Position {
	if count <= 0 {
		return nil
	}

	taken := mapset.New[domain.Position]()
	for _, p := range avoid {
		taken.Put(p)
	}

	free := func(p domain.Position) bool {
		return m.At(p) == domain.TilePath && !taken.Has(p)
	}

	cells := make([]domain.Position, 0, count)

	// 1. Случайные попытки
	for attempt := 0; attempt < spawnAttemptFactor*count && len(cells) < count; attempt++ {
		p := domain.Position{X: rng.Intn(m.Width), Y: rng.Intn(m.Height)}
		if free(p) {
			taken.Put(p)
			cells = append(cells, p)
		}
	}
	if len(cells) == count {
		return cells
	}

	// 2. Перебор всех оставшихся клеток в случайном порядке
	for _, idx := range rng.Perm(m.Width * m.Height) {
		if len(cells) == count {
			break
		}
		p := domain.Position{X: idx % m.Width, Y: idx / m.Width}
		if free(p) {
			taken.Put(p)
			cells = append(cells, p)
		}
	}
	return cells
}
