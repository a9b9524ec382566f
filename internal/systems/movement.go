package systems

import (
	"pursuit-server/internal/domain"
)

// MovementResult - результат вычисления хода игрока
type MovementResult struct {
	Target   domain.Position
	HasMoved bool
	IsWall   bool        // Врезались в стену или край карты
	Tile     domain.Tile // Тайл клетки назначения (для подбора монеты или выхода)
}

// CalculateMove вычисляет новую позицию игрока. Не меняет состояние мира!
// Разрешены только шаги на одну клетку по одной оси.
func CalculateMove(from domain.Position, dx, dy int, m *domain.GridMap) MovementResult {
	targetPos := from.Shift(dx, dy)
	res := MovementResult{Target: targetPos}

	// 1. Проверка вектора: ровно одна ось, шаг 1
	if !from.IsAdjacent4(targetPos) {
		return res
	}

	// 2. Проверка границ
	if !m.InBounds(targetPos) {
		res.IsWall = true
		return res
	}

	// 3. Проверка стен
	res.Tile = m.At(targetPos)
	if !res.Tile.IsWalkable() {
		res.IsWall = true
		return res
	}

	res.HasMoved = true
	return res
}
