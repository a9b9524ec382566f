package systems

import (
	"pursuit-server/internal/domain"
)

// StepAgent выполняет один тик движения агента.
//
// Если агент стоит (прыжок завершен), маршрут до игрока пересчитывается заново
// и начинается прыжок к первой клетке пути. Путь не найден - агент "стоит"
// на месте те же steps подшагов. Затем всегда делается один подшаг.
//
// Возвращает true, если на этом тике агент приземлился в новую клетку.
func StepAgent(a *domain.Agent, m *domain.GridMap, player domain.Position, steps int) bool {
	if !a.Interpolating() {
		target := a.Cell
		if path := ShortestPath(m, a.Cell, player); len(path) > 0 {
			target = path[0]
		}
		a.BeginHop(target, steps)
	}

	return a.Advance()
}
