package systems

import (
	"pursuit-server/internal/domain"

	"github.com/zyedidia/generic/queue"
)

// neighbours4 - порядок обхода соседей: вверх, вправо, вниз, влево.
// Фиксированный порядок делает результат поиска детерминированным.
var neighbours4 = [4]domain.Position{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

// ShortestPath ищет кратчайший маршрут по 4-связной сетке (поиск в ширину).
// Возвращает клетки от первого шага до goal включительно, без start.
// Пустой результат: goal недостижима или start == goal.
// Функция чистая и не хранит состояния между вызовами.
func ShortestPath(m *domain.GridMap, start, goal domain.Position) []domain.Position {
	if start == goal || !m.InBounds(start) || !m.IsWalkable(goal) {
		return nil
	}

	// prev служит и множеством посещенных клеток
	prev := map[domain.Position]domain.Position{start: start}

	q := queue.New[domain.Position]()
	q.Enqueue(start)

	found := false
	for !q.Empty() {
		current := q.Dequeue()
		if current == goal {
			found = true
			break
		}

		for _, d := range neighbours4 {
			next := current.Shift(d.X, d.Y)
			if !m.IsWalkable(next) {
				continue
			}
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = current
			q.Enqueue(next)
		}
	}

	if !found {
		return nil
	}

	// Восстанавливаем путь от цели к старту и разворачиваем
	var path []domain.Position
	for cell := goal; cell != start; cell = prev[cell] {
		path = append(path, cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Distance - длина кратчайшего маршрута в шагах.
// ok == false, если цель недостижима (start == goal дает 0, true).
func Distance(m *domain.GridMap, start, goal domain.Position) (steps int, ok bool) {
	if start == goal {
		return 0, true
	}
	path := ShortestPath(m, start, goal)
	if len(path) == 0 {
		return 0, false
	}
	return len(path), true
}
