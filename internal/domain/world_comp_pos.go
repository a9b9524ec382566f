package domain

// Shift возвращает новую позицию со смещением (текущая не меняется)
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Sub возвращает вектор от other до p
func (p Position) Sub(other Position) Position {
	return Position{X: p.X - other.X, Y: p.Y - other.Y}
}

// ManhattanTo - расстояние в шагах по сетке без учета стен
func (p Position) ManhattanTo(other Position) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

// IsAdjacent4 возвращает true, если other - соседняя клетка по одной из 4 осей.
// Диагонали соседями не считаются.
func (p Position) IsAdjacent4(other Position) bool {
	return p.ManhattanTo(other) == 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
