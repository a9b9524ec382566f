package domain

// Очки
const (
	CoinValue = 10 // За монету
	GoalBonus = 20 // За выход с уровня
)

// Рост карты при переходе на следующий уровень
const (
	LevelGrowWidth  = 2
	LevelGrowHeight = 1
)

// Параметры по умолчанию
const (
	BaseWidth          = 10
	BaseHeight         = 8
	InterpolationSteps = 10 // Подшагов на один прыжок агента
)
