package domain

// MoveResult - итог одного хода игрока
type MoveResult struct {
	Moved bool // Игрок сменил клетку
	// Blocked - ход отклонен: стена, край карты, пауза или конец игры
	Blocked bool
	Wall    bool // Отклонен стеной или краем карты

	Coin          bool // Подобрана монета
	LevelComplete bool // Достигнут выход, уровень пересоздан
	Caught        bool // После хода игрок оказался в клетке агента
}
