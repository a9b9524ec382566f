package handlers

import (
	"encoding/json"

	"pursuit-server/internal/domain"
)

// Game описывает операции партии, доступные командам игрока.
// engine.State неявно реализует этот интерфейс.
type Game interface {
	Move(dx, dy int) domain.MoveResult
	TogglePause() bool
	Restart() bool
}

// Context передает хендлеру партию, в которой выполняется команда.
type Context struct {
	SessionID string
	Game      Game
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в логи партии напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст лога
	MsgType string // Тип лога (INFO, ERROR)

	// Changed - состояние изменилось, нужно разослать снимок
	Changed bool
}

// HandlerFunc - это контракт для любой команды (MOVE, PAUSE, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
