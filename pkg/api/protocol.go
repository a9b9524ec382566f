package api

import (
	"encoding/json"
)

// Типы сообщений сервера
const (
	ResponseUpdate   = "UPDATE"
	ResponseError    = "ERROR"
	ResponseShutdown = "SHUTDOWN"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет клиенту.
// Он представляет собой полный "снимок" сессии: карту, игрока, агентов и счетчики.
// Отправляется после каждой мутации состояния (ход, тик агентов, тик часов).
type ServerResponse struct {
	// Type тип сообщения: "UPDATE" или "ERROR".
	Type string `json:"type"`

	// SessionID идентификатор сессии (UUID), к которой относится снимок.
	SessionID string `json:"sessionId,omitempty"`

	// Tick номер тика агентов с начала уровня.
	Tick int `json:"tick"`

	// Level номер текущего уровня (с 1).
	Level int `json:"level"`

	// Grid метаданные о размере карты.
	Grid *GridMeta `json:"grid,omitempty"`

	// Map карта построчно в ASCII: '#' стена, '.' проход, 'S' старт, 'E' выход, 'C' монета.
	Map []string `json:"map,omitempty"`

	// Player клетка игрока.
	Player PositionView `json:"player"`

	// Agents преследователи с непрерывной позицией для рендера.
	Agents []AgentView `json:"agents"`

	Score     int  `json:"score"`
	HighScore int  `json:"highScore"`
	TimeLeft  int  `json:"timeLeft"`
	CoinsLeft int  `json:"coinsLeft"`
	GameOver  bool `json:"gameOver"`
	Paused    bool `json:"paused"`

	// Logs срез новых сообщений, сгенерированных с прошлого снимка.
	Logs []LogEntry `json:"logs,omitempty"`

	// Error текст ошибки для Type == "ERROR".
	Error string `json:"error,omitempty"`
}

// GridMeta содержит размеры карты, чтобы клиент знал,
// какую сетку для рендеринга нужно подготовить.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// PositionView - клетка на карте
type PositionView struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// AgentView это DTO для преследователя.
type AgentView struct {
	ID string `json:"id"`

	// Cell логическая клетка агента.
	Cell PositionView `json:"cell"`

	// X, Y позиция для рендера в единицах клеток (дробная во время прыжка).
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Dx, Dy смещение за один подшаг текущего прыжка (ноль, если агент стоит).
	// Клиент может экстраполировать позицию между снимками.
	Dx float64 `json:"dx"`
	Dy float64 `json:"dy"`
}

// LogEntry представляет одну запись в игровом логе.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, COIN, LEVEL, DANGER
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// SessionInfo - краткое описание сессии для отладочного API
type SessionInfo struct {
	ID        string `json:"id"`
	Level     int    `json:"level"`
	Score     int    `json:"score"`
	HighScore int    `json:"highScore"`
	TimeLeft  int    `json:"timeLeft"`
	GameOver  bool   `json:"gameOver"`
	Paused    bool   `json:"paused"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Action название действия: INIT, MOVE, PAUSE, RESTART.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// DirectionPayload используется для MOVE.
type DirectionPayload struct {
	Dx int `json:"dx"` // Смещение по X (-1, 0, 1)
	Dy int `json:"dy"` // Смещение по Y (-1, 0, 1)
}
