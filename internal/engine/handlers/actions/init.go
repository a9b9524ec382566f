package actions

import "pursuit-server/internal/engine/handlers"

// HandleInit - клиент подключился и просит текущий снимок
func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{
		Msg:     "Добро пожаловать! Соберите монеты и доберитесь до выхода.",
		MsgType: "INFO",
		Changed: true,
	}, nil
}
