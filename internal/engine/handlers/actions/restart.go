package actions

import "pursuit-server/internal/engine/handlers"

// HandleRestart перезапускает партию, только если игра окончена
func HandleRestart(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Game.Restart() {
		return handlers.Result{
			Msg:     "Перезапуск доступен только после конца игры.",
			MsgType: "ERROR",
		}, nil
	}
	return handlers.Result{Changed: true}, nil
}
