package actions

import "pursuit-server/internal/engine/handlers"

func HandlePause(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{Changed: ctx.Game.TogglePause()}, nil
}
