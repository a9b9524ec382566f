package actions

import (
	"pursuit-server/internal/engine/handlers"
	"pursuit-server/pkg/api"
)

func HandleMove(ctx handlers.Context, p api.DirectionPayload) (handlers.Result, error) {
	res := ctx.Game.Move(p.Dx, p.Dy)
	if res.Blocked {
		// Стена или пауза: состояние не менялось
		return handlers.EmptyResult(), nil
	}
	return handlers.Result{Changed: true}, nil
}
