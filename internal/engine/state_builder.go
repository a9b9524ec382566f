package engine

import (
	"pursuit-server/internal/domain"
	"pursuit-server/pkg/api"
)

// Snapshot создает "снимок" партии для рендера.
// Логи копируются, но не очищаются (см. DrainLogs).
func (s *State) Snapshot() *api.ServerResponse {
	agents := make([]api.AgentView, 0, len(s.Agents))
	for _, a := range s.Agents {
		view := api.AgentView{
			ID:   a.ID,
			Cell: api.PositionView{X: a.Cell.X, Y: a.Cell.Y},
			X:    a.OffsetX,
			Y:    a.OffsetY,
		}
		if a.Interpolating() {
			view.Dx, view.Dy = a.DeltaX, a.DeltaY
		}
		agents = append(agents, view)
	}

	logsCopy := make([]api.LogEntry, len(s.Logs))
	copy(logsCopy, s.Logs)

	return &api.ServerResponse{
		Type:      api.ResponseUpdate,
		Tick:      s.Tick,
		Level:     s.Level,
		Grid:      &api.GridMeta{Width: s.Map.Width, Height: s.Map.Height},
		Map:       s.Map.Rows(),
		Player:    api.PositionView{X: s.Player.X, Y: s.Player.Y},
		Agents:    agents,
		Score:     s.Score,
		HighScore: s.HighScore,
		TimeLeft:  s.TimeLeft,
		CoinsLeft: s.Map.CountTiles(domain.TileCoin),
		GameOver:  s.GameOver,
		Paused:    s.Paused,
		Logs:      logsCopy,
	}
}
