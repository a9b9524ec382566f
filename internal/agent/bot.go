package agent

import (
	"context"
	"encoding/json"
	"time"

	"pursuit-server/internal/domain"
	"pursuit-server/internal/systems"
	"pursuit-server/pkg/api"
	"pursuit-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// DefaultMoveEvery - не чаще одного хода за этот интервал
const DefaultMoveEvery = 150 * time.Millisecond

// Submitter принимает команды игрока. engine.Session неявно реализует этот интерфейс.
type Submitter interface {
	Submit(ctx context.Context, cmd api.ClientCommand) error
}

// Bot представляет собой "Игрока-компьютера" (Headless Agent).
// Он получает те же снимки, что и WebSocket-клиент, и отвечает теми же командами.
//
// Жизненный цикл:
//  1. NewBot -> получает сессию и ее канал снимков (Inbox).
//  2. Run -> слушает Inbox, пока канал не закрыт, не отменен ctx или не пройдено MaxLevels.
//  3. На самый свежий снимок вызывается NextMove: не чаще MoveEvery и только
//     после того, как сервер применил предыдущий ход.
//  4. После конца игры бот перезапускает уровень.
type Bot struct {
	Session Submitter
	Inbox   <-chan api.ServerResponse

	MaxLevels int // 0 - без ограничения
	MoveEvery time.Duration

	log *logrus.Entry
}

// Result - итог работы бота
type Result struct {
	LevelsCleared int `json:"levelsCleared"`
	HighScore     int `json:"highScore"`
	Restarts      int `json:"restarts"`
}

func NewBot(session Submitter, inbox <-chan api.ServerResponse, maxLevels int) *Bot {
	return &Bot{
		Session:   session,
		Inbox:     inbox,
		MaxLevels: maxLevels,
		MoveEvery: DefaultMoveEvery,
		log:       logger.Component("bot"),
	}
}

// Run запускает цикл жизни бота. Блокирует до завершения.
func (b *Bot) Run(ctx context.Context) Result {
	var res Result
	var gate moveGate
	restartSent := false

	for {
		var state api.ServerResponse
		var ok bool
		select {
		case <-ctx.Done():
			return res
		case state, ok = <-b.Inbox:
			if !ok {
				b.log.Info("Session closed, bot shut down")
				return res
			}
		}

		// Очередь могла накопиться: решаем только по самому свежему снимку
		state, open := b.latest(state)

		if state.Type == api.ResponseUpdate {
			res.LevelsCleared = state.Level - 1
			if state.HighScore > res.HighScore {
				res.HighScore = state.HighScore
			}
			if b.MaxLevels > 0 && res.LevelsCleared >= b.MaxLevels {
				b.log.WithFields(logrus.Fields{
					"levels":     res.LevelsCleared,
					"high_score": res.HighScore,
				}).Info("Level goal reached")
				return res
			}

			if state.GameOver {
				// 1. Конец игры: один перезапуск на каждый проигрыш
				gate.reset()
				if !restartSent {
					restartSent = true
					res.Restarts++
					b.send(ctx, domain.ActionRestart, nil)
				}
			} else {
				restartSent = false

				// 2. Ход
				if !state.Paused && gate.ready(state, time.Now(), b.MoveEvery) {
					if dir, ok := NextMove(state); ok {
						gate.sent(state, time.Now())
						b.send(ctx, domain.ActionMove, dir)
					}
				}
			}
		}

		if !open {
			b.log.Info("Session closed, bot shut down")
			return res
		}
	}
}

// latest вычитывает накопившиеся снимки без блокировки и возвращает последний UPDATE.
// open == false, если канал закрылся во время вычитки.
func (b *Bot) latest(state api.ServerResponse) (api.ServerResponse, bool) {
	for {
		select {
		case next, ok := <-b.Inbox:
			if !ok {
				return state, false
			}
			if next.Type == api.ResponseUpdate || state.Type != api.ResponseUpdate {
				state = next
			}
		default:
			return state, true
		}
	}
}

// moveRetry - через сколько повторить ход, если снимок так и не показал его результат
const moveRetry = 500 * time.Millisecond

// moveGate не дает отправить новый ход, пока сервер не применил предыдущий.
// Ход считается примененным, когда в снимке сменилась клетка игрока или уровень.
type moveGate struct {
	pending bool
	from    api.PositionView
	level   int
	at      time.Time
}

func (g *moveGate) ready(state api.ServerResponse, now time.Time, every time.Duration) bool {
	if now.Sub(g.at) < every {
		return false
	}
	if !g.pending {
		return true
	}
	if state.Player != g.from || state.Level != g.level || now.Sub(g.at) >= moveRetry {
		g.pending = false
		return true
	}
	return false
}

func (g *moveGate) sent(state api.ServerResponse, now time.Time) {
	g.pending = true
	g.from = state.Player
	g.level = state.Level
	g.at = now
}

func (g *moveGate) reset() {
	g.pending = false
}

// NextMove - мозг бота. Идет к ближайшей монете, а когда их нет - к выходу.
// Клетки агентов и соседние с ними считаются стенами, пока есть обходной путь.
func NextMove(state api.ServerResponse) (api.DirectionPayload, bool) {
	// --- ШАГ 1: ВОССОЗДАНИЕ ЛОКАЛЬНОЙ КАРТЫ ---
	localMap, err := domain.ParseGridMap(state.Map)
	if err != nil {
		return api.DirectionPayload{}, false
	}
	me := domain.Position{X: state.Player.X, Y: state.Player.Y}

	// --- ШАГ 2: ЦЕЛИ ---
	var coins []domain.Position
	exit := domain.Position{X: localMap.Width - 1, Y: localMap.Height - 1}
	for y := 0; y < localMap.Height; y++ {
		for x := 0; x < localMap.Width; x++ {
			switch localMap.Tiles[y][x] {
			case domain.TileCoin:
				coins = append(coins, domain.Position{X: x, Y: y})
			case domain.TileEnd:
				exit = domain.Position{X: x, Y: y}
			}
		}
	}

	// --- ШАГ 3: ОПАСНЫЕ КЛЕТКИ ---
	cautious, _ := domain.ParseGridMap(state.Map)
	for _, a := range state.Agents {
		danger := []domain.Position{
			{X: a.Cell.X, Y: a.Cell.Y},
			{X: int(a.X + 0.5), Y: int(a.Y + 0.5)},
		}
		for _, d := range danger {
			for _, n := range []domain.Position{d, d.Shift(0, -1), d.Shift(1, 0), d.Shift(0, 1), d.Shift(-1, 0)} {
				if n != me {
					_ = cautious.Set(n, domain.TileWall)
				}
			}
		}
	}

	// --- ШАГ 4: ПОИСК ПУТИ ---
	// Сначала с обходом агентов, потом напрямую
	for _, m := range []*domain.GridMap{cautious, localMap} {
		if step, ok := plan(m, me, coins, exit); ok {
			d := step.Sub(me)
			return api.DirectionPayload{Dx: d.X, Dy: d.Y}, true
		}
	}
	return api.DirectionPayload{}, false
}

// plan выбирает первый шаг: к монетам в обход выхода, иначе к выходу
func plan(m *domain.GridMap, me domain.Position, coins []domain.Position, exit domain.Position) (domain.Position, bool) {
	if len(coins) > 0 {
		saved := m.At(exit)
		_ = m.Set(exit, domain.TileWall)
		step, ok := firstStep(m, me, coins)
		_ = m.Set(exit, saved)
		if ok {
			return step, true
		}
	}
	return firstStep(m, me, []domain.Position{exit})
}

// firstStep - первый шаг к ближайшей достижимой цели (по длине пути)
func firstStep(m *domain.GridMap, me domain.Position, goals []domain.Position) (domain.Position, bool) {
	var best []domain.Position
	for _, g := range goals {
		path := systems.ShortestPath(m, me, g)
		if len(path) > 0 && (best == nil || len(path) < len(best)) {
			best = path
		}
	}
	if best == nil {
		return domain.Position{}, false
	}
	return best[0], true
}

// --- Хелперы для отправки команд ---

func (b *Bot) send(ctx context.Context, action domain.ActionType, payload interface{}) {
	cmd := api.ClientCommand{Action: action.String()}
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			b.log.WithError(err).Error("Error marshalling payload")
			return
		}
		cmd.Payload = payloadBytes
	}

	if err := b.Session.Submit(ctx, cmd); err != nil {
		b.log.WithError(err).WithField("action", cmd.Action).Debug("Command not delivered")
	}
}
