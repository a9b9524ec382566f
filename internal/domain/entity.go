package domain

import (
	"fmt"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Agent - преследователь. Логически стоит в клетке Cell, а для рендера
// плавно перетекает к Target за N подшагов (один подшаг = один тик).
//
// Состояния:
//   - Idle (Remaining == 0): стоит в Cell, Offset совпадает с Cell.
//   - Interpolating (Remaining > 0): движется к соседней клетке Target.
type Agent struct {
	ID string `json:"id"`

	Cell   Position `json:"cell"`   // Логическая клетка
	Target Position `json:"target"` // Клетка текущего прыжка (сосед или сама Cell)

	// Remaining - сколько подшагов осталось до приземления в Target
	Remaining int `json:"remaining"`

	// DeltaX, DeltaY - смещение за один подшаг, (Target - Cell) / N.
	// Само смещение считают твины, дельта уходит клиенту в снимке.
	DeltaX float64 `json:"deltaX"`
	DeltaY float64 `json:"deltaY"`

	// OffsetX, OffsetY - непрерывная позиция для рендера в единицах клеток
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`

	tweenX *gween.Tween
	tweenY *gween.Tween
}

func NewAgent(index int, cell Position) *Agent {
	return &Agent{
		ID:      fmt.Sprintf("agent_%d", index),
		Cell:    cell,
		Target:  cell,
		OffsetX: float64(cell.X),
		OffsetY: float64(cell.Y),
	}
}

// Interpolating - агент в середине прыжка
func (a *Agent) Interpolating() bool {
	return a.Remaining > 0
}

// BeginHop начинает прыжок в target длиной steps подшагов.
// target == Cell означает "стоять на месте" (путь не найден).
func (a *Agent) BeginHop(target Position, steps int) {
	if steps < 1 {
		steps = 1
	}
	a.Target = target
	a.Remaining = steps
	a.DeltaX = float64(target.X-a.Cell.X) / float64(steps)
	a.DeltaY = float64(target.Y-a.Cell.Y) / float64(steps)

	a.tweenX = gween.New(float32(a.Cell.X), float32(target.X), float32(steps), ease.Linear)
	a.tweenY = gween.New(float32(a.Cell.Y), float32(target.Y), float32(steps), ease.Linear)
}

// Advance делает один подшаг. Возвращает true, если агент приземлился в Target.
func (a *Agent) Advance() bool {
	if a.Remaining == 0 {
		return false
	}

	x, _ := a.tweenX.Update(1)
	y, _ := a.tweenY.Update(1)
	a.OffsetX = float64(x)
	a.OffsetY = float64(y)
	a.Remaining--

	if a.Remaining > 0 {
		return false
	}

	// Приземление: логическая клетка = цель, смещение без накопленной погрешности
	a.Cell = a.Target
	a.OffsetX = float64(a.Cell.X)
	a.OffsetY = float64(a.Cell.Y)
	a.tweenX, a.tweenY = nil, nil
	return true
}

// RenderCell - клетка, в которой агента видно на экране (пол от смещения).
// По ней считается столкновение с игроком.
func (a *Agent) RenderCell() Position {
	return Position{
		X: int(math.Floor(a.OffsetX)),
		Y: int(math.Floor(a.OffsetY)),
	}
}
