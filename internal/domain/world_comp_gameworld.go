package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// ErrOutOfBounds возвращается при обращении к клетке за пределами карты
var ErrOutOfBounds = errors.New("out of bounds")

// String реализует интерфейс Stringer (для логов)
func (t Tile) String() string {
	if val, ok := tileToString[t]; ok {
		return val
	}
	return "UNKNOWN"
}

// Symbol возвращает ASCII-символ тайла ('#', '.', 'S', 'E', 'C')
func (t Tile) Symbol() byte {
	if val, ok := tileToSymbol[t]; ok {
		return val
	}
	return '?'
}

// IsWalkable - всё, кроме стены, проходимо
func (t Tile) IsWalkable() bool {
	return t != TileWall
}

// ParseTile конвертирует ASCII-символ в Tile
func ParseTile(symbol byte) (Tile, bool) {
	t, ok := symbolToTile[symbol]
	return t, ok
}

// NewGridMap создает открытую карту (все клетки Path) без главного пути
func NewGridMap(width, height int) *GridMap {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
	}
	return &GridMap{
		Width:  width,
		Height: height,
		Tiles:  tiles,
		onPath: mapset.New[Position](),
	}
}

// ParseGridMap собирает карту из строк ASCII (одна строка = один ряд).
// Используется в тестах и ботом для восстановления карты из снимка.
func ParseGridMap(rows []string) (*GridMap, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("empty map")
	}
	m := NewGridMap(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != m.Width {
			return nil, fmt.Errorf("row %d: width %d, expected %d", y, len(row), m.Width)
		}
		for x := 0; x < len(row); x++ {
			t, ok := ParseTile(row[x])
			if !ok {
				return nil, fmt.Errorf("row %d col %d: unknown tile %q", y, x, row[x])
			}
			m.Tiles[y][x] = t
		}
	}
	return m, nil
}

// SetMainPath запоминает гарантированный маршрут и индекс принадлежности
func (m *GridMap) SetMainPath(path []Position) {
	m.MainPath = path
	m.onPath = mapset.New[Position]()
	for _, p := range path {
		m.onPath.Put(p)
	}
}

// OnMainPath проверяет, лежит ли клетка на гарантированном маршруте
func (m *GridMap) OnMainPath(p Position) bool {
	return m.onPath.Has(p)
}

func (m *GridMap) InBounds(p Position) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height
}

// At возвращает тайл клетки. За пределами карты считаем стену.
func (m *GridMap) At(p Position) Tile {
	if !m.InBounds(p) {
		return TileWall
	}
	return m.Tiles[p.Y][p.X]
}

// Set меняет тайл клетки
func (m *GridMap) Set(p Position, t Tile) error {
	if !m.InBounds(p) {
		return fmt.Errorf("set %v at (%d,%d): %w", t, p.X, p.Y, ErrOutOfBounds)
	}
	m.Tiles[p.Y][p.X] = t
	return nil
}

// IsWalkable - клетка на карте и не стена
func (m *GridMap) IsWalkable(p Position) bool {
	return m.InBounds(p) && m.Tiles[p.Y][p.X].IsWalkable()
}

// CountTiles считает клетки заданного типа
func (m *GridMap) CountTiles(t Tile) int {
	n := 0
	for y := range m.Tiles {
		for _, cell := range m.Tiles[y] {
			if cell == t {
				n++
			}
		}
	}
	return n
}

// Rows возвращает карту построчно в ASCII (формат снимка для клиента)
func (m *GridMap) Rows() []string {
	rows := make([]string, m.Height)
	buf := make([]byte, m.Width)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			buf[x] = m.Tiles[y][x].Symbol()
		}
		rows[y] = string(buf)
	}
	return rows
}

func (m *GridMap) String() string {
	return strings.Join(m.Rows(), "\n")
}
