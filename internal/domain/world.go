package domain

import "github.com/zyedidia/generic/mapset"

// Position - координата клетки на карте (X - столбец, Y - строка)
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Tile - семантический тип одной клетки карты.
// Нулевое значение - проходимая клетка, чтобы свежая сетка была открытой.
type Tile uint8

const (
	TilePath Tile = iota
	TileWall
	TileStart
	TileEnd
	TileCoin
)

// Маппинг для отладочного вывода Tile -> Symbol
var tileToSymbol = map[Tile]byte{
	TilePath:  '.',
	TileWall:  '#',
	TileStart: 'S',
	TileEnd:   'E',
	TileCoin:  'C',
}

// Маппинг для фикстур и локальной карты бота Symbol -> Tile
var symbolToTile = map[byte]Tile{
	'.': TilePath,
	'#': TileWall,
	'S': TileStart,
	'E': TileEnd,
	'C': TileCoin,
}

var tileToString = map[Tile]string{
	TilePath:  "PATH",
	TileWall:  "WALL",
	TileStart: "START",
	TileEnd:   "END",
	TileCoin:  "COIN",
}

// GridMap - сгенерированная карта уровня.
// Tiles индексируется как Tiles[y][x], так же как в рендере.
// После генерации меняются только монеты (Coin -> Path при подборе).
type GridMap struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Tiles  [][]Tile `json:"tiles"`

	// MainPath - гарантированный маршрут от (0,0) до (W-1,H-1) в порядке обхода.
	MainPath []Position `json:"mainPath"`

	// onPath дублирует MainPath для проверки принадлежности за O(1).
	onPath mapset.Set[Position]
}
