package main

import (
	"fmt"
	"os"
	"strconv"

	"pursuit-server/internal/domain"
	"pursuit-server/internal/engine"
	"pursuit-server/internal/systems"
	"pursuit-server/pkg/dungeon"

	"golang.org/x/exp/rand"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	lvl, err := buildLevel(os.Args[2:])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "render":
		fmt.Println(render(lvl, false))
	case "path":
		fmt.Println(render(lvl, true))
		end := domain.Position{X: lvl.Map.Width - 1, Y: lvl.Map.Height - 1}
		if d, ok := systems.Distance(lvl.Map, lvl.PlayerStart, end); ok {
			fmt.Printf("main path: %d cells, shortest S->E: %d steps\n", len(lvl.Map.MainPath), d)
		}
	default:
		printHelp()
	}
}

// buildLevel: <seed> [difficulty] [level]
func buildLevel(args []string) (*dungeon.Level, error) {
	seed, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}

	d := engine.DifficultyEasy
	if len(args) > 1 {
		if d, err = engine.ParseDifficulty(args[1]); err != nil {
			return nil, err
		}
	}
	level := 1
	if len(args) > 2 {
		if level, err = strconv.Atoi(args[2]); err != nil || level < 1 {
			return nil, fmt.Errorf("invalid level %q", args[2])
		}
	}

	cfg, err := engine.Preset(d)
	if err != nil {
		return nil, err
	}
	return dungeon.NewLevel(level, rand.New(rand.NewSource(seed))).
		WithSize(cfg.Width+domain.LevelGrowWidth*(level-1), cfg.Height+domain.LevelGrowHeight*(level-1)).
		WithWalls(cfg.WallProbability).
		WithCoins(cfg.CoinCount).
		WithAgents(cfg.AgentCount).
		Build()
}

// render рисует карту; A - стартовые клетки агентов, * - главный путь
func render(lvl *dungeon.Level, withPath bool) string {
	rows := lvl.Map.Rows()
	grid := make([][]byte, len(rows))
	for y, r := range rows {
		grid[y] = []byte(r)
	}
	if withPath {
		for _, p := range lvl.Map.MainPath {
			if grid[p.Y][p.X] == '.' {
				grid[p.Y][p.X] = '*'
			}
		}
	}
	for _, p := range lvl.AgentCells {
		grid[p.Y][p.X] = 'A'
	}

	out := ""
	for y, r := range grid {
		if y > 0 {
			out += "\n"
		}
		out += string(r)
	}
	return out
}

func printHelp() {
	fmt.Println(`Map Generator - предпросмотр уровней
Commands:
  render <seed> [difficulty] [level]  - сгенерировать и нарисовать уровень
  path <seed> [difficulty] [level]    - то же, с главным путем (*) и длиной кратчайшего пути`)
}
