package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"pursuit-server/internal/agent"
	"pursuit-server/internal/engine"
	"pursuit-server/internal/network"
	"pursuit-server/internal/server"
	"pursuit-server/internal/version"
	"pursuit-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var (
		seed       uint64
		difficulty string
		botMode    bool
		levels     int
	)
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Uint64Var(&seed, "seed", 0, "Master seed (0 for random)")
	flag.StringVar(&difficulty, "difficulty", string(engine.DifficultyEasy), "Difficulty preset: easy, medium, hard")
	flag.BoolVar(&botMode, "bot", false, "Run a headless bot session instead of the server")
	flag.IntVar(&levels, "levels", 3, "Levels the bot must clear before exit (0 for endless)")
	flag.Parse()

	logger.Log.Info("Starting Pursuit Server...")
	logger.Log.Info(version.String())

	d, err := engine.ParseDifficulty(difficulty)
	if err != nil {
		logger.Log.WithError(err).Fatal("Bad -difficulty")
	}
	cfg, err := engine.Preset(d)
	if err != nil {
		logger.Log.WithError(err).Fatal("Bad preset")
	}
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("🎲 Using explicit Master Seed: %d", seed)
	} else {
		logger.Log.Infof("🎲 Using random Master Seed: %d", cfg.Seed)
	}
	if err := cfg.Validate(); err != nil {
		logger.Log.WithError(err).Fatal("Invalid config")
	}

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Инициализация ядра с конфигом
	gameService := engine.NewService(cfg, network.NewBroadcaster())

	// РЕЖИМ БОТА
	if botMode {
		logger.Log.Info("🤖 Mode: Headless Bot")
		runBot(ctx, gameService, levels)
		return
	}

	port := os.Getenv("PD_PORT")
	if port == "" {
		port = "8080"
	}

	// 3. Запуск сервера (блокирует до сигнала)
	srv := server.New(gameService, port)
	if err := srv.Run(ctx); err != nil {
		logger.Log.WithError(err).Fatal("Server error")
	}

	logger.Log.Info("Done.")
}

func runBot(ctx context.Context, svc *engine.GameService, levels int) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess, updates, err := svc.StartSession(ctx)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to start bot session")
	}

	res := agent.NewBot(sess, updates, levels).Run(ctx)
	logger.Log.WithFields(logrus.Fields{
		"levels":     res.LevelsCleared,
		"high_score": res.HighScore,
		"restarts":   res.Restarts,
	}).Info("Bot finished")
}
