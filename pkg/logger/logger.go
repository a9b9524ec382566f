package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// Создается сразу, чтобы пакеты могли логировать и до Init (например, в тестах).
var Log = logrus.New()

// Init настраивает глобальный логгер из окружения.
// Вызывается один раз при старте приложения в main.go.
func Init() {
	Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stdout)
}

// Configure применяет уровень, формат и вывод.
// Неизвестный уровень превращается в info, неизвестный формат - в text.
func Configure(levelName, format string, out io.Writer) {
	// 1. Уровень. По умолчанию - "info", для отладки - "debug".
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// 2. Форматтер.
	// "json" - для продакшена и сбора логов.
	// "text" - для удобной разработки.
	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	// 3. Куда писать
	Log.SetOutput(out)
}

// Component возвращает логгер с полем component
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
