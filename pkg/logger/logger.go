package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init пишет в stderr с настройками logrus по умолчанию,
// поэтому пакеты можно тестировать без инициализации.
var Log = logrus.New()

// Init инициализирует глобальный логгер из переменных окружения.
// Эта функция должна быть вызвана один раз при старте приложения в main.go.
//
//	LOG_LEVEL  - уровень (по умолчанию "info"; для отладки "debug")
//	LOG_FORMAT - "json" для продакшена и сбора логов, иначе текст
func Init() {
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	Configure(logLevel, os.Getenv("LOG_FORMAT"), os.Stdout)
}

// Configure задает уровень, формат и вывод явно (флаги CLI, тесты).
func Configure(logLevel, logFormat string, out io.Writer) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(logFormat) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(out)
}

// Component возвращает запись с полем component, как принято во всех подсистемах.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
