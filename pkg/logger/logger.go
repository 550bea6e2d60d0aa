package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log - общий логгер процесса. Пакеты вешают на него поле component
// и дальше пишут через полученный Entry.
var Log *logrus.Logger

// Init настраивает Log из окружения. Вызывается один раз в main
// (и в TestMain пакетов, чьи тесты пишут в лог).
//
// LOG_LEVEL  - уровень (debug, info, warn, error); по умолчанию info.
// LOG_FORMAT - "json" для сбора логов, иначе цветной текст.
func Init() {
	Log = logrus.New()

	levelName, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		levelName = "info"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}
