package engine

import (
	"strconv"
	"time"
)

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. Зерно уровня N = Seed + N,
	// поэтому одна строка воспроизводит всю кампанию.
	Seed string

	// CampaignPath - путь к внешнему YAML кампании.
	// Пусто = встроенная кампания.
	CampaignPath string

	// SavePath - файл базы сохранений. Пусто = сохранения выключены.
	SavePath string
}

// NewConfig создает конфиг по умолчанию (случайное зерно)
func NewConfig() Config {
	return Config{
		Seed: strconv.FormatInt(time.Now().UnixNano(), 36),
	}
}
