package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Значения по умолчанию для необязательных настроек.
const (
	DefaultPollInterval = 60 * time.Second
	DefaultAPIBase      = "https://api.clashofclans.com/v1"
	DefaultOpsAddr      = ":8080"
)

// Config — все настройки процесса. Читаются из окружения один раз на старте;
// отсутствие или порча обязательной настройки — фатальная ошибка.
type Config struct {
	TelegramToken string
	CoCAPIKey     string
	ClanTag       string // без ведущего '#'
	ChatID        int64  // id группы или пользователя, например -5004546651
	PollInterval  time.Duration
	APIBase       string
	OpsAddr       string // адрес служебного HTTP (/healthz, /metrics)
	Debug         bool
}

// Load подхватывает .env (если он есть) и собирает конфиг из окружения.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env опционален
	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг через переданный lookup (удобно для тестов).
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		TelegramToken: getenv("TELEGRAM_TOKEN"),
		CoCAPIKey:     getenv("COC_API_KEY"),
		ClanTag:       strings.TrimPrefix(getenv("CLAN_TAG"), "#"),
		PollInterval:  DefaultPollInterval,
		APIBase:       DefaultAPIBase,
		OpsAddr:       DefaultOpsAddr,
		Debug:         getenv("CW_DEBUG") == "1",
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is missing in environment variables")
	}
	if cfg.CoCAPIKey == "" {
		return nil, fmt.Errorf("COC_API_KEY is missing in environment variables")
	}
	if cfg.ClanTag == "" {
		return nil, fmt.Errorf("CLAN_TAG is missing in environment variables")
	}

	chat := getenv("CHAT_ID")
	if chat == "" {
		return nil, fmt.Errorf("CHAT_ID is missing in environment variables")
	}
	id, err := strconv.ParseInt(chat, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("CHAT_ID must be an integer (group id or user id): %w", err)
	}
	cfg.ChatID = id

	if v := getenv("POLL_INTERVAL"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec <= 0 {
			return nil, fmt.Errorf("POLL_INTERVAL must be a positive integer (seconds), got %q", v)
		}
		cfg.PollInterval = time.Duration(sec) * time.Second
	}
	if v := getenv("COC_API_BASE"); v != "" {
		cfg.APIBase = v
	}
	if v := getenv("OPS_ADDR"); v != "" {
		cfg.OpsAddr = v
	}

	return cfg, nil
}
