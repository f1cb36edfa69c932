package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"shift-bot/internal/domain"
)

type Config struct {
	TelegramToken string
	DBPath        string
	PollTimeout   time.Duration
	Workers       int
	QueueSize     int
	MetricsAddr   string
	LogLevel      string
	BreakPolicy   domain.BreakPolicy
}

// LoadConfig reads envFiles (".env" when none given) into the environment,
// then builds the config. A missing default .env is ignored; a file named
// explicitly must load.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if cfg.TelegramToken == "" {
		return nil, ErrNoToken{}
	}
	return cfg, nil
}

// FromEnv builds the config without requiring a token, for commands that
// never talk to Telegram.
func FromEnv() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DBPath:        getEnvOrDefault("DB_PATH", "shift_tracking.db"),
		MetricsAddr:   os.Getenv("METRICS_ADDR"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
	}
	var err error
	if cfg.PollTimeout, err = durationEnv("POLL_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Workers, err = intEnv("WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.QueueSize, err = intEnv("QUEUE_SIZE", 32); err != nil {
		return nil, err
	}
	if cfg.BreakPolicy.RequireShift, err = boolEnv("BREAK_REQUIRES_SHIFT"); err != nil {
		return nil, err
	}
	if cfg.BreakPolicy.SingleOpenBreak, err = boolEnv("SINGLE_OPEN_BREAK"); err != nil {
		return nil, err
	}
	return cfg, nil
}

type ErrNoToken struct{}

func (e ErrNoToken) Error() string {
	return "TELEGRAM_TOKEN is not set"
}

type ErrInvalidValue struct {
	Key   string
	Value string
	Err   error
}

func (e ErrInvalidValue) Error() string {
	return fmt.Sprintf("invalid %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e ErrInvalidValue) Unwrap() error { return e.Err }

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, ErrInvalidValue{Key: key, Value: v, Err: err}
	}
	if n < 1 {
		return 0, ErrInvalidValue{Key: key, Value: v, Err: errors.New("must be positive")}
	}
	return n, nil
}

func boolEnv(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, ErrInvalidValue{Key: key, Value: v, Err: err}
	}
	return b, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, ErrInvalidValue{Key: key, Value: v, Err: err}
	}
	return d, nil
}
