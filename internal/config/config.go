package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Cleanup Config
	// Интервал обхода и порог устаревания намеренно разделены: запись
	// гарантированно живёт LOCATION_TTL, а частый обход ограничивает
	// перелёт сверх TTL одним интервалом.
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1m"`
	LocationTTL     time.Duration `env:"LOCATION_TTL" envDefault:"5m"`

	// WebSocket Config
	WSSendBuffer int `env:"WS_SEND_BUFFER" envDefault:"64"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CleanupInterval: getEnvAsDuration("CLEANUP_INTERVAL", time.Minute),
		LocationTTL:     getEnvAsDuration("LOCATION_TTL", 5*time.Minute),
		WSSendBuffer:    getEnvAsInt("WS_SEND_BUFFER", 64),
	}

	if cfg.CleanupInterval <= 0 {
		return nil, fmt.Errorf("CLEANUP_INTERVAL must be positive")
	}
	if cfg.LocationTTL <= 0 {
		return nil, fmt.Errorf("LOCATION_TTL must be positive")
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
