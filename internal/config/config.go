package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config конфигурация сервера импорта каталога.
type Config struct {
	// Сервер
	Port string `json:"port"`

	// База каталога
	DatabasePath string `json:"database_path"`

	// Connection pooling
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// Импорт
	MaxImportRecords int   `json:"max_import_records"` // Предел принятых записей за прогон
	MaxUploadBytes   int64 `json:"max_upload_bytes"`   // Предел размера загружаемого файла

	// Ограничение частоты загрузок (запросов в секунду и размер всплеска)
	UploadRatePerSecond float64 `json:"upload_rate_per_second"`
	UploadRateBurst     int     `json:"upload_rate_burst"`
}

// LoadConfig загружает конфигурацию из переменных окружения со
// значениями по умолчанию.
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:                getEnv("PORT", "8080"),
		DatabasePath:        getEnv("CATALOG_DB_PATH", "./catalog.db"),
		MaxOpenConns:        getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:        getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:     getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		MaxImportRecords:    getEnvInt("IMPORT_MAX_RECORDS", 1000),
		MaxUploadBytes:      int64(getEnvInt("IMPORT_MAX_UPLOAD_BYTES", 32<<20)),
		UploadRatePerSecond: getEnvFloat("IMPORT_RATE_PER_SECOND", 1),
		UploadRateBurst:     getEnvInt("IMPORT_RATE_BURST", 3),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate проверяет согласованность конфигурации.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.MaxUploadBytes)
	}
	if c.UploadRatePerSecond <= 0 {
		return fmt.Errorf("upload rate must be positive, got %f", c.UploadRatePerSecond)
	}
	if c.UploadRateBurst <= 0 {
		return fmt.Errorf("upload rate burst must be positive, got %d", c.UploadRateBurst)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
