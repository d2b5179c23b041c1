package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default возвращает конфигурацию для локальной разработки.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          "5000",
			BasePath:      "/api",
			PruneInterval: time.Hour,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "food_delivery",
			SSLMode: "disable",
			Driver:  "postgres",
		},
		JWT: JWTConfig{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			Issuer:          "food-delivery",
		},
		Webhook: WebhookConfig{
			Timeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
		RateLimit: RateLimitConfig{
			RPS:   1,
			Burst: 10,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Security: SecurityConfig{
			BcryptCost:  10,
			HashWorkers: 4,
		},
	}
}

func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга .yaml файла: %w", err)
	}

	return cfg, nil
}

// Load собирает конфигурацию: значения по умолчанию, затем yaml файл (если
// путь задан), затем .env файл (если он есть) и переменные окружения.
func Load(filePath string, envFile string) (*Config, error) {
	cfg := Default()
	if filePath != "" {
		loaded, err := LoadConfig(filePath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("ошибка чтения %s: %w", envFile, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("невалидная конфигурация: %w", err)
	}

	return cfg, nil
}
