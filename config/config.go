package config

import (
	"fmt"
	"net/url"
	"time"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	Security  SecurityConfig  `yaml:"security"`
}

type ServerConfig struct {
	Host          string        `yaml:"host" env:"SERVER_HOST"`
	Port          string        `yaml:"port" env:"PORT"`
	BasePath      string        `yaml:"base_path" env:"BASE_PATH"`
	PruneInterval time.Duration `yaml:"prune_interval" env:"PRUNE_INTERVAL"`
}

type DatabaseConfig struct {
	Host             string `yaml:"host" env:"DB_HOST"`
	Port             string `yaml:"port" env:"DB_PORT"`
	User             string `yaml:"user" env:"DB_USER"`
	Password         string `yaml:"password" env:"DB_PASSWORD"`
	Name             string `yaml:"name" env:"DB_NAME"`
	SSLMode          string `yaml:"sslmode" env:"DB_SSLMODE"`
	Driver           string `yaml:"driver" env:"DATABASE_DRIVER"`
	ConnectionString string `yaml:"connection_string" env:"DATABASE_CONNECTION_URL"`
}

type JWTConfig struct {
	AccessSecret    string        `yaml:"access_secret" env:"JWT_ACCESS_SECRET"`
	RefreshSecret   string        `yaml:"refresh_secret" env:"JWT_REFRESH_SECRET"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL"`
	Issuer          string        `yaml:"issuer" env:"JWT_ISSUER"`
}

type WebhookConfig struct {
	URL     string        `yaml:"url" env:"WEBHOOK_URL"`
	Timeout time.Duration `yaml:"timeout" env:"WEBHOOK_TIMEOUT"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
	// File задаёт путь к файлу лога. Пустое значение означает только stdout.
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

type SecurityConfig struct {
	BcryptCost  int `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
	HashWorkers int `yaml:"hash_workers" env:"HASH_WORKERS"`
}

// Addr возвращает адрес, который слушает HTTP сервер.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// DSN возвращает строку подключения. DATABASE_CONNECTION_URL имеет приоритет
// над отдельными параметрами.
func (d DatabaseConfig) DSN() string {
	if d.ConnectionString != "" {
		return d.ConnectionString
	}
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return dsn.String()
}

// Validate проверяет параметры, без которых сервер запускать нельзя.
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return fmt.Errorf("не заданы секреты для подписи токенов")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return fmt.Errorf("секреты access и refresh токенов должны различаться")
	}
	if c.JWT.AccessTokenTTL <= 0 || c.JWT.RefreshTokenTTL <= 0 {
		return fmt.Errorf("время жизни токенов должно быть положительным")
	}
	if c.JWT.AccessTokenTTL >= c.JWT.RefreshTokenTTL {
		return fmt.Errorf("access токен должен жить меньше refresh токена")
	}
	switch c.Database.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("неизвестный драйвер БД: %q", c.Database.Driver)
	}
	return nil
}
