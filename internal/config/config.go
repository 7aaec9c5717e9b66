package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// DefaultConfigPath: путь к YAML-файлу, если CONFIG_PATH не задан
const DefaultConfigPath = "config/config.yaml"

// Config хранит все настройки приложения
type Config struct {
	Server            ServerConfig    `mapstructure:"server"`
	Database          DatabaseConfig  `mapstructure:"database"`
	Redis             RedisConfig     `mapstructure:"redis"`
	Session           SessionConfig   `mapstructure:"session"`
	RateLimit         RateLimitConfig `mapstructure:"rate_limit"`
	Log               LogConfig       `mapstructure:"log"`
	MigrationsEnabled bool            `mapstructure:"migrations_enabled"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // режим gin: debug, release, test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	// URL имеет приоритет над отдельными полями
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Enabled: без Redis сессии хранятся в памяти процесса, а rate limiting отключен
	Enabled bool `mapstructure:"enabled"`

	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single'.
	// Используется, если Mode="single" и Addrs пустой.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	// MaxRetries: Максимальное количество попыток переподключения (-1 - бесконечно).
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff и MaxRetryBackoff в миллисекундах
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// SessionConfig содержит настройки cookie-сессии
type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
	Secure     bool          `mapstructure:"secure"`
}

// RateLimitConfig содержит настройки ограничения запросов к /api
type RateLimitConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	// Env: "dev"/"development": консольный вывод, иначе JSON
	Env string `mapstructure:"env"`
}

// DSN возвращает строку подключения к PostgreSQL
func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// envBindings: явные привязки ключей конфигурации к переменным окружения
var envBindings = map[string]string{
	"server.port":             "SERVER_PORT",
	"server.mode":             "GIN_MODE",
	"server.read_timeout":     "SERVER_READ_TIMEOUT",
	"server.write_timeout":    "SERVER_WRITE_TIMEOUT",
	"server.shutdown_timeout": "SERVER_SHUTDOWN_TIMEOUT",

	"database.url":      "DATABASE_URL",
	"database.host":     "DATABASE_HOST",
	"database.port":     "DATABASE_PORT",
	"database.user":     "DATABASE_USER",
	"database.password": "DATABASE_PASSWORD",
	"database.dbname":   "DATABASE_DBNAME",
	"database.sslmode":  "DATABASE_SSLMODE",

	"redis.enabled":     "REDIS_ENABLED",
	"redis.mode":        "REDIS_MODE",
	"redis.addrs":       "REDIS_ADDRS",
	"redis.addr":        "REDIS_ADDR",
	"redis.password":    "REDIS_PASSWORD",
	"redis.db":          "REDIS_DB",
	"redis.master_name": "REDIS_MASTER_NAME",

	"session.cookie_name": "SESSION_COOKIE_NAME",
	"session.ttl":         "SESSION_TTL",
	"session.secure":      "SESSION_SECURE",

	"rate_limit.enabled":      "RATE_LIMIT_ENABLED",
	"rate_limit.max_requests": "RATE_LIMIT_MAX_REQUESTS",
	"rate_limit.window":       "RATE_LIMIT_WINDOW",

	"log.env":            "LOG_ENV",
	"migrations_enabled": "MIGRATIONS_ENABLED",
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "5000")
	vip.SetDefault("server.mode", "release")
	vip.SetDefault("server.read_timeout", 15*time.Second)
	vip.SetDefault("server.write_timeout", 15*time.Second)
	vip.SetDefault("server.shutdown_timeout", 10*time.Second)

	vip.SetDefault("database.host", "localhost")
	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.user", "postgres")
	vip.SetDefault("database.dbname", "trivia")
	vip.SetDefault("database.sslmode", "disable")

	vip.SetDefault("redis.enabled", false)
	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("redis.addr", "localhost:6379")

	vip.SetDefault("session.cookie_name", "trivia_session")
	vip.SetDefault("session.ttl", 24*time.Hour)

	vip.SetDefault("rate_limit.enabled", false)
	vip.SetDefault("rate_limit.max_requests", 120)
	vip.SetDefault("rate_limit.window", time.Minute)

	vip.SetDefault("log.env", "production")
	vip.SetDefault("migrations_enabled", true)
}

// Load загружает конфигурацию: умолчания, затем YAML-файл (если есть), затем переменные окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	setDefaults(vip)
	for key, env := range envBindings {
		if err := vip.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			// Отсутствие файла не ошибка: хватает переменных окружения и умолчаний
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port is required (check SERVER_PORT env var)")
	}
	if c.Database.URL == "" && (c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "") {
		return errors.New("database configuration (host, dbname, user) is incomplete (check DATABASE_URL or DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if c.Session.CookieName == "" {
		return errors.New("session cookie name must not be empty")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	if c.RateLimit.Enabled {
		if !c.Redis.Enabled {
			return errors.New("rate limiting requires redis (set REDIS_ENABLED=true)")
		}
		if c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0 {
			return errors.New("rate limit max_requests and window must be positive")
		}
	}
	if c.Redis.Enabled {
		switch c.Redis.Mode {
		case "", "single", "cluster":
		case "sentinel":
			if c.Redis.MasterName == "" {
				return errors.New("redis sentinel mode requires master_name (check REDIS_MASTER_NAME env var)")
			}
		default:
			return fmt.Errorf("unsupported redis mode: %s", c.Redis.Mode)
		}
	}
	return nil
}
