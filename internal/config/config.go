// Package config предоставялет структуры и функции для загрузки конфига.
//
// Источники в порядке приоритета: переменные окружения, YAML-файл из CONFIG_PATH
// (если задан), файл .env в рабочей директории.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	// DevJWTSecret используется, если JWT_SECRET не задан.
	DevJWTSecret = "your-jwt-secret-key"
	// DefaultNotifyEmail получатель уведомлений, если NOTIFY_EMAIL пуст.
	DefaultNotifyEmail = "contact@strivetech.ai"
)

// Config общая структура для хранения настроек
type Config struct {
	Env         string `yaml:"env" env:"NODE_ENV" env-default:"development"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
	GRPCAddress string `yaml:"grpc_address" env:"GRPC_ADDRESS"`
	NotifyEmail string `yaml:"notify_email" env:"NOTIFY_EMAIL"`

	HTTPServer      `yaml:"http_server"`
	RedisConnection `yaml:"redis_connection"`
	RabbitMQ        `yaml:"rabbitmq"`
	JWTToken        `yaml:"jwttoken"`
	Supabase        `yaml:"supabase"`
	SMTP            `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":5000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	// TrustProxy включать только за reverse proxy, который перезаписывает
	// X-Forwarded-For.
	TrustProxy bool `yaml:"trust_proxy" env:"TRUST_PROXY" env-default:"false"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кеш.
type RedisConnection struct {
	RedisAddress     string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	RedisPassword    string        `yaml:"password" env:"REDIS_PASSWORD"`
	RedisUser        string        `yaml:"user" env:"REDIS_USER"`
	RedisDB          int           `yaml:"db" env:"REDIS_DB"`
	RedisMaxRetries  int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES"`
	RedisDialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT"`
	RedisTimeout     time.Duration `yaml:"timeoutredis" env:"REDIS_TIMEOUT"`
}

// RabbitMQ структура для подключения к брокеру уведомлений.
// Пустой URL означает синхронную отправку писем.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env:"RABBITMQ_MAX_RETRIES" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env:"RABBITMQ_RETRY_DELAY" env-default:"2s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"24h"`
}

// Supabase структура для подключения к Supabase Auth.
type Supabase struct {
	SupabaseURL     string `yaml:"url" env:"SUPABASE_URL"`
	SupabaseAnonKey string `yaml:"anon_key" env:"SUPABASE_ANON_KEY"`
}

// SMTP структура для настройки почтового транспорта.
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"pass" env:"SMTP_PASS"`
	SMTPFrom string `yaml:"from" env:"SMTP_FROM"`
}

// Load читает конфиг. Отсутствие .env и CONFIG_PATH не является ошибкой.
func Load() (*Config, error) {
	const op = "config.Load"

	// .env не перезаписывает уже выставленные переменные окружения
	_ = godotenv.Load()

	var cfg Config
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.JWTSecretKey == "" {
		cfg.JWTSecretKey = DevJWTSecret
	}
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}
	return &cfg, nil
}

// MustLoad загружает конфиг и завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// IsDevelopment сообщает, запущен ли сервис в режиме разработки.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}

// UsePostgres сообщает, нужно ли использовать PostgreSQL вместо памяти.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// UseSupabase сообщает, настроена ли аутентификация через Supabase.
func (c *Config) UseSupabase() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

// SMTPConfigured сообщает, можно ли отправлять письма.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

// NotifyRecipients адреса из NOTIFY_EMAIL (через запятую).
func (c *Config) NotifyRecipients() []string {
	var out []string
	for _, addr := range strings.Split(c.NotifyEmail, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	if len(out) == 0 {
		return []string{DefaultNotifyEmail}
	}
	return out
}

// UsingDevJWTSecret сообщает, что используется секрет по умолчанию.
func (c *Config) UsingDevJWTSecret() bool {
	return c.JWTSecretKey == DevJWTSecret
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Storage: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Redis: %s\n"+
			"RabbitMQ: %t\n"+
			"Supabase: %t\n"+
			"SMTP: %t\n"+
			"TokenTTL: %s\n",
		c.Env,
		c.storageKind(),
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.RedisAddress,
		c.RabbitMQURL != "",
		c.UseSupabase(),
		c.SMTPConfigured(),
		c.TokenTTL,
	)
}

func (c *Config) storageKind() string {
	if c.UsePostgres() {
		return "postgres"
	}
	return "memory"
}
