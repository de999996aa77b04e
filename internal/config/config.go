package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("invalid config")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Tracing       TracingConfig       `toml:"tracing"`
	Business      BusinessConfig      `toml:"business"`
	Admin         AdminConfig         `toml:"admin"`
	Redis         RedisConfig         `toml:"redis"`
	RateLimit     RateLimitConfig     `toml:"rate_limit"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type TracingConfig struct {
	Enabled      bool    `toml:"enabled"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRatio  float64 `toml:"sample_ratio"`
}

// BusinessConfig параметры барбершопа
type BusinessConfig struct {
	// Timezone единственный часовой пояс заведения (IANA), "Local" - часовой пояс сервера
	Timezone                 string `toml:"timezone"`
	SlotStepMinutes          int    `toml:"slot_step_minutes"`
	ConflictToleranceMinutes int    `toml:"conflict_tolerance_minutes"`
	NotificationTimeout      int    `toml:"notification_timeout"`
}

// Location загружает часовой пояс заведения
func (b BusinessConfig) Location() (*time.Location, error) {
	if b.Timezone == "" || b.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(b.Timezone)
}

// AdminConfig учетные данные администратора (пароль хранится как bcrypt-хэш)
type AdminConfig struct {
	Username     string `toml:"username"`
	PasswordHash string `toml:"password_hash"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Address  string `toml:"address"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RateLimitConfig ограничение частоты создания записей с одного IP
type RateLimitConfig struct {
	Enabled       bool `toml:"enabled"`
	Requests      int  `toml:"requests"`
	WindowSeconds int  `toml:"window_seconds"`

	// TrustedProxies адреса и подсети прокси, которым разрешено передавать X-Forwarded-For
	TrustedProxies []string `toml:"trusted_proxies"`
}

// NotificationsConfig способ доставки событий о новых записях: log | kafka | webhook
type NotificationsConfig struct {
	Driver       string   `toml:"driver"`
	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`
	WebhookURL   string   `toml:"webhook_url"`
}

// Load читает .env (если есть), TOML-файл и переопределения из окружения
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv секреты и адреса можно переопределить переменными окружения
func (c *Config) applyEnv() {
	overrideString(&c.Database.Host, "DB_HOST")
	overrideInt(&c.Database.Port, "DB_PORT")
	overrideString(&c.Database.User, "DB_USER")
	overrideString(&c.Database.Password, "DB_PASSWORD")
	overrideString(&c.Database.DBName, "DB_NAME")
	overrideString(&c.Admin.Username, "ADMIN_USERNAME")
	overrideString(&c.Admin.PasswordHash, "ADMIN_PASSWORD_HASH")
	overrideString(&c.Redis.Address, "REDIS_ADDRESS")
	overrideString(&c.Redis.Password, "REDIS_PASSWORD")
	overrideString(&c.Business.Timezone, "BUSINESS_TIMEZONE")
	overrideString(&c.Tracing.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")

	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok && strings.TrimSpace(v) != "" {
		c.Notifications.KafkaBrokers = splitList(v)
	}
	if v, ok := os.LookupEnv("TRUSTED_PROXIES"); ok && strings.TrimSpace(v) != "" {
		c.RateLimit.TrustedProxies = splitList(v)
	}
}

func (c *Config) setDefaults() {
	setDefaultInt(&c.Server.HTTPPort, 8080)
	setDefaultInt(&c.Server.ReadTimeout, 10)
	setDefaultInt(&c.Server.WriteTimeout, 10)
	setDefaultInt(&c.Server.IdleTimeout, 60)
	setDefaultInt(&c.Server.ShutdownTimeout, 15)

	setDefaultInt(&c.Database.Port, 5432)
	setDefaultString(&c.Database.SSLMode, "disable")
	setDefaultInt(&c.Database.MaxOpenConns, 25)
	setDefaultInt(&c.Database.MaxIdleConns, 5)
	setDefaultInt(&c.Database.ConnMaxLifetime, 300)

	setDefaultString(&c.Logs.Level, "info")
	setDefaultString(&c.Metrics.Path, "/metrics")
	setDefaultString(&c.Metrics.ServiceName, "barber_booking_service")

	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}

	setDefaultString(&c.Business.Timezone, "Local")
	setDefaultInt(&c.Business.SlotStepMinutes, 30)
	setDefaultInt(&c.Business.ConflictToleranceMinutes, 29)
	setDefaultInt(&c.Business.NotificationTimeout, 5)

	setDefaultInt(&c.RateLimit.Requests, 10)
	setDefaultInt(&c.RateLimit.WindowSeconds, 60)

	setDefaultString(&c.Notifications.Driver, "log")
	setDefaultString(&c.Notifications.KafkaTopic, "appointments.created")
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database host and dbname are required", ErrInvalidConfig)
	}

	if c.Admin.Username == "" || c.Admin.PasswordHash == "" {
		return fmt.Errorf("%w: admin username and password_hash are required", ErrInvalidConfig)
	}

	if _, err := c.Business.Location(); err != nil {
		return fmt.Errorf("%w: unknown timezone %q: %v", ErrInvalidConfig, c.Business.Timezone, err)
	}

	step := c.Business.SlotStepMinutes
	if step <= 0 || step > 24*60 {
		return fmt.Errorf("%w: slot_step_minutes must be in (0, 1440]", ErrInvalidConfig)
	}

	// Допуск должен быть меньше шага, иначе соседние слоты будут конфликтовать
	if c.Business.ConflictToleranceMinutes < 0 || c.Business.ConflictToleranceMinutes >= step {
		return fmt.Errorf("%w: conflict_tolerance_minutes must be in [0, slot_step_minutes)", ErrInvalidConfig)
	}

	for _, p := range c.RateLimit.TrustedProxies {
		if !validProxy(p) {
			return fmt.Errorf("%w: invalid trusted proxy %q", ErrInvalidConfig, p)
		}
	}

	if c.Redis.Enabled && c.Redis.Address == "" {
		return fmt.Errorf("%w: redis address is required when redis is enabled", ErrInvalidConfig)
	}

	switch c.Notifications.Driver {
	case "log":
	case "kafka":
		if len(c.Notifications.KafkaBrokers) == 0 {
			return fmt.Errorf("%w: kafka_brokers are required for kafka notifications", ErrInvalidConfig)
		}
	case "webhook":
		if c.Notifications.WebhookURL == "" {
			return fmt.Errorf("%w: webhook_url is required for webhook notifications", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown notifications driver %q", ErrInvalidConfig, c.Notifications.Driver)
	}

	return nil
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDefaultString(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

func setDefaultInt(dst *int, value int) {
	if *dst == 0 {
		*dst = value
	}
}

func validProxy(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		_, _, err := net.ParseCIDR(s)
		return err == nil
	}
	return net.ParseIP(s) != nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
