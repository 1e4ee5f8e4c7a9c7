package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string     `yaml:"port"`
	Environment string     `yaml:"environment"`
	LogLevel    slog.Level `yaml:"-"`
	RawLogLevel string     `yaml:"log_level"`

	Database DatabaseConfig `yaml:"database"`
	RedisURL string         `yaml:"redis_url"`
	Auth     AuthConfig     `yaml:"auth"`
	Casdoor  CasdoorConfig  `yaml:"casdoor"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Cache    CacheConfig    `yaml:"cache"`
	Seed     []SeedUser     `yaml:"seed"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "postgres" or "sqlite"
	DSN    string `yaml:"dsn"`
}

type AuthConfig struct {
	Mode string `yaml:"mode"` // "basic" or "casdoor"
}

type CasdoorConfig struct {
	Endpoint     string `yaml:"endpoint"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Cert         string `yaml:"cert"`
	Organization string `yaml:"organization"`
	Application  string `yaml:"application"`
}

type KafkaConfig struct {
	Brokers     []string `yaml:"brokers"`
	TopicPrefix string   `yaml:"topic_prefix"`
}

type CacheConfig struct {
	QuizTTL   string `yaml:"quiz_ttl"`
	UserTTL   string `yaml:"user_ttl"`
	ExistsTTL string `yaml:"exists_ttl"`
}

// SeedUser is an account created by the seed command when missing
type SeedUser struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	IsAdmin  bool   `yaml:"is_admin"`
}

const (
	AuthModeBasic   = "basic"
	AuthModeCasdoor = "casdoor"
)

// Default returns the configuration used when nothing else is provided
func Default() *Config {
	return &Config{
		Port:        "8080",
		Environment: "development",
		LogLevel:    slog.LevelInfo,
		RawLogLevel: "info",
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "quiz.db",
		},
		Auth: AuthConfig{Mode: AuthModeBasic},
		Kafka: KafkaConfig{
			TopicPrefix: "quiz",
		},
		Seed: []SeedUser{
			{Email: "admin@example.com", Password: "admin123", IsAdmin: true},
			{Email: "user@example.com", Password: "user123"},
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional .env file,
// an optional YAML file at path and finally environment variables.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	level, err := ParseLogLevel(cfg.RawLogLevel)
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.Environment, "ENVIRONMENT")
	setString(&cfg.RawLogLevel, "LOG_LEVEL")
	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.Auth.Mode, "AUTH_MODE")

	setString(&cfg.Casdoor.Endpoint, "CASDOOR_ENDPOINT")
	setString(&cfg.Casdoor.ClientID, "CASDOOR_CLIENT_ID")
	setString(&cfg.Casdoor.ClientSecret, "CASDOOR_CLIENT_SECRET")
	setString(&cfg.Casdoor.Cert, "CASDOOR_CERT")
	setString(&cfg.Casdoor.Organization, "CASDOOR_ORGANIZATION")
	setString(&cfg.Casdoor.Application, "CASDOOR_APPLICATION")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitList(brokers)
	}
	setString(&cfg.Kafka.TopicPrefix, "KAFKA_TOPIC_PREFIX")

	setString(&cfg.Cache.QuizTTL, "CACHE_QUIZ_TTL")
	setString(&cfg.Cache.UserTTL, "CACHE_USER_TTL")
	setString(&cfg.Cache.ExistsTTL, "CACHE_EXISTS_TTL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}

	switch c.Auth.Mode {
	case AuthModeBasic:
	case AuthModeCasdoor:
		if c.Casdoor.Endpoint == "" || c.Casdoor.ClientID == "" {
			return fmt.Errorf("casdoor endpoint and client id are required in casdoor auth mode")
		}
	default:
		return fmt.Errorf("unsupported auth mode %q", c.Auth.Mode)
	}
	return nil
}

// ParseLogLevel maps a level name to a slog level
func ParseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
