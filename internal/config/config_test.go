package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Auth.Mode != AuthModeBasic {
		t.Errorf("auth mode = %q, want basic", cfg.Auth.Mode)
	}
	if len(cfg.Seed) != 2 || !cfg.Seed[0].IsAdmin {
		t.Errorf("seed users = %+v", cfg.Seed)
	}
}

func TestLoadConfig_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlData := `
port: "9090"
log_level: debug
database:
  driver: postgres
  dsn: postgres://quiz@localhost/quiz
kafka:
  brokers: ["k1:9092"]
cache:
  quiz_ttl: 30s
seed:
  - email: root@example.com
    password: secret1
    is_admin: true
`
	if err := os.WriteFile(path, []byte(yamlData), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PORT", "7070")
	t.Setenv("KAFKA_BROKERS", "a:1, b:2")
	t.Setenv("AUTH_MODE", "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{name: "env overrides port", got: cfg.Port, want: "7070"},
		{name: "yaml driver", got: cfg.Database.Driver, want: "postgres"},
		{name: "yaml log level", got: cfg.LogLevel, want: slog.LevelDebug},
		{name: "env brokers count", got: len(cfg.Kafka.Brokers), want: 2},
		{name: "env second broker", got: cfg.Kafka.Brokers[1], want: "b:2"},
		{name: "yaml seed replaces defaults", got: len(cfg.Seed), want: 1},
		{name: "quiz ttl", got: TTLDuration(cfg.Cache.QuizTTL, time.Minute), want: 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}, wantErr: false},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "empty dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: true},
		{name: "unknown auth mode", mutate: func(c *Config) { c.Auth.Mode = "ldap" }, wantErr: true},
		{name: "casdoor without endpoint", mutate: func(c *Config) { c.Auth.Mode = AuthModeCasdoor }, wantErr: true},
		{
			name: "casdoor configured",
			mutate: func(c *Config) {
				c.Auth.Mode = AuthModeCasdoor
				c.Casdoor.Endpoint = "https://door.example.com"
				c.Casdoor.ClientID = "client"
			},
			wantErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTTLDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{raw: "", want: time.Minute},
		{raw: "5m", want: 5 * time.Minute},
		{raw: "bogus", want: time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := TTLDuration(tt.raw, time.Minute); got != tt.want {
				t.Errorf("TTLDuration(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	if _, err := ParseLogLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if lvl, _ := ParseLogLevel("WARN"); lvl != slog.LevelWarn {
		t.Errorf("level = %v, want warn", lvl)
	}
}
