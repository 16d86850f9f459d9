// Package config loads workoutlog settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logbook   LogbookConfig   `yaml:"logbook"`
	Git       GitConfig       `yaml:"git"`
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Database  DatabaseConfig  `yaml:"database"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Sentry    SentryConfig    `yaml:"sentry"`
	Sync      SyncConfig      `yaml:"sync"`
}

type LogbookConfig struct {
	Root string `yaml:"root"`
}

type GitConfig struct {
	Commit bool `yaml:"commit"`
	Push   bool `yaml:"push"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// DatabaseConfig is optional; an empty Host disables the Postgres mirror.
type DatabaseConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Name       string `yaml:"name"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	SSLMode    string `yaml:"sslmode"`
	Migrations string `yaml:"migrations"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

type SyncConfig struct {
	StateDir string `yaml:"state_dir"`
}

// Enabled reports whether a database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Default returns the settings used when no file is given.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Logbook: LogbookConfig{Root: filepath.Join(home, "repos", "fitness", "db")},
		Git:     GitConfig{Commit: true, Push: true},
		Server:  ServerConfig{Host: "127.0.0.1", Port: 8080},
		Database: DatabaseConfig{
			Port:       5432,
			Migrations: "migrations",
		},
		Tailscale: TailscaleConfig{Hostname: "workoutlog", StateDir: "tsnet-state"},
		Sync:      SyncConfig{StateDir: filepath.Join(home, ".workoutlog")},
	}
}

// Load reads config from a YAML file over the defaults, then applies
// environment overrides. An empty path skips the file. Env vars use the
// prefix WORKOUTLOG_:
//
//	WORKOUTLOG_LOGBOOK_ROOT (or the legacy WORKOUT_LOGGER_DB),
//	WORKOUTLOG_GIT_COMMIT, WORKOUTLOG_GIT_PUSH,
//	WORKOUTLOG_SERVER_HOST, WORKOUTLOG_SERVER_PORT, WORKOUTLOG_AUTH_API_KEY,
//	WORKOUTLOG_DB_HOST, WORKOUTLOG_DB_PORT, WORKOUTLOG_DB_NAME,
//	WORKOUTLOG_DB_USER, WORKOUTLOG_DB_PASSWORD, WORKOUTLOG_DB_SSLMODE,
//	WORKOUTLOG_TAILSCALE_ENABLED, WORKOUTLOG_TAILSCALE_HOSTNAME,
//	WORKOUTLOG_TAILSCALE_STATE_DIR,
//	WORKOUTLOG_SENTRY_DSN, WORKOUTLOG_SENTRY_ENVIRONMENT,
//	WORKOUTLOG_SYNC_STATE_DIR
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(false); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString("WORKOUT_LOGGER_DB", &cfg.Logbook.Root)
	setString("WORKOUTLOG_LOGBOOK_ROOT", &cfg.Logbook.Root)
	setBool("WORKOUTLOG_GIT_COMMIT", &cfg.Git.Commit)
	setBool("WORKOUTLOG_GIT_PUSH", &cfg.Git.Push)

	setString("WORKOUTLOG_SERVER_HOST", &cfg.Server.Host)
	setInt("WORKOUTLOG_SERVER_PORT", &cfg.Server.Port)
	setString("WORKOUTLOG_AUTH_API_KEY", &cfg.Auth.APIKey)

	setString("WORKOUTLOG_DB_HOST", &cfg.Database.Host)
	setInt("WORKOUTLOG_DB_PORT", &cfg.Database.Port)
	setString("WORKOUTLOG_DB_NAME", &cfg.Database.Name)
	setString("WORKOUTLOG_DB_USER", &cfg.Database.User)
	setString("WORKOUTLOG_DB_PASSWORD", &cfg.Database.Password)
	setString("WORKOUTLOG_DB_SSLMODE", &cfg.Database.SSLMode)

	setBool("WORKOUTLOG_TAILSCALE_ENABLED", &cfg.Tailscale.Enabled)
	setString("WORKOUTLOG_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
	setString("WORKOUTLOG_TAILSCALE_STATE_DIR", &cfg.Tailscale.StateDir)

	setString("WORKOUTLOG_SENTRY_DSN", &cfg.Sentry.DSN)
	setString("WORKOUTLOG_SENTRY_ENVIRONMENT", &cfg.Sentry.Environment)

	setString("WORKOUTLOG_SYNC_STATE_DIR", &cfg.Sync.StateDir)
}

// Validate checks required settings. forServer adds the requirements of
// the HTTP server.
func (c *Config) Validate(forServer bool) error {
	if c.Logbook.Root == "" {
		return fmt.Errorf("logbook.root is required")
	}
	if c.Database.Enabled() {
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	}
	if !forServer {
		return nil
	}
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	return nil
}
