// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonathan/recruit-tracker/internal/dashboard"
	"github.com/jonathan/recruit-tracker/internal/store"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Defaults applied by Load.
const (
	DefaultDataDir = "data"
	DefaultFormat  = store.FormatXLSX
	DefaultPort    = 8080
)

// Config represents the application configuration. It can be loaded from a
// YAML or JSON file; environment variables override file values.
type Config struct {
	DataDir      string       `yaml:"data_dir" json:"data_dir,omitempty"`           // Directory holding the table files
	Format       store.Format `yaml:"format" json:"format,omitempty"`               // xlsx or csv
	Port         int          `yaml:"port" json:"port,omitempty"`                   // HTTP listen port
	DatabaseURL  string       `yaml:"database_url" json:"database_url,omitempty"`   // PostgreSQL mirror, optional
	SyncSchedule string       `yaml:"sync_schedule" json:"sync_schedule,omitempty"` // Cron spec for the mirror sync
	Operators    []Operator   `yaml:"operators" json:"operators,omitempty"`
}

// Operator is a dashboard user allowed to sign in.
type Operator struct {
	Email        string         `yaml:"email" json:"email"`
	Name         string         `yaml:"name" json:"name"`
	Role         dashboard.Role `yaml:"role" json:"role"`
	PasswordHash string         `yaml:"password_hash" json:"password_hash"`
}

// Identity returns the session identity of the operator.
func (o Operator) Identity() dashboard.Identity {
	return dashboard.Identity{Email: o.Email, Name: o.Name, Role: o.Role}
}

// Load reads the optional config file at path, then applies defaults and
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.defaults()
	return cfg, nil
}

// LoadFile parses a config file. Files ending in .json are read as JSON and
// anything else as YAML.
func LoadFile(path string) (*Config, error) {
	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("RECRUIT_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("RECRUIT_FORMAT"); v != "" {
		c.Format = store.Format(strings.ToLower(v))
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("SYNC_SCHEDULE"); v != "" {
		c.SyncSchedule = v
	}
	return nil
}

func (c *Config) defaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	for i := range c.Operators {
		c.Operators[i].Email = strings.ToLower(strings.TrimSpace(c.Operators[i].Email))
		c.Operators[i].Role = dashboard.Role(strings.ToLower(string(c.Operators[i].Role)))
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Format != store.FormatXLSX && c.Format != store.FormatCSV {
		return fmt.Errorf("config error: 'format' must be xlsx or csv, got %q", c.Format)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}

	if c.SyncSchedule != "" {
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'sync_schedule' requires 'database_url'")
		}
		if _, err := cron.ParseStandard(c.SyncSchedule); err != nil {
			return fmt.Errorf("config error: invalid 'sync_schedule': %w", err)
		}
	}

	seen := make(map[string]bool, len(c.Operators))
	for i, op := range c.Operators {
		if op.Email == "" {
			return fmt.Errorf("config error: operator %d has no email", i)
		}
		if seen[op.Email] {
			return fmt.Errorf("config error: operator %s is listed twice", op.Email)
		}
		seen[op.Email] = true
		if !op.Role.Valid() {
			return fmt.Errorf("config error: operator %s has unknown role %q", op.Email, op.Role)
		}
		if op.PasswordHash == "" {
			return fmt.Errorf("config error: operator %s has no password_hash", op.Email)
		}
	}
	return nil
}

// Operator looks up an operator by email, ignoring case.
func (c *Config) Operator(email string) (Operator, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, op := range c.Operators {
		if op.Email == email {
			return op, true
		}
	}
	return Operator{}, false
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
