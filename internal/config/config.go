// Package config loads mockdeck settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendYAML   Backend = "yaml"
)

const (
	// FileName is the config file name inside the data directory.
	FileName = "config.toml"
	// DatabaseFile is the sqlite database name inside the storage path.
	DatabaseFile = "mockdeck.db"
)

type Config struct {
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
	Sidebar SidebarConfig `toml:"sidebar"`
	Keys    KeyConfig     `toml:"keys"`
}

type StorageConfig struct {
	Backend Backend `toml:"backend"`
	Path    string  `toml:"path"` // directory holding mockdeck.db or workspace.yaml
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type SidebarConfig struct {
	Width  int    `toml:"width"`
	Strict bool   `toml:"strict"`
	Filter string `toml:"filter"` // preset applied on startup
}

// KeyConfig overrides sidebar bindings. Empty values keep the default.
type KeyConfig struct {
	Search       string `toml:"search"`
	Filter       string `toml:"filter"`
	ToggleActive string `toml:"toggle_active"`
	Toggle       string `toml:"toggle"`
	Range        string `toml:"range"`
	Menu         string `toml:"menu"`
}

// DefaultDataDir returns ~/.mockdeck, falling back to a relative directory
// when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mockdeck"
	}
	return filepath.Join(home, ".mockdeck")
}

func Default(dataDir string) Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    dataDir,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Sidebar: SidebarConfig{
			Width:  40,
			Strict: false,
			Filter: "all",
		},
	}
}

// Load reads path over defaults. A missing or empty file yields defaults.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendYAML:
	default:
		return fmt.Errorf("invalid storage.backend: %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage.path is required")
	}

	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	if c.Sidebar.Width < 20 {
		return fmt.Errorf("sidebar.width must be >= 20, got %d", c.Sidebar.Width)
	}

	return nil
}

// DatabasePath returns the sqlite file used by the sqlite backend.
func (c Config) DatabasePath() string {
	return filepath.Join(c.Storage.Path, DatabaseFile)
}

// Save writes the config as TOML, creating the parent directory.
func Save(path string, cfg Config) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
