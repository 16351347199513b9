package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the config file.
const (
	EnvDataDir  = "FOCUSBITS_DATA_DIR"
	EnvLogLevel = "FOCUSBITS_LOG_LEVEL"
	EnvBell     = "FOCUSBITS_BELL"
)

type Config struct {
	DataDir string      `yaml:"data_dir"`
	Log     LogConfig   `yaml:"log"`
	Alert   AlertConfig `yaml:"alert"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // relative paths are inside DataDir
}

type AlertConfig struct {
	Bell bool `yaml:"bell"`
}

// Default returns the configuration used when no file exists.
func Default(dataDir string) *Config {
	return &Config{
		DataDir: dataDir,
		Log: LogConfig{
			Level: "info",
			File:  "focusbits.log",
		},
		Alert: AlertConfig{Bell: true},
	}
}

// Load reads path, creating it with defaults when missing, then applies the
// .env file in the working directory (if any) and environment overrides.
func Load(path, defaultDataDir string) (*Config, error) {
	cfg := Default(defaultDataDir)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Optional; a missing .env is not an error.
	_ = godotenv.Load()
	cfg.applyEnv()

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	cfg.DataDir = expandHome(cfg.DataDir)
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvBell); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Alert.Bell = b
		}
	}
}

// LogPath returns the absolute log file location.
func (c *Config) LogPath() string {
	if filepath.IsAbs(c.Log.File) {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, c.Log.File)
}

// SlogLevel maps the configured level name, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// DefaultPath returns ~/.config/focusbits/config.yaml
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "focusbits", "config.yaml"), nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
