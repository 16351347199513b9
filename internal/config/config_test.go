package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvBell, "")
	// Keep a stray .env in the package dir from leaking in.
	t.Chdir(t.TempDir())
}

func TestLoadCreatesDefault(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg, err := Load(path, "/data")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/data" || cfg.Log.Level != "info" || !cfg.Alert.Bell {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("data_dir: /tmp/fb\nlog:\n  level: debug\nalert:\n  bell: false\n"), 0o644)

	cfg, err := Load(path, "/default")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/tmp/fb" {
		t.Fatalf("data dir = %q", cfg.DataDir)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("level = %v", cfg.SlogLevel())
	}
	if cfg.Alert.Bell {
		t.Fatal("bell should be off")
	}
	// Unset keys keep their defaults.
	if cfg.Log.File != "focusbits.log" {
		t.Fatalf("log file = %q", cfg.Log.File)
	}
}

func TestLoadMalformed(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("log: [unclosed"), 0o644)
	if _, err := Load(path, "/d"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDataDir, "/env/data")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvBell, "false")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"), "/d")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/env/data" {
		t.Fatalf("data dir = %q", cfg.DataDir)
	}
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Fatalf("level = %v", cfg.SlogLevel())
	}
	if cfg.Alert.Bell {
		t.Fatal("bell override ignored")
	}
}

func TestDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvDataDir)
	os.WriteFile(".env", []byte(EnvDataDir+"=/from/dotenv\n"), 0o644)

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"), "/d")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/from/dotenv" {
		t.Fatalf("data dir = %q", cfg.DataDir)
	}
}

func TestLogPath(t *testing.T) {
	cfg := Default("/data")
	if got := cfg.LogPath(); got != filepath.Join("/data", "focusbits.log") {
		t.Fatalf("log path = %q", got)
	}
	cfg.Log.File = "/var/log/fb.log"
	if got := cfg.LogPath(); got != "/var/log/fb.log" {
		t.Fatalf("absolute log path = %q", got)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := Default("")
		cfg.Log.Level = tt.in
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := expandHome("~/x"); got != filepath.Join(home, "x") {
		t.Fatalf("expandHome = %q", got)
	}
	if got := expandHome("/abs"); got != "/abs" {
		t.Fatalf("expandHome(/abs) = %q", got)
	}
}
