package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Player != "mpv" {
		t.Errorf("default player = %q, want mpv", cfg.Player)
	}
	if cfg.Base != "https://www.dm569.com" {
		t.Errorf("default base = %q", cfg.Base)
	}
	if !cfg.History {
		t.Error("default history should be true")
	}
	if !cfg.PlayOnly {
		t.Error("default play_only should be true")
	}
	if cfg.TimeoutSec != 15 {
		t.Errorf("default timeout = %d, want 15", cfg.TimeoutSec)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"invalid player", func(c *Config) { c.Player = "notepad" }, true},
		{"empty base", func(c *Config) { c.Base = "" }, true},
		{"relative base", func(c *Config) { c.Base = "www.dm569.com" }, true},
		{"zero timeout", func(c *Config) { c.TimeoutSec = 0 }, true},
		{"valid vlc", func(c *Config) { c.Player = "vlc" }, false},
		{"valid iina", func(c *Config) { c.Player = "IINA" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromTOML(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	appDir := filepath.Join(tmpDir, "sakura")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := `
base = "https://mirror.dm569.com"
player = "vlc"
play_only = false
history = false
timeout = 30
`
	if err := os.WriteFile(filepath.Join(appDir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Base != "https://mirror.dm569.com" {
		t.Errorf("base = %q", cfg.Base)
	}
	if cfg.Player != "vlc" {
		t.Errorf("player = %q, want vlc", cfg.Player)
	}
	if cfg.PlayOnly {
		t.Error("play_only should be false")
	}
	if cfg.History {
		t.Error("history should be false")
	}
	if cfg.TimeoutSec != 30 {
		t.Errorf("timeout = %d, want 30", cfg.TimeoutSec)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}
	if cfg.Player != "mpv" {
		t.Errorf("missing file should return defaults, got player = %q", cfg.Player)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	appDir := filepath.Join(tmpDir, "sakura")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(appDir, "config.toml"), []byte(`player = "winamp"`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() should reject an unsupported player")
	}
}

func TestExpandDownloadDir(t *testing.T) {
	cfg := Default()
	cfg.DownloadDir = "/tmp/test-downloads"

	dir, err := cfg.ExpandDownloadDir()
	if err != nil {
		t.Fatalf("ExpandDownloadDir() error: %v", err)
	}
	if dir != "/tmp/test-downloads" {
		t.Errorf("got %q, want /tmp/test-downloads", dir)
	}
}
