package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ytget/ytmp3/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.EnvDownloadDir, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvListen, "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "ytmp3", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}

	wantDownload := filepath.Join(tempHome, "Downloads", "YT_Downloads")
	if cfg.Paths.DownloadDir != wantDownload {
		t.Fatalf("unexpected download dir: got %q want %q", cfg.Paths.DownloadDir, wantDownload)
	}
	wantLock := filepath.Join(tempHome, ".cache", "ytmp3", "locks")
	if cfg.Paths.LockDir != wantLock {
		t.Fatalf("unexpected lock dir: got %q want %q", cfg.Paths.LockDir, wantLock)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if !cfg.Download.PlaylistFallback {
		t.Fatal("expected playlist fallback enabled by default")
	}
	if cfg.Download.AutoReveal {
		t.Fatal("expected auto reveal disabled by default")
	}
	if cfg.JobTimeout() != 0 || cfg.HTTPTimeout() != 0 {
		t.Fatal("expected no timeouts by default")
	}
	if cfg.Server.Listen != "127.0.0.1:8080" {
		t.Fatalf("unexpected listen address %q", cfg.Server.Listen)
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.EnvDownloadDir, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvListen, "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `[paths]
download_dir = "~/Music/yt"
lock_dir = ""

[download]
job_timeout_seconds = 600
http_timeout_seconds = 45
playlist_fallback = false
auto_reveal = true

[logging]
format = "JSON"
level = "DEBUG"

[server]
listen = ":9000"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected existing config at %q, got %q (exists=%t)", configPath, resolved, exists)
	}

	if cfg.Paths.DownloadDir != filepath.Join(tempHome, "Music", "yt") {
		t.Errorf("unexpected download dir %q", cfg.Paths.DownloadDir)
	}
	if cfg.Paths.LockDir != "" {
		t.Errorf("expected lock dir disabled, got %q", cfg.Paths.LockDir)
	}
	if cfg.JobTimeout() != 10*time.Minute {
		t.Errorf("unexpected job timeout %v", cfg.JobTimeout())
	}
	if cfg.HTTPTimeout() != 45*time.Second {
		t.Errorf("unexpected http timeout %v", cfg.HTTPTimeout())
	}
	if cfg.Download.PlaylistFallback || !cfg.Download.AutoReveal {
		t.Errorf("unexpected download settings %+v", cfg.Download)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("expected normalized logging, got %+v", cfg.Logging)
	}
	if cfg.Server.Listen != ":9000" {
		t.Errorf("unexpected listen %q", cfg.Server.Listen)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	override := t.TempDir()
	t.Setenv(config.EnvDownloadDir, override)
	t.Setenv(config.EnvLogLevel, "warn")
	t.Setenv(config.EnvListen, "0.0.0.0:7000")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DownloadDir != override {
		t.Errorf("expected download dir from env, got %q", cfg.Paths.DownloadDir)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected level from env, got %q", cfg.Logging.Level)
	}
	if cfg.Server.Listen != "0.0.0.0:7000" {
		t.Errorf("expected listen from env, got %q", cfg.Server.Listen)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvLogLevel, "")

	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"bad level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"unknown key", "[download]\nmax_parallel = 3\n", "parse config"},
		{"broken toml", "[paths\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.errPart) {
				t.Fatalf("expected error containing %q, got %v", tt.errPart, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvDownloadDir, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvListen, "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	defaults := config.Default()
	if cfg.Download != defaults.Download || cfg.Server != defaults.Server {
		t.Errorf("sample differs from defaults: %+v", cfg)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.Contains(string(data), "[paths]") || !strings.Contains(string(data), "download_dir") {
		t.Errorf("unexpected encoded config:\n%s", data)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := config.ExpandPath("~/a/b")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "a", "b") {
		t.Errorf("unexpected expansion %q", got)
	}

	if got, _ := config.ExpandPath(""); got != "" {
		t.Errorf("expected empty path to stay empty, got %q", got)
	}
}
