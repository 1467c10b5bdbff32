package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Gateway.Listen != ":5000" {
		t.Errorf("Listen = %q, want :5000", cfg.Gateway.Listen)
	}
	if cfg.Gateway.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Gateway.Timeout)
	}
	if cfg.Gateway.MaxBodyBytes != 3*1024*1024 {
		t.Errorf("MaxBodyBytes = %d, want 3 MiB", cfg.Gateway.MaxBodyBytes)
	}
	if cfg.Bridge.ThumbnailSize != 180 || cfg.Bridge.JPEGQuality != 90 {
		t.Errorf("thumbnail = %d q%d, want 180 q90", cfg.Bridge.ThumbnailSize, cfg.Bridge.JPEGQuality)
	}
	if !cfg.Gateway.ForwardCommands {
		t.Error("ForwardCommands should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nowrelay.yaml")
	content := `
gateway:
  device_url: http://10.0.0.7/
  timeout: 2s
bridge:
  jpeg_quality: 75
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("NOWRELAY_BRIDGE_THUMBNAIL_SIZE", "240")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("listen", ":5000", "")
	if err := flags.Parse([]string{"--listen", ":6000"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Gateway.DeviceURL != "http://10.0.0.7" {
		t.Errorf("DeviceURL = %q, trailing slash should be trimmed", cfg.Gateway.DeviceURL)
	}
	if cfg.Gateway.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", cfg.Gateway.Timeout)
	}
	if cfg.Bridge.JPEGQuality != 75 {
		t.Errorf("JPEGQuality = %d, want 75", cfg.Bridge.JPEGQuality)
	}
	if cfg.Bridge.ThumbnailSize != 240 {
		t.Errorf("ThumbnailSize = %d, want 240 from env", cfg.Bridge.ThumbnailSize)
	}
	if cfg.Gateway.Listen != ":6000" {
		t.Errorf("Listen = %q, want :6000 from flag", cfg.Gateway.Listen)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantErrs []string
	}{
		{
			name:   "Valid defaults",
			mutate: func(*Config) {},
		},
		{
			name: "Bad device URL",
			mutate: func(c *Config) {
				c.Gateway.DeviceURL = "192.168.1.235"
			},
			wantErrs: []string{"device_url"},
		},
		{
			name: "Multiple problems are aggregated",
			mutate: func(c *Config) {
				c.Gateway.Timeout = 0
				c.Bridge.JPEGQuality = 101
				c.Bridge.ImageURLTemplate = "https://i.scdn.co/image/"
				c.Log.Level = "verbose"
			},
			wantErrs: []string{"timeout", "jpeg_quality", "image_url_template", "log level"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if len(tt.wantErrs) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			for _, want := range tt.wantErrs {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q should mention %q", err.Error(), want)
				}
			}
			if len(tt.wantErrs) > 1 && len(multierr.Errors(err)) < 2 {
				t.Errorf("expected aggregated errors, got %d", len(multierr.Errors(err)))
			}
		})
	}
}

func TestWatch_ReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	changes := make(chan *Config, 4)
	if !cfg.Watch(func(next *Config) { changes <- next }) {
		t.Fatal("Watch should be active when a config file is loaded")
	}

	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case next := <-changes:
			if next.Log.Level == "debug" {
				return
			}
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}

func TestWatch_NoFile(t *testing.T) {
	if Default().Watch(func(*Config) {}) {
		t.Error("Watch should be inactive without a config file")
	}
}
