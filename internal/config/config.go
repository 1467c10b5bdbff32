package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "NOWRELAY"

// Config holds application configuration for both the gateway and the bridge
type Config struct {
	Gateway GatewayConfig `mapstructure:"gateway"`
	Bridge  BridgeConfig  `mapstructure:"bridge"`
	Log     LogConfig     `mapstructure:"log"`

	v *viper.Viper
}

// GatewayConfig holds relay gateway settings.
type GatewayConfig struct {
	// Listen is the address the gateway binds to
	Listen string `mapstructure:"listen"`
	// DeviceURL is the base URL of the display device
	DeviceURL string `mapstructure:"device_url"`
	// Timeout bounds every outbound request to the device
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxBodyBytes is the request body ceiling
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
	// ForwardCommands relays GET /{command} to the device
	ForwardCommands bool `mapstructure:"forward_commands"`
}

// BridgeConfig holds player-side bridge settings.
type BridgeConfig struct {
	GatewayURL       string        `mapstructure:"gateway_url"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	ImageURLTemplate string        `mapstructure:"image_url_template"`
	ThumbnailSize    int           `mapstructure:"thumbnail_size"`
	JPEGQuality      int           `mapstructure:"jpeg_quality"`
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	MaxImageBytes    int64         `mapstructure:"max_image_bytes"`
	// ControlListen is where device button presses arrive; empty disables it
	ControlListen string `mapstructure:"control_listen"`
	// InitialPushDelay schedules one push after start; zero disables it
	InitialPushDelay time.Duration `mapstructure:"initial_push_delay"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"listen":         "gateway.listen",
	"device-url":     "gateway.device_url",
	"gateway-url":    "bridge.gateway_url",
	"control-listen": "bridge.control_listen",
	"log-level":      "log.level",
}

// Load reads configuration with the precedence flags > env > file > defaults.
// An explicit path must exist; otherwise $XDG_CONFIG_HOME/nowrelay/config.* is
// used when present.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.v = v
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Gateway.DeviceURL = strings.TrimRight(cfg.Gateway.DeviceURL, "/")
	cfg.Bridge.GatewayURL = strings.TrimRight(cfg.Bridge.GatewayURL, "/")
	return &cfg, nil
}

// Watch calls onChange with the re-read configuration whenever the config
// file changes. Flag and env overrides still apply. It reports false when no
// config file was loaded.
func (c *Config) Watch(onChange func(*Config)) bool {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return false
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		next, err := decode(c.v)
		if err != nil {
			return
		}
		onChange(next)
	})
	c.v.WatchConfig()
	return true
}

// configDir follows the XDG standard, falling back to ~/.config
func configDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "nowrelay")
}
