package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/multierr"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var err error

	if e := c.Gateway.Validate(); e != nil {
		err = multierr.Append(err, fmt.Errorf("gateway: %w", e))
	}
	if e := c.Bridge.Validate(); e != nil {
		err = multierr.Append(err, fmt.Errorf("bridge: %w", e))
	}
	if e := c.Log.Validate(); e != nil {
		err = multierr.Append(err, fmt.Errorf("log: %w", e))
	}

	return err
}

// Validate checks GatewayConfig for errors.
func (c *GatewayConfig) Validate() error {
	var err error
	if c.Listen == "" {
		err = multierr.Append(err, errors.New("listen must be set"))
	}
	if e := validateBaseURL(c.DeviceURL); e != nil {
		err = multierr.Append(err, fmt.Errorf("device_url: %w", e))
	}
	if c.Timeout <= 0 {
		err = multierr.Append(err, errors.New("timeout must be positive"))
	}
	if c.MaxBodyBytes <= 0 {
		err = multierr.Append(err, errors.New("max_body_bytes must be positive"))
	}
	return err
}

// Validate checks BridgeConfig for errors.
func (c *BridgeConfig) Validate() error {
	var err error
	if e := validateBaseURL(c.GatewayURL); e != nil {
		err = multierr.Append(err, fmt.Errorf("gateway_url: %w", e))
	}
	if c.RequestTimeout <= 0 {
		err = multierr.Append(err, errors.New("request_timeout must be positive"))
	}
	if strings.Count(c.ImageURLTemplate, "%s") != 1 {
		err = multierr.Append(err, fmt.Errorf("image_url_template must contain exactly one %%s: %q", c.ImageURLTemplate))
	}
	if c.ThumbnailSize <= 0 {
		err = multierr.Append(err, errors.New("thumbnail_size must be positive"))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		err = multierr.Append(err, errors.New("jpeg_quality must be between 1 and 100"))
	}
	if c.FetchTimeout <= 0 {
		err = multierr.Append(err, errors.New("fetch_timeout must be positive"))
	}
	if c.MaxImageBytes <= 0 {
		err = multierr.Append(err, errors.New("max_image_bytes must be positive"))
	}
	if c.InitialPushDelay < 0 {
		err = multierr.Append(err, errors.New("initial_push_delay must be non-negative"))
	}
	return err
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
