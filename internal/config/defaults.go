package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	defaultGatewayListen    = ":5000"
	defaultDeviceURL        = "http://192.168.1.235"
	defaultGatewayTimeout   = 5000 * time.Millisecond
	defaultMaxBodyBytes     = 3 << 20
	defaultGatewayURL       = "http://localhost:5000"
	defaultRequestTimeout   = 10 * time.Second
	defaultImageURLTemplate = "https://i.scdn.co/image/%s"
	defaultThumbnailSize    = 180
	defaultJPEGQuality      = 90
	defaultFetchTimeout     = 10 * time.Second
	defaultMaxImageBytes    = 10 << 20
	defaultControlListen    = ":8080"
	defaultInitialPush      = time.Second
	defaultLogLevel         = "info"
)

// Default returns a Config populated with the reference deployment values.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Listen:          defaultGatewayListen,
			DeviceURL:       defaultDeviceURL,
			Timeout:         defaultGatewayTimeout,
			MaxBodyBytes:    defaultMaxBodyBytes,
			ForwardCommands: true,
		},
		Bridge: BridgeConfig{
			GatewayURL:       defaultGatewayURL,
			RequestTimeout:   defaultRequestTimeout,
			ImageURLTemplate: defaultImageURLTemplate,
			ThumbnailSize:    defaultThumbnailSize,
			JPEGQuality:      defaultJPEGQuality,
			FetchTimeout:     defaultFetchTimeout,
			MaxImageBytes:    defaultMaxImageBytes,
			ControlListen:    defaultControlListen,
			InitialPushDelay: defaultInitialPush,
		},
		Log: LogConfig{
			Level: defaultLogLevel,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("gateway.listen", d.Gateway.Listen)
	v.SetDefault("gateway.device_url", d.Gateway.DeviceURL)
	v.SetDefault("gateway.timeout", d.Gateway.Timeout)
	v.SetDefault("gateway.max_body_bytes", d.Gateway.MaxBodyBytes)
	v.SetDefault("gateway.forward_commands", d.Gateway.ForwardCommands)

	v.SetDefault("bridge.gateway_url", d.Bridge.GatewayURL)
	v.SetDefault("bridge.request_timeout", d.Bridge.RequestTimeout)
	v.SetDefault("bridge.image_url_template", d.Bridge.ImageURLTemplate)
	v.SetDefault("bridge.thumbnail_size", d.Bridge.ThumbnailSize)
	v.SetDefault("bridge.jpeg_quality", d.Bridge.JPEGQuality)
	v.SetDefault("bridge.fetch_timeout", d.Bridge.FetchTimeout)
	v.SetDefault("bridge.max_image_bytes", d.Bridge.MaxImageBytes)
	v.SetDefault("bridge.control_listen", d.Bridge.ControlListen)
	v.SetDefault("bridge.initial_push_delay", d.Bridge.InitialPushDelay)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
}
