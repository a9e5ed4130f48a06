package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the bridge process.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Producer  ProducerConfig  `mapstructure:"producer"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig is the static-file HTTP listener. The WebSocket broadcast
// server listens on the same Host at Port+1.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	WebRoot      string        `mapstructure:"web_root"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// WebSocketConfig controls the broadcast hub and frame compression.
type WebSocketConfig struct {
	Path                string `mapstructure:"path"`
	SendChannelSize     int    `mapstructure:"send_channel_size"`
	CompressFastBelow   int    `mapstructure:"compress_fast_below"`
	CompressBestAbove   int    `mapstructure:"compress_best_above"`
	EnableCompression   bool   `mapstructure:"enable_compression"`
}

// ProducerConfig configures the DMA connector and the target game build.
type ProducerConfig struct {
	DMAConnector      string `mapstructure:"dma_connector"`
	PCILeechDevice    string `mapstructure:"pcileech_device"`
	ClientModuleName  string `mapstructure:"client_module_name"`
	SkipVersionCheck  bool   `mapstructure:"skip_version_check"`
}

// MetricsConfig controls the Prometheus diagnostics endpoint.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"`
	Endpoint   string `mapstructure:"endpoint"`
}

// LoggingConfig controls zap logger level/encoding.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load reads configuration from environment variables (RADARFLOW_ prefix)
// and an optional config file, falling back to defaults matching a typical
// CS2 deployment.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8089)
	v.SetDefault("server.web_root", "./web")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("websocket.path", "/ws")
	v.SetDefault("websocket.send_channel_size", 64)
	v.SetDefault("websocket.compress_fast_below", 5000)
	v.SetDefault("websocket.compress_best_above", 20000)
	v.SetDefault("websocket.enable_compression", true)

	v.SetDefault("producer.dma_connector", "fpga")
	v.SetDefault("producer.pcileech_device", "")
	v.SetDefault("producer.client_module_name", "client.dll")
	v.SetDefault("producer.skip_version_check", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.listen_addr", ":9095")
	v.SetDefault("metrics.endpoint", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)

	v.SetConfigName("radarflow")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("RADARFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config unmarshal: %w", err)
	}

	if cfg.WebSocket.SendChannelSize <= 0 {
		cfg.WebSocket.SendChannelSize = 64
	}

	return cfg, nil
}
