package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultMin  = 5
	DefaultMax  = 10
	DefaultTick = 100 * time.Millisecond
)

// Config holds all configuration for the application
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Feed    FeedConfig    `mapstructure:"-"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Sink    SinkConfig    `mapstructure:"sink"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

type AppConfig struct {
	Port        int    `mapstructure:"port"`
	Env         string `mapstructure:"env"` // e.g., "local", "prod"
	StaticDir   string `mapstructure:"static_dir"`
	MetricsPath string `mapstructure:"metrics_path"`
}

// Addr is the listen address for the HTTP server.
func (a AppConfig) Addr() string { return fmt.Sprintf(":%d", a.Port) }

// FeedConfig bounds the active instrument population. It is decoded by hand
// (see decodeFeed) so that bad values fall back instead of failing the load.
type FeedConfig struct {
	Min  int
	Max  int
	Tick time.Duration

	// Fallback explains why defaults replaced the configured values. Empty
	// when the configured values were used as-is.
	Fallback string
}

type GatewayConfig struct {
	SendBuffer int           `mapstructure:"send_buffer"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	MaxFrame   int64         `mapstructure:"max_frame"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	QuoteTTL time.Duration `mapstructure:"quote_ttl"`
}

type KafkaConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Brokers    []string `mapstructure:"brokers"`
	Topic      string   `mapstructure:"topic"`
	Partitions int      `mapstructure:"partitions"`
}

type SinkConfig struct {
	Buffer int `mapstructure:"buffer"`
}

// LoadConfig reads configuration from .env file, environment variables,
// command-line flags and defaults.
func LoadConfig(args []string) (*Config, error) {
	v := viper.New()

	// 1. Load .env file into System Environment (if it exists)
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, relying on System Env Vars")
	}

	// 2. Set Defaults
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.env", "local")
	v.SetDefault("app.static_dir", "")
	v.SetDefault("app.metrics_path", "/metrics")

	v.SetDefault("feed.min", DefaultMin)
	v.SetDefault("feed.max", DefaultMax)
	v.SetDefault("feed.tick", DefaultTick.String())

	v.SetDefault("gateway.send_buffer", 256)
	v.SetDefault("gateway.write_wait", "5s")
	v.SetDefault("gateway.pong_wait", "60s")
	v.SetDefault("gateway.ping_period", "50s")
	v.SetDefault("gateway.max_frame", 512*1024)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.quote_ttl", "1h")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "market_feed")
	v.SetDefault("kafka.partitions", 4)

	v.SetDefault("sink.buffer", 1024)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("logger.development", false)

	// 3. Configure Viper to read Environment Variables
	// This maps dot-notation to underscores (e.g., "app.port" -> "APP_PORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnv(v, "app.port", "app.env", "app.static_dir", "app.metrics_path")
	bindEnv(v, "feed.min", "feed.max", "feed.tick")
	bindEnv(v, "gateway.send_buffer", "gateway.write_wait", "gateway.pong_wait", "gateway.ping_period", "gateway.max_frame")
	bindEnv(v, "redis.enabled", "redis.addr", "redis.password", "redis.db", "redis.quote_ttl")
	bindEnv(v, "kafka.enabled", "kafka.brokers", "kafka.topic", "kafka.partitions")
	bindEnv(v, "sink.buffer")
	bindEnv(v, "logger.level", "logger.encoding", "logger.development")

	// 4. Command-line flags win over everything else
	if err := bindFlags(v, args); err != nil {
		return nil, err
	}

	// 5. Unmarshal into Struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.Feed = decodeFeed(v)

	// 6. Basic Validation
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers cannot be empty")
	}
	if cfg.Gateway.SendBuffer <= 0 {
		cfg.Gateway.SendBuffer = 256
	}
	if cfg.Sink.Buffer <= 0 {
		cfg.Sink.Buffer = 1024
	}

	return &cfg, nil
}

// bindFlags registers the command-line surface and binds it over the env layer.
// Bounds are string flags so that non-numeric input reaches decodeFeed.
func bindFlags(v *viper.Viper, args []string) error {
	fs := pflag.NewFlagSet("feed", pflag.ContinueOnError)
	fs.IntP("port", "p", 8080, "Port to run the server on")
	fs.String("min", fmt.Sprint(DefaultMin), "Minimum number of instruments")
	fs.String("max", fmt.Sprint(DefaultMax), "Maximum number of instruments")
	fs.String("tick", DefaultTick.String(), "Interval between generator ticks")
	fs.String("static-dir", "", "Directory with static assets served at /")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	for key, name := range map[string]string{
		"app.port":       "port",
		"feed.min":       "min",
		"feed.max":       "max",
		"feed.tick":      "tick",
		"app.static_dir": "static-dir",
		"logger.level":   "log-level",
	} {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// decodeFeed resolves the instrument bounds. Non-numeric, negative or inverted
// bounds fall back to DefaultMin/DefaultMax together.
func decodeFeed(v *viper.Viper) FeedConfig {
	fc := FeedConfig{Min: DefaultMin, Max: DefaultMax, Tick: DefaultTick}

	tick, err := cast.ToDurationE(v.Get("feed.tick"))
	if err == nil && tick > 0 {
		fc.Tick = tick
	}

	minVal, errMin := cast.ToIntE(v.Get("feed.min"))
	maxVal, errMax := cast.ToIntE(v.Get("feed.max"))
	switch {
	case errMin != nil || errMax != nil:
		fc.Fallback = fmt.Sprintf("non-numeric bounds min=%v max=%v", v.Get("feed.min"), v.Get("feed.max"))
	case minVal < 0 || maxVal < 0:
		fc.Fallback = fmt.Sprintf("negative bounds min=%d max=%d", minVal, maxVal)
	case minVal > maxVal:
		fc.Fallback = fmt.Sprintf("inverted bounds min=%d max=%d", minVal, maxVal)
	default:
		fc.Min, fc.Max = minVal, maxVal
	}
	return fc
}

// bindEnv is a helper to bind multiple keys at once
func bindEnv(v *viper.Viper, keys ...string) {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			log.Printf("Could not bind env var for key %s: %v", key, err)
		}
	}
}
