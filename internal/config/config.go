package config

import (
	"os"

	"codeberg.org/dazzo/dazzod/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"

	defaultDevice            = "127.0.0.1:9000"
	defaultTickIntervalMs    = 100
	defaultFlushIntervalMs   = 1000
	defaultMaxLines          = 10
	defaultMaxBytes          = 1024
	defaultMagnitude         = 0.2
	defaultHeartbeatSecs     = 5.0
	defaultIdleZeroSecs      = 1.0
	defaultBackoffInitial    = 1.0
	defaultBackoffMax        = 60.0
	defaultBackoffJitter     = 0.5
	defaultSinkURL           = "http://localhost:8086"
	defaultOrg               = "home"
	defaultBucket            = "dazzo"
	defaultSensor            = "feather-receiver"
	defaultConnectTimeoutSec = 5.0
	defaultPushTimeoutSec    = 5.0
)

type Config struct {
	Device             string  `mapstructure:"device"`
	TickInterval       int     `mapstructure:"tick_interval"`
	FlushInterval      int     `mapstructure:"flush_interval"`
	MaxLines           int     `mapstructure:"max_lines"`
	MaxBytes           int     `mapstructure:"max_bytes"`
	MagnitudeThreshold float64 `mapstructure:"magnitude_threshold"`
	HeartbeatInterval  float64 `mapstructure:"heartbeat_interval"`
	IdleZeroAfter      float64 `mapstructure:"idle_zero_after"`
	BackoffInitial     float64 `mapstructure:"backoff_initial"`
	BackoffMax         float64 `mapstructure:"backoff_max"`
	BackoffJitter      float64 `mapstructure:"backoff_jitter"`
	ConnectTimeout     float64 `mapstructure:"connect_timeout"`
	PushTimeout        float64 `mapstructure:"push_timeout"`
	SinkURL            string  `mapstructure:"sink_url"`
	Org                string  `mapstructure:"org"`
	Bucket             string  `mapstructure:"bucket"`
	Token              string  `mapstructure:"token"`
	Sensor             string  `mapstructure:"sensor"`
	ArchiveDB          string  `mapstructure:"archive_db"`
	MetricsListen      string  `mapstructure:"metrics_listen"`
	Monitor            bool    `mapstructure:"monitor"`
	LogLevel           string  `mapstructure:"log_level"`
}

// Load reads configuration from flags, an optional TOML file and
// defaults, in that order of precedence. The config file is taken from
// the DAZZOD_CONFIG environment variable or the --config flag when set,
// otherwise dazzod.toml is searched for in /etc and the working
// directory.
func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	setDefaults(v)

	fs := pflag.NewFlagSet("dazzod", pflag.ContinueOnError)
	configFlag := fs.String("config", "", "Path to config file")
	fs.String("device", defaultDevice, "Link transport address")
	fs.String("sink-url", defaultSinkURL, "Time-series store base URL (http only)")
	fs.String("sensor", defaultSensor, "Sensor identity tag")
	fs.Bool("monitor", false, "Only display incoming samples, do not push to sink")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	for flagName, key := range map[string]string{
		"device":    "device",
		"sink-url":  "sink_url",
		"sensor":    "sensor",
		"monitor":   "monitor",
		"log-level": "log_level",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flagName)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	configPath := os.Getenv("DAZZOD_CONFIG")
	if *configFlag != "" {
		configPath = *configFlag
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	} else {
		v.SetConfigName("dazzod")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("device", defaultDevice)
	v.SetDefault("tick_interval", defaultTickIntervalMs)
	v.SetDefault("flush_interval", defaultFlushIntervalMs)
	v.SetDefault("max_lines", defaultMaxLines)
	v.SetDefault("max_bytes", defaultMaxBytes)
	v.SetDefault("magnitude_threshold", defaultMagnitude)
	v.SetDefault("heartbeat_interval", defaultHeartbeatSecs)
	v.SetDefault("idle_zero_after", defaultIdleZeroSecs)
	v.SetDefault("backoff_initial", defaultBackoffInitial)
	v.SetDefault("backoff_max", defaultBackoffMax)
	v.SetDefault("backoff_jitter", defaultBackoffJitter)
	v.SetDefault("connect_timeout", defaultConnectTimeoutSec)
	v.SetDefault("push_timeout", defaultPushTimeoutSec)
	v.SetDefault("sink_url", defaultSinkURL)
	v.SetDefault("org", defaultOrg)
	v.SetDefault("bucket", defaultBucket)
	v.SetDefault("token", "")
	v.SetDefault("sensor", defaultSensor)
	v.SetDefault("archive_db", "")
	v.SetDefault("metrics_listen", "")
	v.SetDefault("monitor", false)
	v.SetDefault("log_level", DefaultLogLevel)
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	errFactory := errors.New()

	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.Device == "" {
		return errFactory.WithMessage(errors.ErrMissingConfig, "device address is required")
	}
	if c.TickInterval <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "tick_interval must be positive")
	}
	if c.FlushInterval <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "flush_interval must be positive")
	}
	if c.MaxLines <= 0 || c.MaxBytes <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "max_lines and max_bytes must be positive")
	}
	if c.BackoffInitial <= 0 || c.BackoffMax < c.BackoffInitial || c.BackoffJitter < 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "backoff settings are inconsistent")
	}
	if c.MagnitudeThreshold < 0 || c.HeartbeatInterval < 0 || c.IdleZeroAfter < 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "thresholds must be non-negative")
	}

	return nil
}
