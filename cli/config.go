package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/thingorm/thing/logger"
)

// EnvPrefix environment variables overriding the config, THING_DSN sets dsn
const EnvPrefix = "THING_"

// DefaultConfigFile config file read when --config is not given and it exists
const DefaultConfigFile = "thing.yaml"

// Config thingctl config
type Config struct {
	Driver string    `koanf:"driver"`
	DSN    string    `koanf:"dsn"`
	Output string    `koanf:"output"`
	Log    LogConfig `koanf:"log"`
}

// LogConfig logger selection
type LogConfig struct {
	// Format text, zap, logrus or zerolog
	Format        string        `koanf:"format"`
	Level         string        `koanf:"level"`
	SlowThreshold time.Duration `koanf:"slow_threshold"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"driver":             "sqlite",
		"dsn":                "thing.db",
		"output":             "table",
		"log.format":         "text",
		"log.level":          "warn",
		"log.slow_threshold": "200ms",
	}
}

// LoadConfig load config from defaults, the config file, THING_ environment
// variables and changed flags, later sources win
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// THING_LOG__LEVEL -> log.level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if strings.HasPrefix(key, "log_") {
				key = "log." + strings.TrimPrefix(key, "log_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// NewLogger logger of the configured format writing to w
func (c LogConfig) NewLogger(w io.Writer) (logger.Interface, error) {
	level, err := logger.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	config := logger.Config{SlowThreshold: c.SlowThreshold, LogLevel: level}

	switch c.Format {
	case "", "text":
		return logger.New(log.New(w, "\r\n", log.LstdFlags), config), nil
	case "zap":
		return logger.NewZapLoggerWithConfig(config)
	case "logrus":
		l := logrus.New()
		l.SetOutput(w)
		l.SetFormatter(&logrus.JSONFormatter{})
		return logger.NewLogrusLogger(l, config), nil
	case "zerolog":
		l := zerolog.New(w).With().Timestamp().Logger()
		return logger.NewZerologLogger(l, config), nil
	}
	return nil, fmt.Errorf("unknown log format %q, expected text, zap, logrus or zerolog", c.Format)
}
