// Package config loads releasebuilder settings from defaults, an optional
// YAML file, RELEASEBUILDER_* environment variables and command flags, each
// overriding the one before.
package config

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aledsdavies/releasebuilder/internal/logging"
	"github.com/aledsdavies/releasebuilder/pkgs/errors"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. RELEASEBUILDER_TOKEN
	EnvPrefix = "RELEASEBUILDER"
	// DirName is the per-user directory below $HOME holding config and credentials
	DirName = ".releaseBuilder"
)

// Config holds the settings of one invocation
type Config struct {
	Token       string `mapstructure:"token"`
	Branch      string `mapstructure:"branch"`
	APIURL      string `mapstructure:"api_url"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
	Concurrency int    `mapstructure:"concurrency"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-"`
}

// flagKeys maps flag names to config keys
var flagKeys = map[string]string{
	"token":       "token",
	"branch":      "branch",
	"api-url":     "api_url",
	"log-level":   "log_level",
	"log-format":  "log_format",
	"concurrency": "concurrency",
}

// Options tells Load where to look
type Options struct {
	File  string         // explicit config file; must exist when set
	Home  string         // home directory searched for .releaseBuilder/config.yaml
	Flags *pflag.FlagSet // flags bound on top of the other sources, may be nil
}

// Load reads the configuration
func Load(opts Options) (Config, error) {
	v := viper.New()

	v.SetDefault("token", "")
	v.SetDefault("branch", "master")
	v.SetDefault("api_url", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", logging.FormatConsole)
	v.SetDefault("concurrency", 4)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if opts.Home != "" {
			v.AddConfigPath(filepath.Join(opts.Home, DirName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !stderrors.As(err, &notFound) {
			return Config{}, errors.Wrap(errors.ErrConfig, "failed to read config file", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, errors.Wrap(errors.ErrConfig, "failed to bind flag "+name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrConfig, "failed to decode config", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late
func (c Config) Validate() error {
	if c.Branch == "" {
		return errors.New(errors.ErrConfig, "branch must not be empty")
	}
	if c.Concurrency < 1 {
		return errors.New(errors.ErrConfig, fmt.Sprintf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	switch c.LogFormat {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return errors.New(errors.ErrConfig, fmt.Sprintf("log format must be %s or %s, got %q",
			logging.FormatConsole, logging.FormatJSON, c.LogFormat))
	}
	return nil
}
