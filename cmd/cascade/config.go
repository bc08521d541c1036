package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/cascade/ruletree"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = ".cascade"
	configType = "yaml"
	envPrefix  = "CASCADE"
)

// ErrInvalidConfig is returned for configuration values out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings of the cascade command.
type Config struct {
	Trace    TraceConfig    `mapstructure:"trace"`
	RuleTree RuleTreeConfig `mapstructure:"ruletree"`
	Style    StyleConfig    `mapstructure:"style"`
}

// TraceConfig selects the trace level for all packages.
type TraceConfig struct {
	Level string `mapstructure:"level"`
}

// RuleTreeConfig configures the rule tree.
type RuleTreeConfig struct {
	GCInterval int `mapstructure:"gc_interval"`
	Workers    int `mapstructure:"workers"`
}

// StyleConfig configures stylesheets.
type StyleConfig struct {
	AuthorColors bool   `mapstructure:"author_colors"`
	UserAgentCSS string `mapstructure:"user_agent_css"` // file name; empty for the built-in stylesheet
	UserCSS      string `mapstructure:"user_css"`       // file name; empty for none
}

// LoadConfig loads configuration from file, env vars, flags and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// A missing config file is not an error.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("trace.level", "error")
	v.SetDefault("ruletree.gc_interval", ruletree.DefaultGCInterval)
	v.SetDefault("ruletree.workers", 0)
	v.SetDefault("style.author_colors", true)
	v.SetDefault("style.user_agent_css", "")
	v.SetDefault("style.user_css", "")
	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if flags != nil {
		bindFlag(v, "trace.level", flags.Lookup("trace"))
		bindFlag(v, "style.user_css", flags.Lookup("user-css"))
		if f := flags.Lookup("no-author-colors"); f != nil && f.Changed {
			v.Set("style.author_colors", false)
		}
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func bindFlag(v *viper.Viper, key string, f *pflag.Flag) {
	if f != nil && f.Changed {
		v.Set(key, f.Value.String())
	}
}

// Validate checks configuration values.
func (cfg *Config) Validate() error {
	if _, ok := traceLevel(cfg.Trace.Level); !ok {
		return fmt.Errorf("%w: trace level %q", ErrInvalidConfig, cfg.Trace.Level)
	}
	if cfg.RuleTree.GCInterval < 0 {
		return fmt.Errorf("%w: ruletree.gc_interval %d", ErrInvalidConfig, cfg.RuleTree.GCInterval)
	}
	if cfg.RuleTree.Workers < 0 {
		return fmt.Errorf("%w: ruletree.workers %d", ErrInvalidConfig, cfg.RuleTree.Workers)
	}
	return nil
}

var tracingKeys = []string{"cascade.ruletree", "cascade.dom", "cascade.cssom", "cascade.tree"}

// SetupTracing sets the trace level of all packages.
func (cfg *Config) SetupTracing() {
	level, _ := traceLevel(cfg.Trace.Level)
	for _, key := range tracingKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}

func traceLevel(s string) (tracing.TraceLevel, bool) {
	switch strings.ToLower(s) {
	case "", "error":
		return tracing.LevelError, true
	case "info":
		return tracing.LevelInfo, true
	case "debug":
		return tracing.LevelDebug, true
	}
	return tracing.LevelError, false
}
