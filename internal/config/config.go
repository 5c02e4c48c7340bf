package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Screen    ScreenConfig    `yaml:"screen" mapstructure:"screen"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings. Extraction and fit
// assessment run at temperature 0 on the extract model; only free-text
// description generation uses the describe model at moderate temperature.
type AnthropicConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	ExtractModel  string `yaml:"extract_model" mapstructure:"extract_model"`
	FitModel      string `yaml:"fit_model" mapstructure:"fit_model"`
	DescribeModel string `yaml:"describe_model" mapstructure:"describe_model"`
	MaxTokens     int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// FetchConfig configures website fetching and text extraction.
type FetchConfig struct {
	TimeoutSecs        int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent          string  `yaml:"user_agent" mapstructure:"user_agent"`
	MaxContentChars    int     `yaml:"max_content_chars" mapstructure:"max_content_chars"`
	MinPageChars       int     `yaml:"min_page_chars" mapstructure:"min_page_chars"`
	SubpageBatchSize   int     `yaml:"subpage_batch_size" mapstructure:"subpage_batch_size"`
	MaxDiscoveredPages int     `yaml:"max_discovered_pages" mapstructure:"max_discovered_pages"`
	RatePerSec         float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// ScreenConfig configures the screening orchestrator's second-pass
// context assembly.
type ScreenConfig struct {
	SubpageCharsPerPage int `yaml:"subpage_chars_per_page" mapstructure:"subpage_chars_per_page"`
	SubpageTotalChars   int `yaml:"subpage_total_chars" mapstructure:"subpage_total_chars"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INVSCREEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("anthropic.extract_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.fit_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.describe_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("fetch.timeout_secs", 12)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; EvoluteBot/1.0)")
	v.SetDefault("fetch.max_content_chars", 15000)
	v.SetDefault("fetch.min_page_chars", 200)
	v.SetDefault("fetch.subpage_batch_size", 5)
	v.SetDefault("fetch.max_discovered_pages", 10)
	v.SetDefault("fetch.rate_per_sec", 4)
	v.SetDefault("screen.subpage_chars_per_page", 4000)
	v.SetDefault("screen.subpage_total_chars", 24000)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the settings a command depends on are present.
// Mode is "serve" or "screen".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		fallthrough
	case "screen":
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
		if c.Fetch.TimeoutSecs <= 0 {
			problems = append(problems, "fetch.timeout_secs must be > 0")
		}
		if c.Fetch.SubpageBatchSize < 1 {
			problems = append(problems, "fetch.subpage_batch_size must be >= 1")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
