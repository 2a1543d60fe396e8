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
	SerpAPI  SerpAPIConfig  `yaml:"serpapi" mapstructure:"serpapi"`
	OpenAI   OpenAIConfig   `yaml:"openai" mapstructure:"openai"`
	LinkedIn LinkedInConfig `yaml:"linkedin" mapstructure:"linkedin"`
	Scout    ScoutConfig    `yaml:"scout" mapstructure:"scout"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SerpAPIConfig holds SerpAPI search settings.
type SerpAPIConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// OpenAIConfig holds completion service settings.
type OpenAIConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxAttempts int     `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// LinkedInConfig holds optional LinkedIn session settings for profile fetches.
type LinkedInConfig struct {
	SessionToken string `yaml:"session_token" mapstructure:"session_token"`
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
}

// ScoutConfig configures evidence collection bounds.
type ScoutConfig struct {
	ResultsPerQuery   int `yaml:"results_per_query" mapstructure:"results_per_query"`
	PerProfileQueries int `yaml:"per_profile_queries" mapstructure:"per_profile_queries"`
	ThinProfileChars  int `yaml:"thin_profile_chars" mapstructure:"thin_profile_chars"`
	MaxFetchedSources int `yaml:"max_fetched_sources" mapstructure:"max_fetched_sources"`
	MaxFetchAttempts  int `yaml:"max_fetch_attempts" mapstructure:"max_fetch_attempts"`
}

// FetchConfig configures the page fetcher.
type FetchConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
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
	v.SetEnvPrefix("FOUNDERSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, and
	// Unmarshal never asks for unknown ones. Secrets have no SetDefault, so
	// they must be bound explicitly or the FOUNDERSCOUT_* variables are
	// silently ignored.
	for _, key := range []string{"serpapi.key", "openai.key", "linkedin.session_token"} {
		if err := v.BindEnv(key); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("serpapi.timeout_secs", 30)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.temperature", 0.1)
	v.SetDefault("openai.max_attempts", 3)
	v.SetDefault("linkedin.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	v.SetDefault("scout.results_per_query", 5)
	v.SetDefault("scout.per_profile_queries", 2)
	v.SetDefault("scout.thin_profile_chars", 400)
	v.SetDefault("scout.max_fetched_sources", 5)
	v.SetDefault("scout.max_fetch_attempts", 8)
	v.SetDefault("fetch.timeout_secs", 15)

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

// Validate checks that the required API credentials are present.
func (c *Config) Validate() error {
	if c.SerpAPI.Key == "" {
		return eris.New("config: serpapi.key is required (FOUNDERSCOUT_SERPAPI_KEY)")
	}
	if c.OpenAI.Key == "" {
		return eris.New("config: openai.key is required (FOUNDERSCOUT_OPENAI_KEY)")
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
