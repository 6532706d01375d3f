package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/partscout/datasheet-search/internal/cost"
)

// Config holds the full application configuration.
type Config struct {
	Exa       ExaConfig       `yaml:"exa" mapstructure:"exa"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Convert   ConvertConfig   `yaml:"convert" mapstructure:"convert"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Pricing   cost.Rates      `yaml:"pricing" mapstructure:"pricing"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ExaConfig holds Exa search API settings.
type ExaConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	HaikuModel  string `yaml:"haiku_model" mapstructure:"haiku_model"`
	SonnetModel string `yaml:"sonnet_model" mapstructure:"sonnet_model"`
}

// ConvertConfig configures PDF to markdown conversion.
type ConvertConfig struct {
	Provider     string `yaml:"provider" mapstructure:"provider"`
	MistralKey   string `yaml:"mistral_api_key" mapstructure:"mistral_api_key"`
	MistralModel string `yaml:"mistral_ocr_model" mapstructure:"mistral_ocr_model"`
}

// SearchConfig configures the datasheet pipeline.
type SearchConfig struct {
	MaxCandidates      int `yaml:"max_candidates" mapstructure:"max_candidates"`
	MaxPages           int `yaml:"max_pages" mapstructure:"max_pages"`
	MinDocumentBytes   int `yaml:"min_document_bytes" mapstructure:"min_document_bytes"`
	ExtractConcurrency int `yaml:"extract_concurrency" mapstructure:"extract_concurrency"`
	DownloadTimeoutSecs int `yaml:"download_timeout_secs" mapstructure:"download_timeout_secs"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("DSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("exa.base_url", "https://api.exa.ai")
	v.SetDefault("anthropic.haiku_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.sonnet_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("convert.provider", "local")
	v.SetDefault("convert.mistral_ocr_model", "pixtral-large-latest")
	v.SetDefault("search.max_candidates", 20)
	v.SetDefault("search.max_pages", 10)
	v.SetDefault("search.min_document_bytes", 1024)
	v.SetDefault("search.extract_concurrency", 5)
	v.SetDefault("search.download_timeout_secs", 30)
	v.SetDefault("pricing.exa.per_search", 0.005)
	v.SetDefault("pricing.mistral.per_page", 0.001)

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

	// Model pricing is a nested map viper defaults cannot express cleanly;
	// fall back to the built-in rates when the file sets none.
	if cfg.Pricing.Anthropic == nil {
		cfg.Pricing.Anthropic = cost.DefaultRates().Anthropic
	}

	return &cfg, nil
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
