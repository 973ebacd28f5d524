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
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	WorldBank   WorldBankConfig   `yaml:"worldbank" mapstructure:"worldbank"`
	Frankfurter FrankfurterConfig `yaml:"frankfurter" mapstructure:"frankfurter"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Batch       BatchConfig       `yaml:"batch" mapstructure:"batch"`
	Report      ReportConfig      `yaml:"report" mapstructure:"report"`
	Catalog     CatalogConfig     `yaml:"catalog" mapstructure:"catalog"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// WorldBankConfig holds World Bank Open Data API settings.
type WorldBankConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
}

// FrankfurterConfig holds Frankfurter exchange-rate API settings.
type FrankfurterConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// CacheConfig configures the in-process series cache.
type CacheConfig struct {
	TTLSecs    int `yaml:"ttl_secs" mapstructure:"ttl_secs"`
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
}

// BatchConfig configures batch aggregation.
type BatchConfig struct {
	MaxConcurrent int    `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	Indicator     string `yaml:"indicator" mapstructure:"indicator"`
	StartYear     int    `yaml:"start_year" mapstructure:"start_year"`
	EndYear       int    `yaml:"end_year" mapstructure:"end_year"`
}

// ReportConfig configures report output.
type ReportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// CatalogConfig points at an optional YAML file overriding the built-in
// entity and indicator catalog.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API server.
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
	v.SetEnvPrefix("ECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys must be registered for AutomaticEnv to see them.
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "econ.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("catalog.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("worldbank.base_url", "https://api.worldbank.org/v2")
	v.SetDefault("worldbank.timeout_secs", 30)
	v.SetDefault("worldbank.rate_limit", 5.0)
	v.SetDefault("worldbank.max_retries", 3)
	v.SetDefault("frankfurter.base_url", "https://api.frankfurter.app")
	v.SetDefault("frankfurter.timeout_secs", 15)
	v.SetDefault("cache.ttl_secs", 3600)
	v.SetDefault("cache.max_entries", 256)
	v.SetDefault("batch.max_concurrent", 1)
	v.SetDefault("batch.indicator", "NY.GDP.MKTP.CD")
	v.SetDefault("batch.start_year", 2010)
	v.SetDefault("batch.end_year", 2023)
	v.SetDefault("report.dir", "reports")

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
