package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Fetcher  FetcherConfig  `mapstructure:"fetcher"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Taxonomy TaxonomyConfig `mapstructure:"taxonomy"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// FetcherConfig holds page retrieval configuration
type FetcherConfig struct {
	// Rendering-capable retrieval service. An empty endpoint or key means
	// the render path is skipped; that is a normal condition, not an error.
	RenderEndpoint string `mapstructure:"render_endpoint"`
	RenderAPIKey   string `mapstructure:"render_api_key"`
	RenderTimeout  int    `mapstructure:"render_timeout"` // seconds

	DirectTimeout        int `mapstructure:"direct_timeout"`  // seconds, per header profile
	ProfileBackoff       int `mapstructure:"profile_backoff"` // seconds between profile attempts
	MaxRequestsPerSecond int `mapstructure:"max_requests_per_second"`
	MaxWorkers           int `mapstructure:"max_workers"`
}

// GeminiConfig holds AI text-generation configuration. An empty API key
// disables the AI stages; the pipeline then runs on deterministic fallbacks.
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	Timeout     int     `mapstructure:"timeout"` // seconds
}

// TaxonomyConfig points at the externally supplied category tree.
type TaxonomyConfig struct {
	Path string `mapstructure:"path"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	MinIdleTime   int    `mapstructure:"min_idle_time"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "localhost")

	viper.SetDefault("fetcher.render_endpoint", "")
	viper.SetDefault("fetcher.render_api_key", "")
	viper.SetDefault("fetcher.render_timeout", 45)
	viper.SetDefault("fetcher.direct_timeout", 20)
	viper.SetDefault("fetcher.profile_backoff", 1)
	viper.SetDefault("fetcher.max_requests_per_second", 4)
	viper.SetDefault("fetcher.max_workers", 8)

	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.model", "gemini-1.5-flash")
	viper.SetDefault("gemini.temperature", 0.2)
	viper.SetDefault("gemini.timeout", 30)

	viper.SetDefault("taxonomy.path", "./taxonomy.json")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "oglasnik")
	viper.SetDefault("database.user", "oglasnik_user")
	viper.SetDefault("database.password", "oglasnik_pass")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.consumer_group", "oglasnik_importer")
	viper.SetDefault("redis.min_idle_time", 120)
}
