package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Source  MarketplaceConfig `mapstructure:"source"`
	Target  MarketplaceConfig `mapstructure:"target"`
	Compare CompareConfig
	Price   PriceConfig
	Cache   CacheConfig
	Output  OutputConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MarketplaceConfig holds the scraping surface of one marketplace.
// Selector strings are passed through to the scraping layer uninterpreted.
type MarketplaceConfig struct {
	Name           string  `mapstructure:"name"`
	BaseURL        string  `mapstructure:"base_url"`
	SearchPath     string  `mapstructure:"search_path"`
	QueryParam     string  `mapstructure:"query_param"`
	ResultSelector string  `mapstructure:"result_selector"`
	PriceSelector  string  `mapstructure:"price_selector"`
	WaitSeconds    float64 `mapstructure:"wait_seconds"`
	MaxResults     int     `mapstructure:"max_results"`
}

// CompareConfig holds comparison pipeline configuration
type CompareConfig struct {
	KeywordPrefix  string   `mapstructure:"keyword_prefix"`
	MaxSourceItems int      `mapstructure:"max_source_items"`
	NoiseTokens    []string `mapstructure:"noise_tokens"`
	Debug          bool     `mapstructure:"debug"`
}

// PriceConfig holds price parsing configuration
type PriceConfig struct {
	MaxPrice  float64 `mapstructure:"max_price"`
	AllowZero bool    `mapstructure:"allow_zero"`
}

// CacheConfig holds search-result cache configuration
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// OutputConfig holds output sink configuration
type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricelens/")

	// Environment variable settings (PRICELENS_SERVER_PORT -> server.port)
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Marketplace defaults mirror
// the catalog/second-hand sites this tool was written for; selectors are
// deliberately loose because both sites shuffle class names.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Source catalog marketplace defaults
	v.SetDefault("source.name", "meruki")
	v.SetDefault("source.base_url", "https://meruki.cn")
	v.SetDefault("source.search_path", "/search")
	v.SetDefault("source.query_param", "q")
	v.SetDefault("source.result_selector", ".product-title, .goods-title, [class*='title']")
	v.SetDefault("source.wait_seconds", 4.0)
	v.SetDefault("source.max_results", 10)

	// Target marketplace defaults
	v.SetDefault("target.name", "goofish")
	v.SetDefault("target.base_url", "https://www.goofish.com")
	v.SetDefault("target.search_path", "/search")
	v.SetDefault("target.query_param", "q")
	v.SetDefault("target.price_selector", "[class*='price'], .price")
	v.SetDefault("target.wait_seconds", 4.0)
	v.SetDefault("target.max_results", 20)

	// Comparison defaults
	v.SetDefault("compare.keyword_prefix", "spark 1/43")
	v.SetDefault("compare.max_source_items", 10)
	v.SetDefault("compare.debug", false)

	// Price parsing defaults
	v.SetDefault("price.max_price", 10000000.0)
	v.SetDefault("price.allow_zero", false)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "24h")

	// Output defaults
	v.SetDefault("output.path", "output/price_compare.csv")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Compare.KeywordPrefix == "" {
		return fmt.Errorf("keyword prefix is required (set PRICELENS_COMPARE_KEYWORD_PREFIX)")
	}

	if config.Source.BaseURL == "" {
		return fmt.Errorf("source marketplace base URL is required")
	}
	if config.Target.BaseURL == "" {
		return fmt.Errorf("target marketplace base URL is required")
	}

	if config.Source.WaitSeconds < 0 || config.Target.WaitSeconds < 0 {
		return fmt.Errorf("wait_seconds must not be negative")
	}

	if config.Price.MaxPrice <= 0 {
		return fmt.Errorf("price.max_price must be positive, got: %v", config.Price.MaxPrice)
	}

	return nil
}
