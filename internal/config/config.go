package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/mailsift/")
	v.AddConfigPath("$HOME/.mailsift")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("MAILSIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewWithFile creates a configuration instance from an explicit config file
func NewWithFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("MAILSIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Classifier defaults
	v.SetDefault("classifier.threshold", 0.7)
	v.SetDefault("classifier.relaxed_threshold", 0.5)
	v.SetDefault("classifier.thresholds", map[string]float64{})
	v.SetDefault("classifier.require_high_confidence", false)
	v.SetDefault("classifier.capabilities.two_factor", true)
	v.SetDefault("classifier.capabilities.subdomain_detector", true)
	v.SetDefault("classifier.capabilities.logical_classifier", false)
	v.SetDefault("classifier.capabilities.ensemble", true)

	// Ensemble defaults
	v.SetDefault("ensemble.weights.keyword", 0.3)
	v.SetDefault("ensemble.weights.forest", 0.4)
	v.SetDefault("ensemble.weights.bayes", 0.3)
	v.SetDefault("ensemble.weights.llm", 0.3)
	v.SetDefault("ensemble.levels.high", 0.85)
	v.SetDefault("ensemble.levels.medium", 0.65)
	v.SetDefault("ensemble.marketing_categories", []string{"Marketing Spam", "Promotional Email"})

	// Model defaults
	v.SetDefault("models.enabled", []string{"keyword"})
	v.SetDefault("models.fast_path", "")
	v.SetDefault("models.bayes.path", "/etc/mailsift/models/bayes.json")
	v.SetDefault("models.forest.path", "/etc/mailsift/models/forest.json")

	// OpenAI model defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 500)
	v.SetDefault("openai.temperature", 0.1)
	v.SetDefault("openai.top_p", 0.9)
	v.SetDefault("openai.max_body_size", 4096)

	// Store defaults
	v.SetDefault("store.terms.type", "memory")
	v.SetDefault("store.terms.sqlite_path", "/data/mailsift_terms.db")
	v.SetDefault("store.domains.type", "memory")
	v.SetDefault("store.domains.sqlite_path", "/data/mailsift_domains.db")
	v.SetDefault("store.domains.mysql_dsn", "user:password@tcp(localhost:3306)/mailsift")
	v.SetDefault("store.protected.senders", []string{})
	v.SetDefault("store.protected.domains", []string{})
	v.SetDefault("store.protected.subjects", []string{})
	v.SetDefault("store.results.enabled", false)
	v.SetDefault("store.results.sqlite_path", "/data/mailsift_results.db")

	// Whitelist defaults
	v.SetDefault("whitelist.senders", []string{})
	v.SetDefault("whitelist.domains", []string{})

	// Prefix registry defaults (empty means the built-in set)
	v.SetDefault("prefix.overrides", map[string]float64{})

	// Server defaults
	v.SetDefault("server.filter_type", "smtp")
	v.SetDefault("server.listen_address", "0.0.0.0:10025")
	v.SetDefault("server.block_spam", false)
	v.SetDefault("server.headers.category", "X-Spam-Category")
	v.SetDefault("server.headers.confidence", "X-Spam-Confidence")
	v.SetDefault("server.headers.reason", "X-Spam-Reason")
	v.SetDefault("server.headers.action", "X-Spam-Action")
	v.SetDefault("server.relay.address", "127.0.0.1")
	v.SetDefault("server.relay.port", 10026)
	v.SetDefault("server.relay.enabled", true)
	v.SetDefault("server.subject_prefix", "")
	v.SetDefault("server.modify_subject", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetStringMapFloat64 gets a string-to-float map from the configuration
func (c *Config) GetStringMapFloat64(key string) map[string]float64 {
	raw := c.v.GetStringMap(key)
	m := make(map[string]float64, len(raw))
	for k := range raw {
		m[k] = c.v.GetFloat64(key + "." + k)
	}
	return m
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
