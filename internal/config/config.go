package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/thurmanmarka/astroreturn"
)

// EnvPrefix is prepended to every environment override, e.g.
// ASTRORETURN_TOLERANCE_SECONDS or ASTRORETURN_SERVER_ADDR.
const EnvPrefix = "ASTRORETURN"

// ServerConfig holds settings for the HTTP service.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	RateLimit   float64  `mapstructure:"rate_limit"` // requests per second per client IP; 0 disables
	Burst       int      `mapstructure:"burst"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Config holds all runtime configuration. Values are populated from
// .astroreturn.yaml, ASTRORETURN_* env vars, and CLI flags.
type Config struct {
	ToleranceSeconds     float64      `mapstructure:"tolerance_seconds"`
	MaxIterations        int          `mapstructure:"max_iterations"`
	ReturnEpsilonSeconds float64      `mapstructure:"return_epsilon_seconds"`
	CatalogPath          string       `mapstructure:"catalog_path"`
	Verbose              bool         `mapstructure:"verbose"`
	Server               ServerConfig `mapstructure:"server"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("tolerance_seconds", 1.0)
	viper.SetDefault("max_iterations", 1000)
	viper.SetDefault("return_epsilon_seconds", 60.0)
	viper.SetDefault("catalog_path", "")
	viper.SetDefault("verbose", false)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.rate_limit", 20.0)
	viper.SetDefault("server.burst", 40)
	viper.SetDefault("server.cors_origins", []string{"*"})

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the solver settings. The resulting Options are checked
// again by astroreturn.NewSolver.
func (c Config) Validate() error {
	if c.ToleranceSeconds <= 0 {
		return fmt.Errorf("tolerance_seconds must be positive, got %v", c.ToleranceSeconds)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be at least 1, got %d", c.MaxIterations)
	}
	if c.ReturnEpsilonSeconds <= c.ToleranceSeconds {
		return fmt.Errorf("return_epsilon_seconds (%v) must exceed tolerance_seconds (%v)",
			c.ReturnEpsilonSeconds, c.ToleranceSeconds)
	}
	if c.Server.RateLimit < 0 || c.Server.Burst < 0 {
		return fmt.Errorf("server rate limit and burst must not be negative")
	}
	return nil
}

// Options converts the solver settings to astroreturn.Options.
func (c Config) Options() astroreturn.Options {
	return astroreturn.Options{
		Tolerance:     c.ToleranceSeconds * astroreturn.Second,
		MaxIterations: c.MaxIterations,
		ReturnEpsilon: c.ReturnEpsilonSeconds * astroreturn.Second,
	}
}

// Catalog loads the configured body catalog, or the built-in one when no
// path is set.
func (c Config) Catalog() (*astroreturn.Catalog, error) {
	if c.CatalogPath == "" {
		return astroreturn.DefaultCatalog(), nil
	}
	return astroreturn.LoadCatalogFile(c.CatalogPath)
}
