// Package config loads the settings of the genkeys binary from a .env file,
// GENKEYS_* environment variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hsiuhsiu/genkeys-go/pkg/rsakey"
	"github.com/hsiuhsiu/genkeys-go/pkg/rsakey/logging"
)

// Config holds the application configuration.
type Config struct {
	Bits             int
	MaxBits          int
	Rounds           int
	MaxPrimeAttempts int
	MaxPairAttempts  int
	OutDir           string
	ListenAddr       string
	LogLevel         string
	LogFormat        string
}

// Loader reads configuration. Precedence, highest first: GENKEYS_* environment
// variables (a .env file only fills in variables that are not already set),
// the config file, built-in defaults.
type Loader struct {
	envFile    string
	configFile string
}

// NewLoader returns a Loader. Either path may be empty to skip that source.
func NewLoader(envFile, configFile string) *Loader {
	return &Loader{envFile: envFile, configFile: configFile}
}

// Load assembles and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	if l.envFile != "" {
		// Existing environment variables are not overridden.
		if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", l.envFile, err)
		}
	}

	v := viper.New()
	v.SetDefault("bits", 1024)
	v.SetDefault("max_bits", rsakey.MaxBits)
	v.SetDefault("rounds", rsakey.DefaultRounds)
	v.SetDefault("max_prime_attempts", rsakey.DefaultMaxPrimeAttempts)
	v.SetDefault("max_pair_attempts", rsakey.DefaultMaxPairAttempts)
	v.SetDefault("out_dir", ".")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix("GENKEYS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", l.configFile, err)
		}
	}

	cfg := &Config{
		Bits:             v.GetInt("bits"),
		MaxBits:          v.GetInt("max_bits"),
		Rounds:           v.GetInt("rounds"),
		MaxPrimeAttempts: v.GetInt("max_prime_attempts"),
		MaxPairAttempts:  v.GetInt("max_pair_attempts"),
		OutDir:           v.GetString("out_dir"),
		ListenAddr:       v.GetString("listen_addr"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := rsakey.ValidateBits(c.MaxBits); err != nil {
		return fmt.Errorf("max_bits: %w", err)
	}
	if err := rsakey.ValidateBits(c.Bits); err != nil {
		return fmt.Errorf("bits: %w", err)
	}
	if c.Bits > c.MaxBits {
		return fmt.Errorf("bits: %d is above max_bits %d: %w", c.Bits, c.MaxBits, rsakey.ErrInvalidInput)
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	if c.MaxPrimeAttempts <= 0 {
		return fmt.Errorf("max_prime_attempts must be positive, got %d", c.MaxPrimeAttempts)
	}
	if c.MaxPairAttempts <= 0 {
		return fmt.Errorf("max_pair_attempts must be positive, got %d", c.MaxPairAttempts)
	}
	if c.OutDir == "" {
		return fmt.Errorf("out_dir is required")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// GeneratorConfig maps the settings onto an rsakey.Config.
func (c *Config) GeneratorConfig(logger logging.Logger) rsakey.Config {
	return rsakey.Config{
		Rounds:           c.Rounds,
		MaxPrimeAttempts: c.MaxPrimeAttempts,
		MaxPairAttempts:  c.MaxPairAttempts,
		MaxBits:          c.MaxBits,
		Logger:           logger,
	}
}
