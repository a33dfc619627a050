// Package config loads vessel settings from the environment, an optional
// config file and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "vessel"

	// EnvPrefix prefixes every environment variable vessel reads.
	EnvPrefix = "VESSEL"

	// DefaultBaseURL is the backend used when nothing else is configured.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	// LogFile is the log filename used when output must stay off the terminal.
	LogFile = "vessel.log"

	// frontendURLEnv is read as a fallback base URL so the web frontend's
	// .env files work unchanged.
	frontendURLEnv = "NEXT_PUBLIC_API_URL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `mapstructure:"-"`

	// BaseURL is the backend root, without the /api suffix.
	BaseURL string `mapstructure:"base_url"`

	// APIToken is sent as a bearer token when set.
	APIToken string `mapstructure:"api_token"`

	// Timeout bounds each HTTP request. Zero disables the client timeout.
	Timeout time.Duration `mapstructure:"timeout"`

	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Debug enables debug logging to stderr.
	Debug bool `mapstructure:"debug"`

	// Quiet suppresses informational output.
	Quiet bool `mapstructure:"-"`
}

// Options are the command-line overrides applied on top of file and env.
type Options struct {
	// Dir overrides the config directory.
	Dir string

	// File is an explicit config file; it must exist when set.
	File string

	// BaseURL overrides the configured backend URL.
	BaseURL string
}

// Load resolves configuration. Precedence, lowest first: defaults, config
// file, .env files, VESSEL_* environment, options.
func Load(opts Options) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	LoadEnvFiles()

	v := viper.New()
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("log_level", "info")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"base_url", "api_token", "timeout", "log_level", "debug"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.File, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config in %s: %w", dir, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Dir = dir

	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv(frontendURLEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFiles loads .env and then .env.<VESSEL_ENV> from the working
// directory. Missing files are fine.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	if env := os.Getenv(EnvPrefix + "_ENV"); env != "" {
		_ = godotenv.Overload(".env." + env)
	}
}

// Validate checks that settings are usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative: %s", c.Timeout)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// LogPath returns the path of the log file in the config directory.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
