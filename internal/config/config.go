// Package config loads platform runtime configuration from a TOML file and
// environment variables, exposing typed structs for all sections.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the runtime configuration loaded from defaults, config.toml, and env vars.
type Config struct {
	// HomeDir is runtime-resolved from AGENTIC_HOME and not read from config.
	HomeDir  string         `mapstructure:"-"`
	Server   ServerConfig   `mapstructure:"server"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Database DatabaseConfig `mapstructure:"database"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Payment  PaymentConfig  `mapstructure:"payment"`
	Explain  ExplainConfig  `mapstructure:"explain"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// JWTConfig configures token issuance.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

// DatabaseConfig locates the SQLite database file.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// GatewayConfig controls LLM gateway request behavior.
type GatewayConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// PaymentConfig configures the Razorpay integration. Keys default to the
// deployment environment so secrets stay out of the config file.
type PaymentConfig struct {
	KeyID     string `mapstructure:"key_id"`
	KeySecret string `mapstructure:"key_secret"`
}

// ExplainConfig configures the explanation agents.
type ExplainConfig struct {
	AudioCacheDir string `mapstructure:"audio_cache_dir"`
}

var defaultConfig = Config{
	Server: ServerConfig{
		Port:           "5000",
		Environment:    "development",
		AllowedOrigins: []string{"*"},
	},
	JWT: JWTConfig{
		Secret:     "super-secret-agentic-key-change-in-prod",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	},
	Database: DatabaseConfig{
		Path: "users.db",
	},
	Gateway: GatewayConfig{
		RequestTimeout: 60 * time.Second,
	},
	Payment: PaymentConfig{
		KeyID:     "${RAZORPAY_KEY_ID}",
		KeySecret: "${RAZORPAY_KEY_SECRET}",
	},
	Explain: ExplainConfig{
		AudioCacheDir: "audio_cache",
	},
}

// homeDir returns the platform home directory.
// Uses AGENTIC_HOME env var if set, otherwise defaults to ~/.agentic.
func homeDir() (string, error) {
	if dir := os.Getenv("AGENTIC_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".agentic"), nil
}

// Load merges hardcoded defaults and config file values in that order.
// Config is always at $AGENTIC_HOME/config.toml.
func Load() (*Config, error) {
	home, err := homeDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(filepath.Join(home, "config.toml"))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		expandEnvStringHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	if err := v.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = decodeHook
	}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.HomeDir = home

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultConfig.Server.Port)
	v.SetDefault("server.environment", defaultConfig.Server.Environment)
	v.SetDefault("server.allowed_origins", defaultConfig.Server.AllowedOrigins)

	v.SetDefault("jwt.secret", defaultConfig.JWT.Secret)
	v.SetDefault("jwt.access_ttl", defaultConfig.JWT.AccessTTL)
	v.SetDefault("jwt.refresh_ttl", defaultConfig.JWT.RefreshTTL)

	v.SetDefault("database.path", defaultConfig.Database.Path)

	v.SetDefault("gateway.request_timeout", defaultConfig.Gateway.RequestTimeout)

	v.SetDefault("payment.key_id", defaultConfig.Payment.KeyID)
	v.SetDefault("payment.key_secret", defaultConfig.Payment.KeySecret)

	v.SetDefault("explain.audio_cache_dir", defaultConfig.Explain.AudioCacheDir)
}

// Validatable is implemented by config sections that can self-validate.
type Validatable interface {
	Validate() error
}

// Validate checks the HTTP listener settings.
func (c ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	return nil
}

// Validate checks token issuance settings.
func (c JWTConfig) Validate() error {
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	if c.AccessTTL <= 0 {
		return errors.New("access_ttl must be > 0")
	}
	if c.RefreshTTL <= 0 {
		return errors.New("refresh_ttl must be > 0")
	}
	return nil
}

// Validate checks database settings.
func (c DatabaseConfig) Validate() error {
	if c.Path == "" {
		return errors.New("path is required")
	}
	return nil
}

// Validate checks gateway settings.
func (c GatewayConfig) Validate() error {
	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be > 0")
	}
	return nil
}

// Validate validates startup configuration and returns the first fatal error.
func (cfg *Config) Validate() error {
	var errs []error

	if err := cfg.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := cfg.JWT.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("jwt: %w", err))
	}
	if err := cfg.Database.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}
	if err := cfg.Gateway.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("gateway: %w", err))
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func expandEnvStringHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.String {
			return data, nil
		}
		value, ok := data.(string)
		if !ok {
			return data, nil
		}
		return os.ExpandEnv(value), nil
	}
}
