package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the CLI configuration for one invocation.
type Config struct {
	Environment string
	ConfigPath  string

	API       APIConfig
	SecretKey SecretKeyConfig
	Logger    LoggerConfig
	Customers CustomersConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SecretKeyConfig struct {
	Sandbox string
	Live    string
}

type LoggerConfig struct {
	Level  string
	Format string
}

type CustomersConfig struct {
	// DeleteConcurrency bounds in-flight customer deletions.
	DeleteConcurrency int
}

const (
	EnvSandbox = "sandbox"
	EnvLive    = "live"
)

const (
	FormatAuto    = "auto"
	FormatJSON    = "json"
	FormatConsole = "console"
)

var (
	ErrInvalidEnvironment = errors.New("invalid_environment")
	ErrMissingSecretKey   = errors.New("missing_secret_key")
	ErrInvalidConcurrency = errors.New("invalid_delete_concurrency")
	ErrInvalidLogFormat   = errors.New("invalid_log_format")
)

// Load reads the configuration out of v. Call New first so that defaults,
// the optional config file and the environment are in place.
func Load(v *viper.Viper) (Config, error) {
	environment, err := normalizeEnvironment(v.GetString("environment"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Environment: environment,
		ConfigPath:  strings.TrimSpace(v.GetString("config_path")),
		API: APIConfig{
			BaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("api.base_url")), "/"),
			Timeout: v.GetDuration("api.timeout"),
		},
		SecretKey: SecretKeyConfig{
			Sandbox: strings.TrimSpace(v.GetString("secret_key.sandbox")),
			Live:    strings.TrimSpace(v.GetString("secret_key.live")),
		},
		Logger: LoggerConfig{
			Level:  strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
			Format: strings.ToLower(strings.TrimSpace(v.GetString("log.format"))),
		},
		Customers: CustomersConfig{
			DeleteConcurrency: v.GetInt("customers.delete_concurrency"),
		},
	}

	if cfg.Customers.DeleteConcurrency < 1 {
		return Config{}, fmt.Errorf("%w: %d", ErrInvalidConcurrency, cfg.Customers.DeleteConcurrency)
	}
	switch cfg.Logger.Format {
	case FormatAuto, FormatJSON, FormatConsole:
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidLogFormat, cfg.Logger.Format)
	}
	return cfg, nil
}

func (c Config) IsLive() bool {
	return c.Environment == EnvLive
}

// ActiveSecretKey returns the key for the selected environment.
func (c Config) ActiveSecretKey() (string, error) {
	key := c.SecretKey.Sandbox
	envVar := "AUTUMN_SECRET_KEY"
	if c.IsLive() {
		key = c.SecretKey.Live
		envVar = "AUTUMN_PROD_SECRET_KEY"
	}
	if key == "" {
		return "", fmt.Errorf("%w: set %s for the %s environment", ErrMissingSecretKey, envVar, c.Environment)
	}
	return key, nil
}

func normalizeEnvironment(raw string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "", EnvSandbox, "test", "dev":
		return EnvSandbox, nil
	case EnvLive, "prod", "production":
		return EnvLive, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidEnvironment, raw)
	}
}
