package config

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL    = "https://api.useautumn.com/v1"
	DefaultConfigPath = "autumn.config.ts"
)

// New prepares a viper instance: .env loaded into the process environment,
// defaults registered, the optional atmn.yaml read, ATMN_* variables bound.
// homeDir may be empty.
func New(homeDir string) (*viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("atmn")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if homeDir != "" {
		v.AddConfigPath(filepath.Join(homeDir, ".config", "atmn"))
	}

	v.SetEnvPrefix("ATMN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Key names shared with the rest of the Autumn tooling.
	if err := v.BindEnv("secret_key.sandbox", "ATMN_SECRET_KEY_SANDBOX", "AUTUMN_SECRET_KEY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("secret_key.live", "ATMN_SECRET_KEY_LIVE", "AUTUMN_PROD_SECRET_KEY"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", EnvSandbox)
	v.SetDefault("config_path", DefaultConfigPath)
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", FormatAuto)
	v.SetDefault("customers.delete_concurrency", 5)
}
