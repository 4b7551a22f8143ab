package api

import (
	"github.com/smallbiznis/atmn/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewFromConfig builds a client for the selected environment.
func NewFromConfig(cfg config.Config, log *zap.Logger) (*Client, error) {
	key, err := cfg.ActiveSecretKey()
	if err != nil {
		return nil, err
	}
	return NewClient(ClientConfig{
		BaseURL:   cfg.API.BaseURL,
		SecretKey: key,
		Timeout:   cfg.API.Timeout,
	}, log)
}

var Module = fx.Module("api",
	fx.Provide(NewFromConfig),
)
