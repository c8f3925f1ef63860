package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "staffdesk"

type envConfig struct {
	APIBaseURL         string        `envconfig:"API_BASE_URL"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT"`
	SessionDBPath      string        `envconfig:"SESSION_DB_PATH"`
	LoginRedirectDelay time.Duration `envconfig:"LOGIN_REDIRECT_DELAY"`
	LogLevel           string        `envconfig:"LOG_LEVEL"`
}

// parseEnv overlays cfg with STAFFDESK_* variables. Unset variables keep
// the current values.
func parseEnv(cfg *Config) error {
	ec := envConfig{
		APIBaseURL:         cfg.APIBaseURL,
		RequestTimeout:     cfg.RequestTimeout,
		SessionDBPath:      cfg.SessionDBPath,
		LoginRedirectDelay: cfg.LoginRedirectDelay,
		LogLevel:           cfg.LogLevel,
	}
	if err := envconfig.Process(envPrefix, &ec); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	cfg.APIBaseURL = ec.APIBaseURL
	cfg.RequestTimeout = ec.RequestTimeout
	cfg.SessionDBPath = ec.SessionDBPath
	cfg.LoginRedirectDelay = ec.LoginRedirectDelay
	cfg.LogLevel = ec.LogLevel
	return nil
}
