package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the staffdesk console.
//
// Fields:
//   - APIBaseURL: base URL every API path is appended to.
//   - RequestTimeout: upper bound for a single HTTP request.
//   - SessionDBPath: sqlite file that keeps the admin session.
//   - LoginRedirectDelay: pause between a successful login and the
//     companies screen.
//   - LogLevel: diagnostics level.
type Config struct {
	APIBaseURL         string
	RequestTimeout     time.Duration
	SessionDBPath      string
	LoginRedirectDelay time.Duration
	LogLevel           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/v3"
	c.RequestTimeout = 10 * time.Second
	c.SessionDBPath = "session.db"
	c.LoginRedirectDelay = 2 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, the JSON file, the environment
// and os.Args, later sources taking precedence.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
