package config

import (
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the smoke test.
type Config struct {
	Endpoint    string
	APIKey      string
	Model       string
	Prompt      string
	Timeout     time.Duration
	HistoryDB   string
	LogLevel    string
	SentryDSN   string
	Environment string
}

const (
	defaultEndpoint    = "http://127.0.0.1:8080/v1"
	defaultAPIKey      = "sk-xxx"
	defaultModel       = "mlx-community/Llama-3.2-3B-Instruct"
	defaultPrompt      = "Say this is a test!"
	defaultLogLevel    = "info"
	defaultEnvironment = "development"
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		Endpoint:    getEnv("SMOKE_ENDPOINT", defaultEndpoint),
		APIKey:      getEnv("SMOKE_API_KEY", defaultAPIKey),
		Model:       getEnv("SMOKE_MODEL", defaultModel),
		Prompt:      getEnv("SMOKE_PROMPT", defaultPrompt),
		HistoryDB:   strings.TrimSpace(os.Getenv("SMOKE_HISTORY_DB")),
		LogLevel:    getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Environment: getEnv("ENV", defaultEnvironment),
	}

	if raw := strings.TrimSpace(os.Getenv("SMOKE_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid SMOKE_TIMEOUT value: %s", raw)
		}
		if timeout < 0 {
			return nil, eris.Errorf("invalid SMOKE_TIMEOUT value: %s must not be negative", raw)
		}
		cfg.Timeout = timeout
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
