package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Chat    ChatConfig
	Summary SummaryConfig
	Storage StorageConfig
	Log     LogConfig
}

type ServerConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

type ChatConfig struct {
	MaxResults int
}

type SummaryConfig struct {
	CacheTTL string
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 60,
		},
		Chat: ChatConfig{
			MaxResults: 5,
		},
		Summary: SummaryConfig{
			CacheTTL: "10m",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a .env file (if present), the JSON config
// file at $XDG_CONFIG_HOME/documind/config.json, and DOCUMIND_* environment
// variables, in increasing order of precedence.
func Load() (Config, error) {
	_ = godotenv.Load()
	return loadWith(newFileBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Server.BaseURL == "" {
		return Config{}, fmt.Errorf("missing required config: server.base_url")
	}
	if cfg.Server.TimeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("server.timeout_seconds must be positive, got %d", cfg.Server.TimeoutSeconds)
	}
	if cfg.Chat.MaxResults <= 0 {
		return Config{}, fmt.Errorf("chat.max_results must be positive, got %d", cfg.Chat.MaxResults)
	}
	if _, err := time.ParseDuration(cfg.Summary.CacheTTL); err != nil {
		return Config{}, fmt.Errorf("summary.cache_ttl %q is not a duration: %w", cfg.Summary.CacheTTL, err)
	}

	return cfg, nil
}

// Timeout returns the per-request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// SummaryTTL returns the summary cache lifetime. Load validated the value,
// so parsing cannot fail here.
func (c Config) SummaryTTL() time.Duration {
	d, _ := time.ParseDuration(c.Summary.CacheTTL)
	return d
}
