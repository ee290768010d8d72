package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.base_url", typ: kString, env: "DOCUMIND_SERVER_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Server.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.BaseURL },
	},
	{
		key: "server.timeout_seconds", typ: kInt, env: "DOCUMIND_SERVER_TIMEOUT_SECONDS",
		apply:   func(cfg *Config, v any) { cfg.Server.TimeoutSeconds = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.TimeoutSeconds },
	},
	{
		key: "chat.max_results", typ: kInt, env: "DOCUMIND_CHAT_MAX_RESULTS",
		apply:   func(cfg *Config, v any) { cfg.Chat.MaxResults = v.(int) },
		extract: func(cfg Config) any { return cfg.Chat.MaxResults },
	},
	{
		key: "summary.cache_ttl", typ: kString, env: "DOCUMIND_SUMMARY_CACHE_TTL",
		apply:   func(cfg *Config, v any) { cfg.Summary.CacheTTL = v.(string) },
		extract: func(cfg Config) any { return cfg.Summary.CacheTTL },
	},
	{
		key: "storage.data_dir", typ: kString, env: "DOCUMIND_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "log.level", typ: kString, env: "DOCUMIND_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		v := os.Getenv(s.env)
		if v == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, v)
		case kInt:
			i, err := strconv.Atoi(v)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse int from %s=%q: %v. Using default value.\n", s.env, v, err)
				continue
			}
			s.apply(cfg, i)
		}
	}
}
