package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if VOLUNTR_CONFIG is set
//  3. env (prefix VOLUNTR_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("VOLUNTR_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: VOLUNTR_ADDR, VOLUNTR_MATCH_LIMIT, ...
	// Map env keys like VOLUNTR_MATCH_LIMIT -> match_limit (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("VOLUNTR_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "voluntr_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.MatchLimit <= 0 {
		return fmt.Errorf("%w: match_limit must be positive", ErrInvalidConfig)
	}
	if c.HookWorkers <= 0 {
		return fmt.Errorf("%w: hook_workers must be positive", ErrInvalidConfig)
	}
	if c.HookQueueSize <= 0 {
		return fmt.Errorf("%w: hook_queue_size must be positive", ErrInvalidConfig)
	}
	return nil
}
