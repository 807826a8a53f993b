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
//  2. file (YAML) if STINT_CONFIG is set
//  3. env (prefix STINT_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("STINT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: STINT_SEASON, STINT_DATA_DIR, ...
	// Map env keys like STINT_DATA_DIR -> data_dir (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("STINT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "stint_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Season <= 0 {
		return fmt.Errorf("%w: season must be positive", ErrInvalidConfig)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	if c.Precision < 0 {
		return fmt.Errorf("%w: precision must not be negative", ErrInvalidConfig)
	}
	if c.ForestTrees <= 0 || c.ForestMaxDepth <= 0 || c.ForestMinLeaf <= 0 {
		return fmt.Errorf("%w: forest parameters must be positive", ErrInvalidConfig)
	}
	return nil
}
