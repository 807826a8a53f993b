package config

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// StaticInputs holds the season tables authored outside the pipeline:
// the closed category list, the peer-assignment table and the seed-label
// map. They are passed in whole and never inferred from event data.
type StaticInputs struct {
	Categories []string          `koanf:"categories"`
	Peers      map[string]string `koanf:"peers"`
	Seeds      map[string]string `koanf:"seeds"`
}

// LoadInputs reads the static inputs document from a YAML file.
// Structural validation happens here; semantic validation (peer symmetry,
// seed coverage) belongs to the domain packages that consume the tables.
func LoadInputs(_ context.Context, path string) (*StaticInputs, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load static inputs: %w", err)
	}

	var in StaticInputs
	if err := k.UnmarshalWithConf("", &in, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("parse static inputs: %w", err)
	}

	if len(in.Categories) == 0 {
		return nil, fmt.Errorf("%w: categories must not be empty", ErrInvalidInputs)
	}
	if len(in.Peers) == 0 {
		return nil, fmt.Errorf("%w: peers must not be empty", ErrInvalidInputs)
	}
	if len(in.Seeds) == 0 {
		return nil, fmt.Errorf("%w: seeds must not be empty", ErrInvalidInputs)
	}

	return &in, nil
}
