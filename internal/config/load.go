package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the service configuration from a YAML file. The path comes
// from JUDGE_CONFIG_PATH, falling back to configs/judge.yaml. A missing
// file is not an error: defaults apply and env overrides (see setup)
// layer on top.
func Load() (*Config, error) {
	path := os.Getenv("JUDGE_CONFIG_PATH")
	if path == "" {
		path = "configs/judge.yaml"
	}

	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No file, defaults only.
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
