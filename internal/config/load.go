package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory when
// no path is given.
const DefaultPath = "muscle.yaml"

// Load loads configuration with priority: defaults < file < flags.
// An empty path falls back to DefaultPath if it exists. f may be nil.
func Load(path string, f *Flags) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}
	applyFlags(cfg, f)
	return cfg, nil
}

func findConfigFile() string {
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}
	return ""
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Lists in the file replace the defaults.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
