// Package config loads application configuration in layers: built-in
// defaults, then an optional YAML file, then PREPDECK_* environment
// variables, then command-line flags. Later layers win.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "PREPDECK_"

// Config holds everything the process needs at startup.
type Config struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	DBPath     string `koanf:"db_path" validate:"required"`
	ReposDir   string `koanf:"repos_dir" validate:"required"`
	QueueLimit int    `koanf:"queue_limit" validate:"gte=1,lte=100"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"listen_addr": "localhost:8484",
		"db_path":     "prepdeck.db",
		"repos_dir":   "repos",
		"queue_limit": 20,
	}
}

// Load builds the configuration from the given file path (skipped when the
// file does not exist), the environment, and the parsed flag set.
func Load(filePath string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("config defaults: %w", err)
		}
	}

	if filePath != "" {
		if _, err := os.Stat(filePath); err == nil {
			if err := k.Load(file.Provider(filePath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("config file %s: %w", filePath, err)
			}
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("config environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("config flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}
