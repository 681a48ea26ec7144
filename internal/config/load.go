package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where a config file is searched, in order. The
// first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/storybeats/config.yaml",
}

// ConfigPathEnvVar overrides the config file search entirely.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix guards which environment variables feed the config. A double
// underscore separates nesting levels so multi-word keys keep their single
// underscores: STORYBEATS_ENGINE__FIRST_BATCH_SIZE -> engine.first_batch_size.
const envPrefix = "STORYBEATS_"

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, validates it and returns it.
func Load() (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults from the struct.
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	// 2. Optional YAML file.
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	// 3. Environment variables beat the file. Unprefixed names from earlier
	// deployments load first so a prefixed variable wins over its alias.
	if err := k.Load(env.Provider("", ".", legacyEnv), nil); err != nil {
		return nil, fmt.Errorf("config: load legacy env: %w", err)
	}
	if err := k.Load(env.Provider(envPrefix, ".", prefixedEnv), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the path of the first config file that exists, or
// an empty string when there is none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// prefixedEnv rewrites STORYBEATS_SECTION__KEY to section.key.
func prefixedEnv(key string) string {
	key = strings.TrimPrefix(key, envPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

// legacyEnv recognizes the unprefixed variable names earlier deployments
// used. Anything not in the map is skipped so arbitrary environment
// variables never leak into the config.
func legacyEnv(key string) string {
	aliases := map[string]string{
		"SPOTIFY_CLIENT_ID":       "catalog.client_id",
		"SPOTIFY_CLIENT_SECRET":   "catalog.client_secret",
		"SPOTIFY_REQUEST_RETRIES": "catalog.max_retries",
		"OLLAMA_HOST":             "vision.base_url",
		"OLLAMA_MODEL":            "vision.model",
	}
	return aliases[key]
}
