package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// Load reads a YAML configuration file, expands ${ENV_VAR} references,
// fills defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.WrapError(types.CONFIG_NOT_FOUND,
				fmt.Sprintf("config file not found: %s", path), err)
		}
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED,
			fmt.Sprintf("failed to read config file: %s", path), err)
	}

	return Parse(data)
}

// Parse decodes YAML bytes into a validated Config. Environment variable
// references (${VAR} or $VAR) in the raw document are expanded before
// decoding, which keeps secrets out of config files.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED,
			"failed to parse config YAML", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads the file when path is non-empty, otherwise returns
// the default configuration.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	return Load(path)
}
