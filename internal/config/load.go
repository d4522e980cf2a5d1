package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sbomscope/sbomscope/internal/cmdlogger"
)

// Load parses the config file at the given path. Anything not set in the file
// keeps its default value.
func Load(configPath string) (Config, error) {
	return tryLoadConfig(configPath)
}

// ForDir returns the config found in dir, falling back to the defaults if
// there is no config file or it cannot be used.
func ForDir(dir string) Config {
	configPath := filepath.Join(dir, FileName)

	config, configErr := tryLoadConfig(configPath)
	if configErr == nil {
		cmdlogger.Infof("Loaded config from: %s", config.LoadPath)

		return config
	}

	// anything other than the config file not existing is most likely due to an invalid config file
	if !errors.Is(configErr, os.ErrNotExist) {
		cmdlogger.Errorf("%s at %s because: %v", cmdlogger.InvalidConfigPrefix, configPath, configErr)
	}

	config = Default()
	config.SBOMDir = dir

	return config
}

// tryLoadConfig attempts to parse the config file at the given path as TOML,
// returning the Config object if successful or otherwise the error
func tryLoadConfig(configPath string) (Config, error) {
	config := Default()
	m, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return Config{}, err
	}

	unknownKeys := m.Undecoded()

	if len(unknownKeys) > 0 {
		keys := make([]string, 0, len(unknownKeys))

		for _, key := range unknownKeys {
			keys = append(keys, key.String())
		}

		return Config{}, fmt.Errorf("unknown keys in config file: %s", strings.Join(keys, ", "))
	}

	if config.OSV.MaxConcurrentScans < 1 {
		return Config{}, fmt.Errorf("OSV.MaxConcurrentScans must be at least 1, got %d", config.OSV.MaxConcurrentScans)
	}

	// a relative SBOM directory is relative to the config file
	if !filepath.IsAbs(config.SBOMDir) {
		config.SBOMDir = filepath.Join(filepath.Dir(configPath), config.SBOMDir)
	}

	config.LoadPath = configPath
	config.warnAboutDuplicates()

	return config, nil
}
