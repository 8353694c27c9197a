package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
)

// EnvPrefix namespaces environment overrides, e.g. BINDGEN_GENERATOR_OUTPUT_DIR
const EnvPrefix = "BINDGEN"

var (
	mu            sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper
	projectPath   string
)

// Load reads the bindgen configuration using Viper. The result is cached
// until Reset.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()
	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	config.Path = projectPath
	if err := config.Validate(); err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path. Environment
// variables are not consulted.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", configPath)
	}
	config.Path = configPath
	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", configPath)
	}
	return config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = nil
	viperInstance = nil
	projectPath = ""
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	wd, _ := os.Getwd()
	projectPath = FindProjectConfig(wd)
	mergeConfigFiles(v, userConfigPath(), projectPath)

	viperInstance = v
	return v
}

// FindProjectConfig searches for bindgen.toml by walking up from dir.
// Returns the path to the first config file found, or empty string if none found.
func FindProjectConfig(dir string) string {
	if dir == "" {
		return ""
	}
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bindgen", FileName)
}

// mergeConfigFiles merges existing files in order; later files win per key
func mergeConfigFiles(v *viper.Viper, paths ...string) {
	for _, configPath := range paths {
		if configPath == "" {
			continue
		}
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		tempViper := viper.New()
		tempViper.SetConfigFile(configPath)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			logger.Warnw("Skipping unreadable config file", logger.FieldPath, configPath, logger.FieldError, err)
			continue
		}
		if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
			logger.Warnw("Skipping config file", logger.FieldPath, configPath, logger.FieldError, err)
		}
	}
}
