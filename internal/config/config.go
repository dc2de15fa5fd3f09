// Package config provides configuration management for bitkv. It loads
// settings from a YAML file with a `.env` overlay, with thread-safe
// singleton access, expanding environment variables into the YAML before
// unmarshaling.
package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// Config holds all application configuration values.
type Config struct {
	DB_PATH                 string  `yaml:"DB_PATH"`
	GARBAGE_RATIO_THRESHOLD float64 `yaml:"GARBAGE_RATIO_THRESHOLD"`
	FILE_PERM               uint32  `yaml:"FILE_PERM"`
	DIR_PERM                uint32  `yaml:"DIR_PERM"`
}

var (
	appConfig *Config
	once      sync.Once
	initErr   error
)

// defaults returns the configuration used when no config file is present.
func defaults() Config {
	return Config{
		DB_PATH:                 "data/bitkv.log",
		GARBAGE_RATIO_THRESHOLD: 0.5,
		FILE_PERM:               0o644,
		DIR_PERM:                0o755,
	}
}

// LoadConfig reads configuration from path, optionally overlaid by a
// `.env` file, expanding `${VAR}` references via os.ExpandEnv before
// unmarshaling. It uses sync.Once so concurrent callers all observe the
// same loaded configuration. If path does not exist, defaults are used.
func LoadConfig(path string, log *zap.SugaredLogger) (*Config, error) {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Debugw("no .env file found or error loading it", "error", err)
		} else {
			log.Debugw(".env file loaded successfully")
		}

		cfg := defaults()
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				log.Debugw("config file not found, using defaults", "path", path)
				appConfig = &cfg
				return
			}
			initErr = err
			return
		}

		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
			initErr = err
			return
		}
		appConfig = &cfg
	})
	if initErr != nil {
		return nil, initErr
	}
	return appConfig, nil
}

// GetConfig returns the singleton configuration instance. Panics if
// LoadConfig has not yet been called successfully.
func GetConfig() *Config {
	if appConfig == nil {
		panic("config not loaded - call LoadConfig() first")
	}
	return appConfig
}
