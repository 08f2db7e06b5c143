// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/internal/constants"
	"gopkg.in/yaml.v3"
)

var (
	instance   *Config
	once       sync.Once
	configPath string // Tracks where the config was loaded from
)

type Config struct {
	Output struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"output"`

	Cmdline struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"cmdline"`

	Efivars struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"efivars"`

	Limits struct {
		MaxInterfaces int `mapstructure:"maxInterfaces"`
		MaxVLANs      int `mapstructure:"maxVlans"`
		MaxVLANRefs   int `mapstructure:"maxVlanRefs"`
	} `mapstructure:"limits"`

	Logger struct {
		LogLevel     string `mapstructure:"logLevel"`
		EnableSentry bool   `mapstructure:"enableSentry"`
		SentryDSN    string `mapstructure:"sentryDSN"`
	} `mapstructure:"logger"`
}

// LoadConfig loads the configuration with precedence rules.
func LoadConfig(configFilePath string) *Config {
	once.Do(func() {
		// Setup basic logger for initialization
		logConfig := logger.Config{
			LogLevel:     "info",
			EnableSentry: false,
			SentryDSN:    "",
		}
		l, err := logger.NewTag(logConfig, "config")
		if err != nil {
			fmt.Printf("Failed to create logger: %v\n", err)
			os.Exit(1)
		}

		// Reset viper to avoid any potential carryover
		viper.Reset()
		viper.SetConfigType("yaml")

		// Determine which config file to use with clear priorities
		systemConfigPath := filepath.Join(GetConfigDir(), constants.ConfigFileName)

		if configFilePath != "" {
			// 1. Priority: Explicit path from command line
			configPath = configFilePath
		} else if envPath := os.Getenv(constants.ConfigEnvVar); envPath != "" {
			// 2. Priority: Environment variable
			configPath = envPath
		} else {
			// 3. Priority: Always default to system-wide config
			configPath = systemConfigPath
		}

		// Convert to absolute path if possible for consistency
		absPath, err := filepath.Abs(configPath)
		if err == nil {
			configPath = absPath
		}

		// Set config file path for viper
		viper.SetConfigFile(configPath)

		// Set defaults
		viper.SetDefault("output.dir", constants.DefaultOutputDir)
		viper.SetDefault("cmdline.path", constants.DefaultCmdlinePath)
		viper.SetDefault("efivars.path", constants.DefaultEfivarsPath)
		viper.SetDefault("limits.maxInterfaces", constants.DefaultMaxInterfaces)
		viper.SetDefault("limits.maxVlans", constants.DefaultMaxVLANs)
		viper.SetDefault("limits.maxVlanRefs", constants.DefaultMaxVLANRefs)
		viper.SetDefault("logger.logLevel", "info")
		viper.SetDefault("logger.enableSentry", false)
		viper.SetDefault("logger.sentryDSN", "")

		// Bind environment variables
		viper.AutomaticEnv()
		viper.SetEnvPrefix("NETGEN")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

		// Try to read the config file
		err = viper.ReadInConfig()

		if err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				// Some other error (parse error, etc.)
				l.Error("Error reading config file", "err", err)
			}

			// A missing config file is fine for a one-shot generator that
			// normally runs from the initrd; fall back to defaults.
			var cfg Config
			if err := viper.Unmarshal(&cfg); err != nil {
				l.Error("Failed to unmarshal default configuration", "err", err)
			}
			instance = &cfg
		} else {
			l.Debug("Config file loaded", "path", viper.ConfigFileUsed())
			configPath = viper.ConfigFileUsed()

			var cfg Config
			if err := viper.Unmarshal(&cfg); err != nil {
				l.Error("Failed to parse configuration", "err", err)
			} else {
				instance = &cfg
			}
		}
	})

	return instance
}

// GetConfigDir returns the system-wide configuration directory.
func GetConfigDir() string {
	return "/etc/netgen"
}

// SaveConfig persists the current configuration to a specified path.
func SaveConfig(path string) error {
	if path == "" {
		if os.Geteuid() == 0 {
			if err := os.MkdirAll(GetConfigDir(), 0755); err != nil {
				return fmt.Errorf("failed to create system config directory: %w", err)
			}
			path = filepath.Join(GetConfigDir(), constants.ConfigFileName)
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			userConfigDir := filepath.Join(home, ".netgen")
			if err := os.MkdirAll(userConfigDir, 0755); err != nil {
				return fmt.Errorf("failed to create user config directory: %w", err)
			}
			path = filepath.Join(userConfigDir, constants.ConfigFileName)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configYAML, err := yaml.Marshal(instance)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}

	if err := os.WriteFile(path, configYAML, 0644); err != nil {
		return fmt.Errorf("failed to write configuration to file: %w", err)
	}

	configPath = path

	return nil
}

// GetLoadedConfigPath returns the path of the currently loaded configuration file.
func GetLoadedConfigPath() string {
	return configPath
}

// GetConfig returns the current configuration instance.
func GetConfig() *Config {
	if instance == nil {
		return LoadConfig("")
	}
	return instance
}

func NewLoggerConfig(cfg *Config) logger.Config {
	if cfg == nil {
		return logger.Config{
			LogLevel:     "info",
			EnableSentry: false,
			SentryDSN:    "",
		}
	}

	return logger.Config{
		LogLevel:     cfg.Logger.LogLevel,
		EnableSentry: cfg.Logger.EnableSentry,
		SentryDSN:    cfg.Logger.SentryDSN,
	}
}
