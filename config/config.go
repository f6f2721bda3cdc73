package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Storage settings
	DataDirectory string `json:"data_directory" yaml:"data_directory"`
	DatabaseFile  string `json:"database_file" yaml:"database_file"`

	// Analytics settings
	MoreRestEnabled bool `json:"more_rest_enabled" yaml:"more_rest_enabled"` // Count idle gaps between work sessions as rest

	// Logging
	Verbose bool `json:"verbose" yaml:"verbose"`

	// UI settings
	EnableMouse bool   `json:"enable_mouse" yaml:"enable_mouse"`
	ColorTheme  string `json:"color_theme" yaml:"color_theme"` // "light", "dark", "system"
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		DataDirectory: filepath.Join(homeDir, ".focus-reports"),
		DatabaseFile:  "sessions.db",

		MoreRestEnabled: false,

		Verbose: false,

		EnableMouse: true,
		ColorTheme:  "system",
	}
}

// DatabasePath returns the full path of the session database file.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.DatabaseFile) {
		return c.DatabaseFile
	}
	return filepath.Join(c.DataDirectory, c.DatabaseFile)
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}

	// Define possible config directories in priority order
	configDirs := []string{
		filepath.Join(homeDir, ".focus-reports"),
	}

	// Add ~/.config/focus-reports on Unix-like systems
	sysConfigDir, err := os.UserConfigDir()
	if err == nil {
		configDirs = append(configDirs, filepath.Join(sysConfigDir, "focus-reports"))
	}

	// Check each directory for a config file
	for _, dir := range configDirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			continue
		}

		for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}

	// If no config file found, use the default location in home directory
	return filepath.Join(homeDir, ".focus-reports", "config.json"), nil
}

// LoadConfigFromPath loads the configuration from a specific path
func LoadConfigFromPath(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	// Parse the config based on file extension
	var config Config
	if strings.HasSuffix(configPath, ".yaml") || strings.HasSuffix(configPath, ".yml") {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("could not parse YAML config file: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("could not parse JSON config file: %w", err)
		}
	}

	// Fill in required fields left empty
	if config.DataDirectory == "" {
		homeDir, _ := os.UserHomeDir()
		config.DataDirectory = filepath.Join(homeDir, ".focus-reports")
	}
	if config.DatabaseFile == "" {
		config.DatabaseFile = "sessions.db"
	}

	return &config, nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Create default config
		config := DefaultConfig()
		if err := SaveConfig(config); err != nil {
			return config, fmt.Errorf("could not save default config: %w", err)
		}
		return config, nil
	}

	config, err := LoadConfigFromPath(configPath)
	if err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// SaveConfigToPath saves the configuration to a specific path
func SaveConfigToPath(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	var data []byte
	var err error

	// Marshal the config based on file extension
	if strings.HasSuffix(configPath, ".yaml") || strings.HasSuffix(configPath, ".yml") {
		data, err = yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("could not marshal YAML config: %w", err)
		}
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
		if err != nil {
			return fmt.Errorf("could not marshal JSON config: %w", err)
		}
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("could not write config file: %w", err)
	}

	return nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(config *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	return SaveConfigToPath(config, configPath)
}
