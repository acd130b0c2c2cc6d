package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/graphplot/config.yml.
type GlobalConfig struct {
	DataPath       string `yaml:"data_path,omitempty"`       // Default repository to draw from
	DefaultPalette string `yaml:"default_palette,omitempty"` // Overrides the built-in node palette default
	ServeAddr      string `yaml:"serve_addr,omitempty"`      // Default listen address for gplot serve
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "graphplot"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/graphplot/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.DataPath != "" {
		cfg.DataPath = ExpandPath(cfg.DataPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetDataPath returns the configured default repository path.
func GetDataPath() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.DataPath
}

// GetDefaultPalette returns the configured default node palette, if any.
func GetDefaultPalette() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.DefaultPalette
}

// GetServeAddr returns the configured serve listen address, if any.
func GetServeAddr() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.ServeAddr
}

// ErrDataPathNotConfigured is returned when data_path is not set in config.
var ErrDataPathNotConfigured = errors.New("data_path not configured")

// ErrDataPathNotExist is returned when the configured data_path doesn't exist.
var ErrDataPathNotExist = errors.New("data_path does not exist")

// ValidateDataPath returns the data path from global config after
// validation. Returns an error if not configured or the path is missing.
func ValidateDataPath() (string, error) {
	path := GetDataPath()
	if path == "" {
		return "", ErrDataPathNotConfigured
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrDataPathNotExist, path)
	}
	return path, nil
}

// HelpfulConfigMessage returns a helpful message when no repository is found.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No graphplot repository found.

Tip: Run 'gplot init' in a project directory, or create %s
to point at a default repository:
  mkdir -p %s
  echo 'data_path: /path/to/your/repo' > %s`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
