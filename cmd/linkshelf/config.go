// Config loading for the linkshelf CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Linkshelf configuration

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Backup directory (default: <data_dir>/backups)
# backup_dir:

listen_addr: ":8080"
log_level: info
backup_max_files: 10

# webdav:
#   enabled: true
#   url: https://dav.example.com/linkshelf
#   username: ...
#   password: ...
#   auto_backup: true
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on first
// run; a missing config.yaml is not an error.
func loadConfig(configDir string) (types.Config, error) {
	cfg := types.DefaultConfig()

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return cfg, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return cfg, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
