// Config loading for the plugman CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/gimptool/plugman/internal/paths"
	"github.com/gimptool/plugman/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeySourceDir    = "source_dir"
	cfgKeyStateDir     = "state_dir"
	cfgKeyParasiteName = "parasite_name"
	cfgKeyKeepBackups  = "keep_backups"

	// Defaults.
	defaultKeepBackups = 3
)

// appConfig is the loaded configuration, set by PersistentPreRunE.
var appConfig *viper.Viper

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# plugman configuration

# Default plug-in payload directory for install, upgrade and package
# (overridable by --source)
# source_dir:

# State directory for the install registry and upgrade backups
# (overridable by --state-dir)
# state_dir:

# parasiterc entry the plug-in stores its settings under
parasite_name: plug-in-export-layers

# Upgrade backups to retain per plug-in
keep_backups: 3
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on first
// run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyParasiteName, "plug-in-export-layers")
	v.SetDefault(cfgKeyKeepBackups, defaultKeepBackups)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := types.Config{
		SourceDir:    v.GetString(cfgKeySourceDir),
		StateDir:     v.GetString(cfgKeyStateDir),
		ParasiteName: v.GetString(cfgKeyParasiteName),
		KeepBackups:  v.GetInt(cfgKeyKeepBackups),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
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

// resolveConfigDir returns the configuration directory following the
// precedence: --config-dir flag > PLUGMAN_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveStateDir returns the state directory following the precedence:
// --state-dir flag > config.yaml state_dir > PLUGMAN_STATE_DIR env >
// platform default.
func resolveStateDir() (string, error) {
	return paths.ResolveStateDir(flagStateDir, configStateDir)
}
