// Package paths resolves plugman's own configuration and state directories,
// and the GIMP user and plug-in directories for each supported operating
// system and GIMP release line.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gimptool/plugman/pkg/types"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "PLUGMAN_CONFIG_DIR"
	EnvStateDir  = "PLUGMAN_STATE_DIR"
)

// appDirName is the directory name plugman uses under the platform config
// and data roots.
const appDirName = "plugman"

// Well-known names inside a GIMP user directory.
const (
	PluginsDirName = "plug-ins"
	ParasitercName = "parasiterc"
)

// platformDir holds platform-detection functions that can be overridden in
// tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getenv        func(string) string
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getenv:        os.Getenv,
}

// DefaultConfigDir returns the platform-specific default configuration
// directory for plugman itself.
//
// Linux:   $XDG_CONFIG_HOME/plugman (fallback ~/.config/plugman)
// macOS:   ~/Library/Application Support/plugman
// Windows: %APPDATA%/plugman
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := platformDir.getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appDirName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
}

// DefaultStateDir returns the platform-specific default directory for the
// install registry and upgrade backups.
//
// Linux:   $XDG_DATA_HOME/plugman (fallback ~/.local/share/plugman)
// macOS:   ~/Library/Application Support/plugman
// Windows: %APPDATA%/plugman
func DefaultStateDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := platformDir.getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appDirName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > PLUGMAN_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := platformDir.getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveStateDir returns the state directory following the precedence
// chain: flag > config.yaml state_dir > PLUGMAN_STATE_DIR env >
// DefaultStateDir().
func ResolveStateDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := platformDir.getenv(EnvStateDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultStateDir()
}

// GIMPUserDir returns the GIMP user directory for the given operating system
// and release line. The goos parameter takes runtime.GOOS values; passing it
// explicitly keeps every table row testable on any host.
//
// Windows: %USERPROFILE%\.gimp-2.8 for 2.8, %APPDATA%\GIMP\<ver> for 2.9+.
// Linux:   ~/.gimp-2.8 for 2.8, ~/.config/GIMP/<ver> for 2.9+.
// macOS:   ~/Library/Application Support/GIMP/<ver> for all release lines.
func GIMPUserDir(goos, gimpVersion string) (string, error) {
	if _, err := types.ParseGIMPVersion(gimpVersion); err != nil {
		return "", err
	}

	switch goos {
	case "windows":
		if gimpVersion == types.GIMP28 {
			profile := platformDir.getenv("USERPROFILE")
			if profile == "" {
				return "", fmt.Errorf("%w: USERPROFILE not set", types.ErrUnsupportedOS)
			}
			return filepath.Join(profile, ".gimp-2.8"), nil
		}
		appData := platformDir.getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("%w: APPDATA not set", types.ErrUnsupportedOS)
		}
		return filepath.Join(appData, "GIMP", gimpVersion), nil

	case "linux":
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		if gimpVersion == types.GIMP28 {
			return filepath.Join(home, ".gimp-2.8"), nil
		}
		return filepath.Join(home, ".config", "GIMP", gimpVersion), nil

	case "darwin":
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "GIMP", gimpVersion), nil

	default:
		return "", fmt.Errorf("%w: %q", types.ErrUnsupportedOS, goos)
	}
}

// PluginDir returns the plug-ins directory for the given operating system
// and GIMP release line.
func PluginDir(goos, gimpVersion string) (string, error) {
	userDir, err := GIMPUserDir(goos, gimpVersion)
	if err != nil {
		return "", err
	}
	return filepath.Join(userDir, PluginsDirName), nil
}

// TargetFor builds a Target from a GIMP user directory.
func TargetFor(gimpVersion, userDir string) types.Target {
	return types.Target{
		GIMPVersion: gimpVersion,
		UserDir:     userDir,
		PluginsDir:  filepath.Join(userDir, PluginsDirName),
		Parasiterc:  filepath.Join(userDir, ParasitercName),
	}
}

// CandidateUserDirs returns the GIMP user directory for every known release
// line on the given operating system, keyed by release line. Release lines
// whose base directory cannot be resolved are skipped.
func CandidateUserDirs(goos string) map[string]string {
	dirs := make(map[string]string, len(types.KnownGIMPVersions))
	for _, v := range types.KnownGIMPVersions {
		dir, err := GIMPUserDir(goos, v)
		if err != nil {
			continue
		}
		dirs[v] = dir
	}
	return dirs
}
