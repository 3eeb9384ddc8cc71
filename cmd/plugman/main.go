// Package main provides the plugman CLI: install, upgrade and uninstall
// GIMP plug-in payloads across the per-OS, per-version plug-in directories,
// plus the release-side packaging and version-bump tooling.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gimptool/plugman/pkg/plugman"
	"github.com/gimptool/plugman/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagStateDir  string
	flagJSON      bool
)

// configStateDir holds the state_dir value loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var configStateDir string

var rootCmd = &cobra.Command{
	Use:     "plugman",
	Short:   "plugman manages GIMP plug-in installations",
	Version: plugman.Version,
	Long: `plugman installs, upgrades and removes GIMP plug-ins across the
per-OS, per-version plug-in directories GIMP reads, keeps a registry of what
it put where, and carries the release tooling for packaging new plug-in
versions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		parsedOK = true

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configStateDir = cfg.GetString(cfgKeyStateDir)
		appConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagStateDir, "state-dir", "", "state directory for the install registry and backups")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(packageCmd)
	rootCmd.AddCommand(bumpCmd)
}

// parsedOK records that flag and argument parsing succeeded. Execute fails
// before PersistentPreRunE on unknown flags or bad arguments; those are user
// mistakes.
var parsedOK bool

// userErrors are the failures caused by what the user asked for rather than
// by the machine; they exit with exitUserError.
var userErrors = []error{
	types.ErrInvalidVersion,
	types.ErrInvalidIncrement,
	types.ErrInvalidPrerelease,
	types.ErrUnknownGIMPVersion,
	types.ErrNoTargets,
	types.ErrAlreadyInstalled,
	types.ErrNotInstalled,
	types.ErrNotFound,
	types.ErrPackageNameEmpty,
	types.ErrScriptFileEmpty,
	types.ErrKeepBackupsInvalid,
}

func exitCode(err error) int {
	if !parsedOK {
		return exitUserError
	}
	for _, userErr := range userErrors {
		if errors.Is(err, userErr) {
			return exitUserError
		}
	}
	return exitSysError
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}
