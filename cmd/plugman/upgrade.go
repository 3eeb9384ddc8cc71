// Upgrade command replaces an installed plug-in version with a new payload.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gimptool/plugman/internal/installer"
)

var (
	upgradeGIMP   string
	upgradeForce  bool
	upgradeDryRun bool
	upgradePurge  []string
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade an installed plug-in",
	Long: `Upgrade backs up the installed payload, removes it together with the
plug-in's settings parasite from parasiterc, and installs the new payload.
GIMP must be closed while upgrading, since it rewrites parasiterc on exit.

Directories an earlier release line left behind can be purged with --purge;
installs made from the 3.0-RC1 layout need --purge pygimplib.

Example:
  plugman upgrade --source ~/src/export-layers
  plugman upgrade --source ~/src/export-layers --purge pygimplib`,
	Args: cobra.NoArgs,
	RunE: runUpgrade,
}

func init() {
	registerPackageFlags(upgradeCmd)
	upgradeCmd.Flags().StringVar(&upgradeGIMP, "gimp", "", "GIMP release line to upgrade in (default: newest detected)")
	upgradeCmd.Flags().BoolVar(&upgradeForce, "force", false, "allow downgrading to an older version")
	upgradeCmd.Flags().BoolVar(&upgradeDryRun, "dry-run", false, "plan without touching anything")
	upgradeCmd.Flags().StringSliceVar(&upgradePurge, "purge", nil, "extra directory in the plug-ins dir to delete (repeatable)")
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	pkg, err := buildPackage()
	if err != nil {
		return err
	}
	if pkg.SourceDir == "" {
		return fmt.Errorf("no payload: pass --source or set source_dir in config")
	}
	pkg.PurgeDirs = upgradePurge

	target, err := findTarget(cmd.Context(), upgradeGIMP)
	if err != nil {
		return err
	}

	registry, err := openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	ins := installer.New(registry, installerOptions(upgradeForce, upgradeDryRun))
	result, err := ins.Upgrade(cmd.Context(), pkg, target)
	if err != nil {
		return err
	}

	if err := printResult("Upgraded to", result, target); err != nil {
		return err
	}
	if !flagJSON && !result.DryRun {
		fmt.Println("Restart GIMP to load the new version.")
	}
	return nil
}
