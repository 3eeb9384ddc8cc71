// Uninstall command removes an installed plug-in and its settings.
package main

import (
	"github.com/spf13/cobra"

	"github.com/gimptool/plugman/internal/installer"
)

var (
	uninstallGIMP   string
	uninstallDryRun bool
	uninstallPurge  []string
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove an installed plug-in",
	Long: `Uninstall deletes the plug-in files recorded at install time from the
target plug-ins directory and removes the plug-in's settings parasite from
parasiterc. GIMP must be closed while uninstalling.

Example:
  plugman uninstall
  plugman uninstall --gimp 2.8 --purge pygimplib`,
	Args: cobra.NoArgs,
	RunE: runUninstall,
}

func init() {
	registerPackageFlags(uninstallCmd)
	uninstallCmd.Flags().StringVar(&uninstallGIMP, "gimp", "", "GIMP release line to uninstall from (default: newest detected)")
	uninstallCmd.Flags().BoolVar(&uninstallDryRun, "dry-run", false, "plan without touching anything")
	uninstallCmd.Flags().StringSliceVar(&uninstallPurge, "purge", nil, "extra directory in the plug-ins dir to delete (repeatable)")
}

func runUninstall(cmd *cobra.Command, args []string) error {
	pkg, err := buildPackage()
	if err != nil {
		return err
	}
	pkg.PurgeDirs = uninstallPurge

	target, err := findTarget(cmd.Context(), uninstallGIMP)
	if err != nil {
		return err
	}

	registry, err := openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	ins := installer.New(registry, installerOptions(false, uninstallDryRun))
	result, err := ins.Uninstall(cmd.Context(), pkg, target)
	if err != nil {
		return err
	}

	return printResult("Uninstalled", result, target)
}
