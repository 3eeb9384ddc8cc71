// Install command copies a plug-in payload into a GIMP plug-ins directory.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gimptool/plugman/internal/installer"
)

var (
	installGIMP   string
	installForce  bool
	installDryRun bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the plug-in into a GIMP profile",
	Long: `Install copies the plug-in's entry script and support directories into
the plug-ins directory of a detected GIMP profile and records the
installation in the registry.

Example:
  plugman install --source ~/src/export-layers
  plugman install --source ~/src/export-layers --gimp 2.8
  plugman install --dry-run`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	registerPackageFlags(installCmd)
	installCmd.Flags().StringVar(&installGIMP, "gimp", "", "GIMP release line to install into (default: newest detected)")
	installCmd.Flags().BoolVar(&installForce, "force", false, "overwrite plug-in files plugman did not install")
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "plan without copying anything")
}

func runInstall(cmd *cobra.Command, args []string) error {
	pkg, err := buildPackage()
	if err != nil {
		return err
	}
	if pkg.SourceDir == "" {
		return fmt.Errorf("no payload: pass --source or set source_dir in config")
	}

	target, err := findTarget(cmd.Context(), installGIMP)
	if err != nil {
		return err
	}

	registry, err := openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	ins := installer.New(registry, installerOptions(installForce, installDryRun))
	result, err := ins.Install(cmd.Context(), pkg, target)
	if err != nil {
		return err
	}

	if err := printResult("Installed", result, target); err != nil {
		return err
	}
	if !flagJSON && !result.DryRun {
		fmt.Println("Restart GIMP to load the plug-in.")
	}
	return nil
}
