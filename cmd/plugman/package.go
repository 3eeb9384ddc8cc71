// Package command builds a zip installer from the plug-in payload.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gimptool/plugman/internal/release"
)

var packageOut string

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Build a zip installer from the payload",
	Long: `Package zips the plug-in's entry script and support directories into a
release archive, leaving out bytecode caches and VCS metadata.

Example:
  plugman package --source ~/src/export-layers
  plugman package --source ~/src/export-layers --out dist/export-layers.zip`,
	Args: cobra.NoArgs,
	RunE: runPackage,
}

func init() {
	registerPackageFlags(packageCmd)
	packageCmd.Flags().StringVar(&packageOut, "out", "", "output zip path (default: <name>-<version>.zip)")
}

func runPackage(cmd *cobra.Command, args []string) error {
	pkg, err := buildPackage()
	if err != nil {
		return err
	}
	if pkg.SourceDir == "" {
		return fmt.Errorf("no payload: pass --source or set source_dir in config")
	}

	out := packageOut
	if out == "" {
		name := pkg.Name
		if pkg.Version != "" {
			name += "-" + pkg.Version
		}
		out = name + ".zip"
	}
	out, err = filepath.Abs(out)
	if err != nil {
		return err
	}

	count, err := release.MakeZip(pkg, out)
	if err != nil {
		return fmt.Errorf("package payload: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]any{"archive": out, "files": count})
	}
	fmt.Printf("Wrote %s (%d files)\n", out, count)
	return nil
}
