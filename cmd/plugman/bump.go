// Bump command advances the plug-in version in its config file and
// changelog.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gimptool/plugman/internal/release"
)

var (
	bumpPrerelease string
	bumpChangelog  string
	bumpConfig     string
	bumpSource     string
	bumpDryRun     bool
)

var bumpCmd = &cobra.Command{
	Use:   "bump <major|minor|patch>",
	Short: "Bump the plug-in version",
	Long: `Bump reads the current version from the payload's config file,
increments it, rewrites the version and release-date entries, and renames
the changelog's first top-level header to the new version.

Example:
  plugman bump minor --source ~/src/export-layers
  plugman bump minor --pre alpha --source ~/src/export-layers
  plugman bump patch --dry-run`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"major", "minor", "patch"},
	RunE:      runBump,
}

func init() {
	bumpCmd.Flags().StringVar(&bumpSource, "source", "", "plug-in source tree (default: source_dir from config)")
	bumpCmd.Flags().StringVar(&bumpConfig, "payload-config", filepath.Join("export_layers", "config.py"), "payload config file, relative to the source tree")
	bumpCmd.Flags().StringVar(&bumpChangelog, "changelog", "CHANGELOG.md", "changelog file, relative to the source tree (empty skips the changelog)")
	bumpCmd.Flags().StringVar(&bumpPrerelease, "pre", "", "prerelease identifier, e.g. alpha")
	bumpCmd.Flags().BoolVar(&bumpDryRun, "dry-run", false, "compute the new version without writing")
}

func runBump(cmd *cobra.Command, args []string) error {
	source := bumpSource
	if source == "" {
		source = appConfig.GetString(cfgKeySourceDir)
	}
	if source == "" {
		return fmt.Errorf("no source tree: pass --source or set source_dir in config")
	}

	changelog := ""
	if bumpChangelog != "" {
		changelog = filepath.Join(source, bumpChangelog)
	}

	result, err := release.Bump{
		ConfigPath:    filepath.Join(source, bumpConfig),
		ChangelogPath: changelog,
		ReleaseType:   args[0],
		Prerelease:    bumpPrerelease,
		DryRun:        bumpDryRun,
	}.Run()
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(result)
	}

	fmt.Println("Current version:", result.Current.String())
	fmt.Println("New version:    ", result.Next.String())
	fmt.Println("Release date:   ", result.ReleaseDate)
	if result.DryRun {
		fmt.Println("dry run; nothing written")
	}
	return nil
}
