// Shared helpers for plugman CLI commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gimptool/plugman/internal/gimp"
	"github.com/gimptool/plugman/internal/installer"
	"github.com/gimptool/plugman/internal/release"
	"github.com/gimptool/plugman/internal/state"
	"github.com/gimptool/plugman/pkg/types"
)

// Payload flags shared by install, upgrade, uninstall and package.
var (
	flagSource     string
	flagName       string
	flagVersion    string
	flagScript     string
	flagSupport    []string
	flagParasite   string
	flagPluginConf string
)

// registerPackageFlags adds the payload flags to a command.
func registerPackageFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagSource, "source", "", "plug-in payload directory (default: source_dir from config)")
	cmd.Flags().StringVar(&flagName, "name", "export-layers", "plug-in name")
	cmd.Flags().StringVar(&flagVersion, "pkg-version", "", "payload version (default: read from the payload config file)")
	cmd.Flags().StringVar(&flagScript, "script", "export_layers.py", "entry script, relative to the payload directory")
	cmd.Flags().StringSliceVar(&flagSupport, "support-dir", []string{"export_layers"}, "support directory copied alongside the script (repeatable)")
	cmd.Flags().StringVar(&flagParasite, "parasite", "", "parasiterc entry holding the plug-in settings (default: parasite_name from config)")
	cmd.Flags().StringVar(&flagPluginConf, "payload-config", filepath.Join("export_layers", "config.py"), "payload config file the version is read from, relative to the payload directory")
}

// openRegistry resolves the state directory and opens the install registry.
// The caller must defer registry.Close().
func openRegistry() (*state.Registry, error) {
	stateDir, err := resolveStateDir()
	if err != nil {
		return nil, fmt.Errorf("resolve state dir: %w", err)
	}
	registry, err := state.Open(stateDir)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	return registry, nil
}

// buildPackage assembles the Package from flags and config. When no
// --pkg-version is given the version is read from the payload's config file
// if one exists.
func buildPackage() (types.Package, error) {
	source := flagSource
	if source == "" {
		source = appConfig.GetString(cfgKeySourceDir)
	}
	if source != "" {
		abs, err := filepath.Abs(source)
		if err != nil {
			return types.Package{}, err
		}
		source = abs
	}

	parasiteName := flagParasite
	if parasiteName == "" {
		parasiteName = appConfig.GetString(cfgKeyParasiteName)
	}

	pkg := types.Package{
		Name:         flagName,
		Version:      flagVersion,
		SourceDir:    source,
		ScriptFile:   flagScript,
		SupportDirs:  flagSupport,
		ParasiteName: parasiteName,
	}

	if pkg.Version == "" && source != "" {
		confPath := filepath.Join(source, flagPluginConf)
		if _, err := os.Stat(confPath); err == nil {
			v, err := release.ReadConfigVersion(confPath)
			if err != nil {
				return types.Package{}, fmt.Errorf("read payload version: %w", err)
			}
			pkg.Version = v.String()
		}
	}

	if err := pkg.Validate(); err != nil {
		return types.Package{}, err
	}
	return pkg, nil
}

// findTarget resolves the GIMP target: the release line named by --gimp, or
// the newest detected profile when the flag is empty.
func findTarget(ctx context.Context, gimpVersion string) (types.Target, error) {
	if gimpVersion != "" {
		if _, err := types.ParseGIMPVersion(gimpVersion); err != nil {
			return types.Target{}, err
		}
	}
	target, err := gimp.FindTarget(ctx, gimpVersion)
	if err != nil {
		return types.Target{}, fmt.Errorf("find GIMP target: %w", err)
	}
	return target, nil
}

// installerOptions builds installer options from flags and config.
func installerOptions(force, dryRun bool) installer.Options {
	return installer.Options{
		Force:       force,
		DryRun:      dryRun,
		KeepBackups: appConfig.GetInt(cfgKeyKeepBackups),
	}
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// printResult reports an operation result in text or JSON form.
func printResult(verb string, result *installer.Result, target types.Target) error {
	if flagJSON {
		return printJSON(result)
	}

	if result.DryRun {
		fmt.Println("dry run; would perform:")
		for _, action := range result.Planned {
			fmt.Println(" ", action)
		}
		return nil
	}

	fmt.Printf("%s %s %s (GIMP %s)\n", verb, result.Install.PackageName,
		result.Install.Version, target.GIMPVersion)
	fmt.Println("  plug-ins:", target.PluginsDir)
	if result.BackupDir != "" {
		fmt.Println("  backup:  ", result.BackupDir)
	}
	return nil
}
