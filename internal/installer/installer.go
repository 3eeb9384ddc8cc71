// Package installer copies plug-in payloads into GIMP plug-ins directories
// and takes them out again: install, upgrade (with backup of the replaced
// files) and uninstall, including the parasiterc settings cleanup the manual
// upgrade procedure calls for.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gimptool/plugman/internal/parasite"
	"github.com/gimptool/plugman/internal/state"
	"github.com/gimptool/plugman/pkg/types"
)

// Options control how the installer behaves.
type Options struct {
	// Force overwrites plug-in files plugman did not install.
	Force bool

	// DryRun plans the operation without touching the filesystem or the
	// registry.
	DryRun bool

	// KeepBackups is how many upgrade backups to retain per package.
	KeepBackups int
}

// Result reports what an operation did, or would do under DryRun.
type Result struct {
	Install   *types.Install `json:"install,omitempty"` // record written (nil under DryRun)
	BackupDir string         `json:"backup_dir,omitempty"`
	DryRun    bool           `json:"dry_run,omitempty"`
	Planned   []string       `json:"planned,omitempty"` // human-readable action plan
}

// Installer performs install, upgrade and uninstall operations against a
// target, recording them in the registry.
type Installer struct {
	registry *state.Registry
	opts     Options
}

// New creates an Installer backed by the given registry.
func New(registry *state.Registry, opts Options) *Installer {
	return &Installer{registry: registry, opts: opts}
}

// Install copies the package payload into the target plug-ins directory and
// records the installation. Installing over an existing managed install is
// refused; use Upgrade. Unmanaged files at the destination are refused
// unless Force is set.
func (ins *Installer) Install(ctx context.Context, pkg types.Package, target types.Target) (*Result, error) {
	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := ins.registry.CurrentInstall(target.Key(), pkg.Name); err == nil {
		return nil, fmt.Errorf("%w: %s in %s (use upgrade)",
			types.ErrAlreadyInstalled, pkg.Name, target.PluginsDir)
	} else if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	manifest := packageManifest(pkg)

	if !ins.opts.Force {
		for _, name := range manifest {
			dst := filepath.Join(target.PluginsDir, name)
			if _, err := os.Stat(dst); err == nil {
				return nil, fmt.Errorf("%w: %s (use --force)", types.ErrAlreadyInstalled, dst)
			}
		}
	}

	result := &Result{DryRun: ins.opts.DryRun}
	for _, name := range manifest {
		result.Planned = append(result.Planned,
			fmt.Sprintf("copy %s -> %s", filepath.Join(pkg.SourceDir, name), target.PluginsDir))
	}
	if ins.opts.DryRun {
		return result, nil
	}

	if err := os.MkdirAll(target.PluginsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create plug-ins dir: %w", err)
	}
	for _, name := range manifest {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := copyEntry(pkg.SourceDir, target.PluginsDir, name); err != nil {
			return nil, fmt.Errorf("install %s: %w", name, err)
		}
	}

	inst := &types.Install{
		PackageName: pkg.Name,
		Version:     pkg.Version,
		GIMPVersion: target.GIMPVersion,
		PluginsDir:  target.PluginsDir,
		Files:       manifest,
	}
	if err := ins.registry.RecordInstall(inst); err != nil {
		return nil, err
	}
	if err := ins.registry.LogEvent(types.EventInstall, inst); err != nil {
		return nil, err
	}

	result.Install = inst
	return result, nil
}

// Uninstall removes the installed payload from the target, deletes the
// plug-in's settings parasite from parasiterc, and marks the install record
// removed. Returns ErrNotInstalled when the registry has no installed record
// for the package in this target.
func (ins *Installer) Uninstall(ctx context.Context, pkg types.Package, target types.Target) (*Result, error) {
	current, err := ins.registry.CurrentInstall(target.Key(), pkg.Name)
	if errors.Is(err, types.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s in %s", types.ErrNotInstalled, pkg.Name, target.PluginsDir)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{DryRun: ins.opts.DryRun}
	for _, name := range removalList(current, pkg) {
		result.Planned = append(result.Planned,
			fmt.Sprintf("remove %s", filepath.Join(target.PluginsDir, name)))
	}
	if name := parasiteName(pkg); name != "" {
		result.Planned = append(result.Planned,
			fmt.Sprintf("remove parasite %q from %s", name, target.Parasiterc))
	}
	if ins.opts.DryRun {
		return result, nil
	}

	if err := ins.removePayload(ctx, current, pkg, target); err != nil {
		return nil, err
	}

	if err := ins.registry.MarkRemoved(current.InstallID); err != nil {
		return nil, err
	}
	if err := ins.registry.LogEvent(types.EventUninstall, current); err != nil {
		return nil, err
	}

	result.Install = current
	return result, nil
}

// Upgrade replaces an installed version with the package's payload. The
// replaced files are backed up under the state directory first, then the
// old payload (including any purge directories left by earlier release
// lines) and the settings parasite are removed, and the new payload is
// installed.
func (ins *Installer) Upgrade(ctx context.Context, pkg types.Package, target types.Target) (*Result, error) {
	if err := pkg.Validate(); err != nil {
		return nil, err
	}

	current, err := ins.registry.CurrentInstall(target.Key(), pkg.Name)
	if errors.Is(err, types.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s in %s (use install)",
			types.ErrNotInstalled, pkg.Name, target.PluginsDir)
	}
	if err != nil {
		return nil, err
	}

	if !ins.opts.Force {
		if err := refuseDowngrade(current.Version, pkg.Version); err != nil {
			return nil, err
		}
	}

	result := &Result{DryRun: ins.opts.DryRun}
	result.Planned = append(result.Planned,
		fmt.Sprintf("back up %s %s from %s", pkg.Name, current.Version, target.PluginsDir))
	for _, name := range removalList(current, pkg) {
		result.Planned = append(result.Planned,
			fmt.Sprintf("remove %s", filepath.Join(target.PluginsDir, name)))
	}
	if name := parasiteName(pkg); name != "" {
		result.Planned = append(result.Planned,
			fmt.Sprintf("remove parasite %q from %s", name, target.Parasiterc))
	}
	for _, name := range packageManifest(pkg) {
		result.Planned = append(result.Planned,
			fmt.Sprintf("copy %s -> %s", filepath.Join(pkg.SourceDir, name), target.PluginsDir))
	}
	if ins.opts.DryRun {
		return result, nil
	}

	backupDir, err := ins.backupCurrent(current, pkg, target)
	if err != nil {
		return nil, err
	}
	result.BackupDir = backupDir

	if err := ins.removePayload(ctx, current, pkg, target); err != nil {
		return nil, err
	}

	manifest := packageManifest(pkg)
	if err := os.MkdirAll(target.PluginsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create plug-ins dir: %w", err)
	}
	for _, name := range manifest {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := copyEntry(pkg.SourceDir, target.PluginsDir, name); err != nil {
			return nil, fmt.Errorf("install %s: %w", name, err)
		}
	}

	if err := ins.registry.MarkRemoved(current.InstallID); err != nil {
		return nil, err
	}

	inst := &types.Install{
		PackageName: pkg.Name,
		Version:     pkg.Version,
		GIMPVersion: target.GIMPVersion,
		PluginsDir:  target.PluginsDir,
		Files:       manifest,
	}
	if err := ins.registry.RecordInstall(inst); err != nil {
		return nil, err
	}
	if err := ins.registry.LogEvent(types.EventUpgrade, inst); err != nil {
		return nil, err
	}

	if err := ins.pruneBackups(pkg.Name); err != nil {
		return nil, err
	}

	result.Install = inst
	return result, nil
}

// removePayload deletes the recorded payload files, the package's purge
// directories, and the settings parasite. Files already gone and a missing
// parasite entry are not errors; the goal state is "not there".
func (ins *Installer) removePayload(ctx context.Context, current *types.Install, pkg types.Package, target types.Target) error {
	for _, name := range removalList(current, pkg) {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(target.PluginsDir, name)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}

	if name := parasiteName(pkg); name != "" {
		err := parasite.RemoveFromFile(target.Parasiterc, name)
		if err != nil && !errors.Is(err, types.ErrParasiteNotFound) {
			return fmt.Errorf("clean parasiterc: %w", err)
		}
	}
	return nil
}

// backupCurrent copies the currently installed payload into a timestamped
// directory under the state dir. Returns the backup path, or "" when nothing
// was on disk to back up.
func (ins *Installer) backupCurrent(current *types.Install, pkg types.Package, target types.Target) (string, error) {
	root, err := ins.registry.BackupDir()
	if err != nil {
		return "", err
	}

	stamp := time.Now().UTC().Format("20060102T150405Z")
	backupDir := filepath.Join(root, fmt.Sprintf("%s-%s-%s", pkg.Name, current.Version, stamp))

	backedUp := false
	for _, name := range current.Files {
		src := filepath.Join(target.PluginsDir, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if !backedUp {
			if err := os.MkdirAll(backupDir, 0o755); err != nil {
				return "", fmt.Errorf("create backup dir: %w", err)
			}
			backedUp = true
		}
		if err := copyEntry(target.PluginsDir, backupDir, name); err != nil {
			return "", fmt.Errorf("back up %s: %w", name, err)
		}
	}

	if !backedUp {
		return "", nil
	}
	return backupDir, nil
}

// pruneBackups removes the oldest backups of a package beyond the retention
// count. Age comes from the directory modification time; names carry the
// version, which does not sort chronologically ("3.10" before "3.9").
func (ins *Installer) pruneBackups(packageName string) error {
	if ins.opts.KeepBackups <= 0 {
		return nil
	}

	root, err := ins.registry.BackupDir()
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}

	type backup struct {
		name string
		mod  time.Time
	}
	var mine []backup
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), packageName+"-") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		mine = append(mine, backup{name: entry.Name(), mod: info.ModTime()})
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].mod.Before(mine[j].mod) })

	for len(mine) > ins.opts.KeepBackups {
		if err := os.RemoveAll(filepath.Join(root, mine[0].name)); err != nil {
			return err
		}
		mine = mine[1:]
	}
	return nil
}

// refuseDowngrade errors when the new version is older than the installed
// one. Versions that do not parse are let through; the registry may hold
// strings plugman did not produce.
func refuseDowngrade(installedVersion, newVersion string) error {
	installed, err := types.ParseVersion(installedVersion)
	if err != nil {
		return nil
	}
	next, err := types.ParseVersion(newVersion)
	if err != nil {
		return nil
	}
	if next.Compare(installed) < 0 {
		return fmt.Errorf("downgrade from %s to %s refused (use --force)",
			installedVersion, newVersion)
	}
	return nil
}

// packageManifest lists the top-level entries a package installs.
func packageManifest(pkg types.Package) []string {
	manifest := []string{pkg.ScriptFile}
	manifest = append(manifest, pkg.SupportDirs...)
	return manifest
}

// removalList is the union of the recorded manifest and the package's purge
// directories, deduplicated.
func removalList(current *types.Install, pkg types.Package) []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range append(append([]string{}, current.Files...), pkg.PurgeDirs...) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// parasiteName resolves the parasiterc entry a package owns.
func parasiteName(pkg types.Package) string {
	if pkg.ParasiteName != "" {
		return pkg.ParasiteName
	}
	return types.DefaultParasiteName
}
