// End-to-end tests for the full plug-in lifecycle: install into a GIMP
// profile, upgrade to a new version with backup and settings reset, and
// uninstall with parasiterc cleanup.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimptool/plugman/internal/gimp"
	"github.com/gimptool/plugman/internal/installer"
	"github.com/gimptool/plugman/internal/release"
	"github.com/gimptool/plugman/pkg/types"
)

func TestLifecycle_InstallThenUninstall(t *testing.T) {
	e := newEnv(t)
	ins := e.newInstaller(installer.Options{})
	ctx := context.Background()

	// Install puts the payload into the plug-ins dir.
	result, err := ins.Install(ctx, e.pkg, e.target)
	require.NoError(t, err)
	require.NotNil(t, result.Install)

	assert.FileExists(t, filepath.Join(e.target.PluginsDir, "export_layers.py"))
	assert.FileExists(t, filepath.Join(e.target.PluginsDir, "export_layers", "gui", "main_dialog.py"))

	// The registry knows about it.
	current, err := e.registry.CurrentInstall(e.target.PluginsDir, "export-layers")
	require.NoError(t, err)
	assert.Equal(t, "3.3", current.Version)

	// Uninstall takes everything out again, including the settings
	// parasite, and leaves foreign parasiterc content alone.
	_, err = ins.Uninstall(ctx, e.pkg, e.target)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(e.target.PluginsDir, "export_layers.py"))
	assert.NoDirExists(t, filepath.Join(e.target.PluginsDir, "export_layers"))

	parasiterc := mustRead(t, e.target.Parasiterc)
	assert.NotContains(t, parasiterc, "plug-in-export-layers")
	assert.Contains(t, parasiterc, "gimp-comment")

	_, err = e.registry.CurrentInstall(e.target.PluginsDir, "export-layers")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestLifecycle_UpgradeFromRCLayout(t *testing.T) {
	e := newEnv(t)
	ins := e.newInstaller(installer.Options{})
	ctx := context.Background()

	_, err := ins.Install(ctx, e.pkg, e.target)
	require.NoError(t, err)

	// Simulate the 3.0-RC1 layout: a stray pygimplib dir next to the
	// plug-in that newer payloads no longer ship at the top level.
	mustWrite(t, filepath.Join(e.target.PluginsDir, "pygimplib", "setting.py"), "# stale\n")

	newPkg := e.pkg
	newPkg.Version = "3.3.1"
	newPkg.PurgeDirs = []string{"pygimplib"}
	mustWrite(t, filepath.Join(newPkg.SourceDir, "export_layers", "config.py"),
		"c.PLUGIN_VERSION = \"3.3.1\"\n")

	result, err := ins.Upgrade(ctx, newPkg, e.target)
	require.NoError(t, err)

	// Old payload was backed up before removal.
	require.NotEmpty(t, result.BackupDir)
	assert.FileExists(t, filepath.Join(result.BackupDir, "export_layers.py"))

	// The RC leftovers and the settings parasite are gone.
	assert.NoDirExists(t, filepath.Join(e.target.PluginsDir, "pygimplib"))
	assert.NotContains(t, mustRead(t, e.target.Parasiterc), "plug-in-export-layers")

	// Registry history shows both versions, only the new one installed.
	all, err := e.registry.ListInstalls(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	current, err := e.registry.CurrentInstall(e.target.PluginsDir, "export-layers")
	require.NoError(t, err)
	assert.Equal(t, "3.3.1", current.Version)

	// Audit log recorded the install and the upgrade.
	events, err := e.registry.Events(0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	kinds := []string{events[0].Kind, events[1].Kind}
	assert.Contains(t, kinds, types.EventInstall)
	assert.Contains(t, kinds, types.EventUpgrade)
}

func TestLifecycle_ScanFindsProfile(t *testing.T) {
	e := newEnv(t)

	targets, err := gimp.ScanDirs(context.Background(), map[string]string{
		"2.10": e.target.UserDir,
		"2.8":  filepath.Join(e.target.UserDir, "missing"),
	})
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "2.10", targets[0].GIMPVersion)
	assert.Equal(t, e.target.PluginsDir, targets[0].PluginsDir)
}

func TestLifecycle_BumpThenInstallNewVersion(t *testing.T) {
	e := newEnv(t)
	ins := e.newInstaller(installer.Options{})
	ctx := context.Background()

	_, err := ins.Install(ctx, e.pkg, e.target)
	require.NoError(t, err)

	// Bump the payload to 3.4.
	bumpResult, err := release.Bump{
		ConfigPath:    filepath.Join(e.pkg.SourceDir, "export_layers", "config.py"),
		ChangelogPath: filepath.Join(e.pkg.SourceDir, "CHANGELOG.md"),
		ReleaseType:   "minor",
	}.Run()
	require.NoError(t, err)
	assert.Equal(t, "3.4", bumpResult.Next.String())

	// The bumped version is what the upgrade records.
	v, err := release.ReadConfigVersion(filepath.Join(e.pkg.SourceDir, "export_layers", "config.py"))
	require.NoError(t, err)

	newPkg := e.pkg
	newPkg.Version = v.String()
	_, err = ins.Upgrade(ctx, newPkg, e.target)
	require.NoError(t, err)

	current, err := e.registry.CurrentInstall(e.target.PluginsDir, "export-layers")
	require.NoError(t, err)
	assert.Equal(t, "3.4", current.Version)
}

func TestLifecycle_PackageZipFromPayload(t *testing.T) {
	e := newEnv(t)

	outPath := filepath.Join(t.TempDir(), "export-layers-3.3.zip")
	count, err := release.MakeZip(e.pkg, outPath)
	require.NoError(t, err)
	assert.Greater(t, count, 0)

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
