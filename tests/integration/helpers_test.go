// Package integration provides shared helpers for the end-to-end tests:
// a fake GIMP profile on disk, a plug-in source tree, and an installer
// wired to a temp-dir registry.
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gimptool/plugman/internal/installer"
	"github.com/gimptool/plugman/internal/state"
	"github.com/gimptool/plugman/pkg/types"
)

const fixtureParasiterc = `# GIMP parasiterc
# This file will be entirely rewritten each time you exit.

(parasite "gimp-comment" 1 "Created with GIMP")
(parasite "plug-in-export-layers" 1 "exported settings blob")
`

// env bundles everything an end-to-end scenario needs.
type env struct {
	registry *state.Registry
	pkg      types.Package
	target   types.Target
}

// newEnv creates an isolated source tree, GIMP profile and registry.
func newEnv(t *testing.T) *env {
	t.Helper()

	src := t.TempDir()
	mustWrite(t, filepath.Join(src, "export_layers.py"), "#!/usr/bin/env python\n")
	mustWrite(t, filepath.Join(src, "export_layers", "config.py"),
		"c.PLUGIN_NAME = \"export_layers\"\nc.PLUGIN_VERSION = \"3.3\"\nc.PLUGIN_VERSION_RELEASE_DATE = \"May 1, 2019\"\n")
	mustWrite(t, filepath.Join(src, "export_layers", "gui", "main_dialog.py"), "# dialog\n")
	mustWrite(t, filepath.Join(src, "export_layers", "pygimplib", "setting.py"), "# settings\n")
	mustWrite(t, filepath.Join(src, "CHANGELOG.md"), "# Unreleased\n\n* Fixes.\n\n# 3.3\n\n* Older notes.\n")

	userDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(userDir, "plug-ins"), 0o755))
	mustWrite(t, filepath.Join(userDir, "parasiterc"), fixtureParasiterc)

	registry, err := state.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { registry.Close() })

	return &env{
		registry: registry,
		pkg: types.Package{
			Name:        "export-layers",
			Version:     "3.3",
			SourceDir:   src,
			ScriptFile:  "export_layers.py",
			SupportDirs: []string{"export_layers"},
		},
		target: types.Target{
			GIMPVersion: "2.10",
			UserDir:     userDir,
			PluginsDir:  filepath.Join(userDir, "plug-ins"),
			Parasiterc:  filepath.Join(userDir, "parasiterc"),
		},
	}
}

// newInstaller wires an installer to the env's registry.
func (e *env) newInstaller(opts installer.Options) *installer.Installer {
	return installer.New(e.registry, opts)
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// mustRead returns the content of a file.
func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
