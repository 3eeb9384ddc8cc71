package release

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimptool/plugman/pkg/types"
)

func TestMakeZip(t *testing.T) {
	src := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(src, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write("export_layers.py", "#!/usr/bin/env python\n")
	write("export_layers/config.py", "c.PLUGIN_VERSION = \"3.3\"\n")
	write("export_layers/pygimplib/version.py", "# helpers\n")
	write("export_layers/__pycache__/config.cpython.pyc", "junk")
	write("export_layers/gui.pyc", "junk")

	pkg := types.Package{
		Name:        "export-layers",
		Version:     "3.3",
		SourceDir:   src,
		ScriptFile:  "export_layers.py",
		SupportDirs: []string{"export_layers"},
	}

	outPath := filepath.Join(t.TempDir(), "dist", "export-layers-3.3.zip")
	count, err := MakeZip(pkg, outPath)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	r, err := zip.OpenReader(outPath)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"export_layers.py",
		"export_layers/config.py",
		"export_layers/pygimplib/version.py",
	}, names)
}

func TestMakeZipInvalidPackage(t *testing.T) {
	_, err := MakeZip(types.Package{}, filepath.Join(t.TempDir(), "out.zip"))
	assert.ErrorIs(t, err, types.ErrPackageNameEmpty)
}
