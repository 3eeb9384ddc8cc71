package gimp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanDirs(t *testing.T) {
	root := t.TempDir()

	dir28 := filepath.Join(root, ".gimp-2.8")
	dir210 := filepath.Join(root, ".config", "GIMP", "2.10")
	require.NoError(t, os.MkdirAll(dir28, 0o755))
	require.NoError(t, os.MkdirAll(dir210, 0o755))

	// 2.9 candidate exists as a file, not a directory: must be skipped.
	notADir := filepath.Join(root, "gimp-2.9-file")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o644))

	targets, err := ScanDirs(context.Background(), map[string]string{
		"2.8":  dir28,
		"2.9":  notADir,
		"2.10": dir210,
	})
	require.NoError(t, err)
	require.Len(t, targets, 2)

	// Newest release line first.
	assert.Equal(t, "2.10", targets[0].GIMPVersion)
	assert.Equal(t, dir210, targets[0].UserDir)
	assert.Equal(t, filepath.Join(dir210, "plug-ins"), targets[0].PluginsDir)
	assert.Equal(t, filepath.Join(dir210, "parasiterc"), targets[0].Parasiterc)

	assert.Equal(t, "2.8", targets[1].GIMPVersion)
}

func TestScanDirsEmpty(t *testing.T) {
	targets, err := ScanDirs(context.Background(), map[string]string{
		"2.10": filepath.Join(t.TempDir(), "does-not-exist"),
	})
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestScanDirsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScanDirs(ctx, map[string]string{"2.10": t.TempDir()})
	assert.ErrorIs(t, err, context.Canceled)
}
