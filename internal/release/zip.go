package release

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gimptool/plugman/pkg/types"
)

// MakeZip packages the plug-in payload into a zip installer at outPath:
// the entry script and every support directory, with junk entries
// (bytecode caches, VCS metadata) left out. Archive paths use forward
// slashes so the zip unpacks identically on every OS. Returns the number
// of files written.
func MakeZip(pkg types.Package, outPath string) (int, error) {
	if err := pkg.Validate(); err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	w := zip.NewWriter(out)
	count := 0

	add := func(srcPath, archivePath string) error {
		in, err := os.Open(srcPath)
		if err != nil {
			return err
		}
		defer in.Close()

		f, err := w.Create(archivePath)
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, in); err != nil {
			return fmt.Errorf("zip %s: %w", srcPath, err)
		}
		count++
		return nil
	}

	if err := add(filepath.Join(pkg.SourceDir, pkg.ScriptFile), pkg.ScriptFile); err != nil {
		return 0, err
	}

	for _, dir := range pkg.SupportDirs {
		root := filepath.Join(pkg.SourceDir, dir)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if shouldSkipEntry(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(pkg.SourceDir, path)
			if err != nil {
				return err
			}
			return add(path, filepath.ToSlash(rel))
		})
		if err != nil {
			return 0, err
		}
	}

	if err := w.Close(); err != nil {
		return 0, err
	}
	// The deferred Close only covers error paths; a close failure here
	// means a truncated archive and must surface.
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", outPath, err)
	}
	return count, nil
}

// shouldSkipEntry mirrors the installer's junk filter.
func shouldSkipEntry(name string) bool {
	switch name {
	case ".git", "__pycache__", ".DS_Store", "Thumbs.db":
		return true
	}
	return strings.HasSuffix(name, ".pyc")
}
