package installer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// skipNames are directory entries never copied into a plug-ins directory.
var skipNames = map[string]bool{
	".git":        true,
	"__pycache__": true,
	".DS_Store":   true,
	"Thumbs.db":   true,
}

// shouldSkip reports whether a directory entry is junk.
func shouldSkip(name string) bool {
	return skipNames[name] || strings.HasSuffix(name, ".pyc")
}

// copyFile copies src to dst, preserving the source file mode.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}

// copyDir recursively copies src into dst, skipping junk entries.
func copyDir(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if shouldSkip(entry.Name()) {
			continue
		}
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

// copyEntry copies a file or directory from srcRoot/name to dstRoot/name.
func copyEntry(srcRoot, dstRoot, name string) error {
	src := filepath.Join(srcRoot, name)
	dst := filepath.Join(dstRoot, name)

	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return copyDir(src, dst)
	}
	return copyFile(src, dst)
}
