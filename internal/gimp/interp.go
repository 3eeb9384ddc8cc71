package gimp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gimptool/plugman/pkg/types"
)

// Interpreter mapping keys that name the Python interpreter.
var pythonKeys = map[string]bool{
	"python":  true,
	"python2": true,
}

// InterpFile is a parsed GIMP interpreter mapping file (pygimp.interp).
//
// The format is one directive per line: "name=path" maps an interpreter
// name to a binary, "path=path" remaps a hard-coded interpreter path, and
// lines starting with ':' are binfmt-style extension bindings. GIMP on OS X
// ships with a python entry pointing at an interpreter that may not exist or
// may be the wrong major version; repointing these entries is the documented
// fix.
type InterpFile struct {
	lines []string
}

// LoadInterp reads the interpreter mapping file at path.
func LoadInterp(path string) (*InterpFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseInterp(f)
}

// ParseInterp reads an interpreter mapping from r.
func ParseInterp(r io.Reader) (*InterpFile, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &InterpFile{lines: lines}, nil
}

// PythonPath returns the interpreter path of the first python entry.
// Returns ErrNoInterpreter when the file has no python mapping.
func (f *InterpFile) PythonPath() (string, error) {
	for _, line := range f.lines {
		if key, value, ok := splitDirective(line); ok && pythonKeys[key] {
			return value, nil
		}
	}
	return "", types.ErrNoInterpreter
}

// SetPythonPath repoints every python entry at the given interpreter path.
// Path self-mappings of the previous interpreter ("old=old") are remapped to
// the new path as well, since GIMP writes those for plug-ins with hard-coded
// shebang lines. Returns ErrNoInterpreter when there is nothing to rewrite.
func (f *InterpFile) SetPythonPath(interpreter string) error {
	previous, err := f.PythonPath()
	if err != nil {
		return err
	}

	for i, line := range f.lines {
		key, value, ok := splitDirective(line)
		if !ok {
			continue
		}
		switch {
		case pythonKeys[key]:
			f.lines[i] = key + "=" + interpreter
		case key == previous && value == previous:
			f.lines[i] = previous + "=" + interpreter
		}
	}
	return nil
}

// WriteTo writes the mapping file back out.
func (f *InterpFile) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range f.lines {
		written, err := fmt.Fprintln(w, line)
		total += int64(written)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteFile writes the mapping file to path.
func (f *InterpFile) WriteFile(path string) error {
	var b strings.Builder
	if _, err := f.WriteTo(&b); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// FixInterp rewrites the python entries of the mapping file at path to the
// given interpreter.
func FixInterp(path, interpreter string) error {
	f, err := LoadInterp(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if err := f.SetPythonPath(interpreter); err != nil {
		return err
	}
	return f.WriteFile(path)
}

// splitDirective splits a "key=value" line. Extension-binding lines
// (leading ':'), comments and blanks are not directives.
func splitDirective(line string) (key, value string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ":") {
		return "", "", false
	}
	key, value, found := strings.Cut(trimmed, "=")
	if !found || key == "" {
		return "", "", false
	}
	return key, value, true
}
