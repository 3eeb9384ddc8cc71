package gimp

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// requiredPythonPrefix is what GIMP's python-fu console must report for the
// plug-in to run: any 2.7.x interpreter.
const requiredPythonPrefix = "Python 2.7"

// PythonCheck is the result of probing a Python interpreter.
type PythonCheck struct {
	Interpreter string `json:"interpreter"` // binary that was executed
	Version     string `json:"version"`     // e.g. "Python 2.7.18"
	Compatible  bool   `json:"compatible"`  // true for 2.7.x
}

// CheckPython runs the given interpreter with --version and reports whether
// it is a 2.7.x release. An empty interpreter argument probes "python" from
// PATH. Python 2 prints its version to stderr, so both streams are read.
func CheckPython(ctx context.Context, interpreter string) (PythonCheck, error) {
	if interpreter == "" {
		interpreter = "python"
	}

	out, err := exec.CommandContext(ctx, interpreter, "--version").CombinedOutput()
	if err != nil {
		return PythonCheck{Interpreter: interpreter},
			fmt.Errorf("run %s --version: %w", interpreter, err)
	}

	version := strings.TrimSpace(string(out))
	return PythonCheck{
		Interpreter: interpreter,
		Version:     version,
		Compatible:  CompatiblePython(version),
	}, nil
}

// CompatiblePython reports whether a version string names a Python release
// the plug-in can run under.
func CompatiblePython(version string) bool {
	return strings.HasPrefix(strings.TrimSpace(version), requiredPythonPrefix)
}
