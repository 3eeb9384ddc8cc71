package gimp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimptool/plugman/pkg/types"
)

const sampleInterp = `python=/usr/bin/python
/usr/bin/python=/usr/bin/python
:Python:E::py::python:
`

func TestPythonPath(t *testing.T) {
	f, err := ParseInterp(strings.NewReader(sampleInterp))
	require.NoError(t, err)

	got, err := f.PythonPath()
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/python", got)
}

func TestPythonPathMissing(t *testing.T) {
	f, err := ParseInterp(strings.NewReader(":Python:E::py::python:\n"))
	require.NoError(t, err)

	_, err = f.PythonPath()
	assert.ErrorIs(t, err, types.ErrNoInterpreter)
}

func TestSetPythonPath(t *testing.T) {
	f, err := ParseInterp(strings.NewReader(sampleInterp))
	require.NoError(t, err)

	require.NoError(t, f.SetPythonPath("/usr/local/bin/python2.7"))

	var b strings.Builder
	_, err = f.WriteTo(&b)
	require.NoError(t, err)

	out := b.String()
	assert.Contains(t, out, "python=/usr/local/bin/python2.7\n")
	// The old self-mapping is repointed, not duplicated.
	assert.Contains(t, out, "/usr/bin/python=/usr/local/bin/python2.7\n")
	assert.NotContains(t, out, "/usr/bin/python=/usr/bin/python\n")
	// Extension binding line passes through untouched.
	assert.Contains(t, out, ":Python:E::py::python:\n")
}

func TestFixInterp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pygimp.interp")
	require.NoError(t, os.WriteFile(path, []byte(sampleInterp), 0o644))

	require.NoError(t, FixInterp(path, "/opt/python27/bin/python"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "python=/opt/python27/bin/python")
}

func TestCompatiblePython(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"Python 2.7.18", true},
		{"Python 2.7", true},
		{"  Python 2.7.3\n", true},
		{"Python 2.6.9", false},
		{"Python 3.11.4", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CompatiblePython(tt.version), "version %q", tt.version)
	}
}
