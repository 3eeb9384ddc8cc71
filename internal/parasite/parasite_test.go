package parasite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimptool/plugman/pkg/types"
)

const sampleParasiterc = `# GIMP parasiterc
# This file will be entirely rewritten each time you exit.

(parasite "gimp-comment" 1 "Created with GIMP")
(parasite "plug-in-export-layers" 1 "settings \"blob\" with (parens)")
(parasite "plug-in-metadata" 0 "x")
`

func TestParseNames(t *testing.T) {
	f, err := Parse(strings.NewReader(sampleParasiterc))
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"gimp-comment", "plug-in-export-layers", "plug-in-metadata"},
		f.Names())
}

func TestGetDecodesEscapes(t *testing.T) {
	f, err := Parse(strings.NewReader(sampleParasiterc))
	require.NoError(t, err)

	entry, ok := f.Get("plug-in-export-layers")
	require.True(t, ok)
	assert.Equal(t, 1, entry.Flags)
	assert.Equal(t, `settings "blob" with (parens)`, entry.Data)
}

func TestRemovePreservesEverythingElse(t *testing.T) {
	f, err := Parse(strings.NewReader(sampleParasiterc))
	require.NoError(t, err)

	require.NoError(t, f.Remove("plug-in-export-layers"))

	var b strings.Builder
	_, err = f.WriteTo(&b)
	require.NoError(t, err)

	out := b.String()
	assert.NotContains(t, out, "plug-in-export-layers")
	assert.Contains(t, out, "# GIMP parasiterc")
	assert.Contains(t, out, `(parasite "gimp-comment" 1 "Created with GIMP")`)
	assert.Contains(t, out, `(parasite "plug-in-metadata" 0 "x")`)
}

func TestRemoveMissingEntry(t *testing.T) {
	f, err := Parse(strings.NewReader(sampleParasiterc))
	require.NoError(t, err)

	err = f.Remove("plug-in-nope")
	assert.ErrorIs(t, err, types.ErrParasiteNotFound)
}

func TestParseMultilineData(t *testing.T) {
	input := "(parasite \"plug-in-export-layers\" 1 \"line one\nline two\")\n"

	f, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	entry, ok := f.Get("plug-in-export-layers")
	require.True(t, ok)
	assert.Equal(t, "line one\nline two", entry.Data)

	// Round trip keeps the raw text.
	var b strings.Builder
	_, err = f.WriteTo(&b)
	require.NoError(t, err)
	assert.Equal(t, input, b.String())
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unterminated entry", input: `(parasite "a" 1 "data`},
		{name: "missing flags", input: `(parasite "a" "data")`},
		{name: "extra close paren", input: `(parasite "a" 1 "d"))`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, types.ErrMalformedParasiterc)
		})
	}
}

func TestRemoveFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parasiterc")
	require.NoError(t, os.WriteFile(path, []byte(sampleParasiterc), 0o644))

	require.NoError(t, RemoveFromFile(path, "plug-in-export-layers"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "plug-in-export-layers")
	assert.Contains(t, string(data), "gimp-comment")
}

func TestRemoveFromMissingFile(t *testing.T) {
	err := RemoveFromFile(filepath.Join(t.TempDir(), "parasiterc"), "plug-in-export-layers")
	assert.ErrorIs(t, err, types.ErrParasiteNotFound)
}
