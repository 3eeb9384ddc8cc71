package release

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `# Plug-in configuration.

c.PLUGIN_NAME = "export_layers"
c.PLUGIN_VERSION = "3.3"
c.PLUGIN_VERSION_RELEASE_DATE = "May 1, 2019"
c.AUTHOR_NAME = "khalim19"
`

const sampleChangelogATX = `# Unreleased

* Fixed a crash when exporting empty layer groups.
* Added a progress bar.

# 3.3

* Previous release notes.
`

const sampleChangelogSetext = `Unreleased
==========

* Fixed a crash.

3.3
===

* Previous release notes.
`

// fixedNow pins the release date for deterministic output.
func fixedNow() time.Time {
	return time.Date(2026, time.August, 23, 12, 0, 0, 0, time.UTC)
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadConfigVersion(t *testing.T) {
	path := writeTemp(t, "config.py", sampleConfig)

	v, err := ReadConfigVersion(path)
	require.NoError(t, err)
	assert.Equal(t, "3.3", v.String())
}

func TestReadConfigVersionMissingEntry(t *testing.T) {
	path := writeTemp(t, "config.py", "c.PLUGIN_NAME = \"export_layers\"\n")

	_, err := ReadConfigVersion(path)
	assert.Error(t, err)
}

func TestBumpRewritesConfigAndChangelog(t *testing.T) {
	configPath := writeTemp(t, "config.py", sampleConfig)
	changelogPath := writeTemp(t, "CHANGELOG.md", sampleChangelogATX)

	result, err := Bump{
		ConfigPath:    configPath,
		ChangelogPath: changelogPath,
		ReleaseType:   "minor",
		Now:           fixedNow,
	}.Run()
	require.NoError(t, err)

	assert.Equal(t, "3.3", result.Current.String())
	assert.Equal(t, "3.4", result.Next.String())
	assert.Equal(t, "August 23, 2026", result.ReleaseDate)
	assert.Contains(t, result.ReleaseNotes, "progress bar")
	assert.NotContains(t, result.ReleaseNotes, "Previous release notes")

	config, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(config), `c.PLUGIN_VERSION = "3.4"`)
	assert.Contains(t, string(config), `c.PLUGIN_VERSION_RELEASE_DATE = "August 23, 2026"`)
	// Unrelated entries untouched.
	assert.Contains(t, string(config), `c.AUTHOR_NAME = "khalim19"`)

	changelog, err := os.ReadFile(changelogPath)
	require.NoError(t, err)
	assert.Contains(t, string(changelog), "# 3.4\n")
	assert.NotContains(t, string(changelog), "# Unreleased")
	// The old release header stays.
	assert.Contains(t, string(changelog), "# 3.3\n")
}

func TestBumpSetextChangelog(t *testing.T) {
	configPath := writeTemp(t, "config.py", sampleConfig)
	changelogPath := writeTemp(t, "CHANGELOG.md", sampleChangelogSetext)

	result, err := Bump{
		ConfigPath:    configPath,
		ChangelogPath: changelogPath,
		ReleaseType:   "patch",
		Now:           fixedNow,
	}.Run()
	require.NoError(t, err)
	assert.Equal(t, "3.3.1", result.Next.String())

	changelog, err := os.ReadFile(changelogPath)
	require.NoError(t, err)
	assert.Contains(t, string(changelog), "3.3.1\n=====\n")
	assert.NotContains(t, string(changelog), "Unreleased")
	// The old release's setext header survives.
	assert.Contains(t, string(changelog), "3.3\n===\n")
}

func TestBumpPrerelease(t *testing.T) {
	configPath := writeTemp(t, "config.py", sampleConfig)

	result, err := Bump{
		ConfigPath:  configPath,
		ReleaseType: "minor",
		Prerelease:  "alpha",
		Now:         fixedNow,
	}.Run()
	require.NoError(t, err)
	assert.Equal(t, "3.4-alpha", result.Next.String())
}

func TestBumpDryRun(t *testing.T) {
	configPath := writeTemp(t, "config.py", sampleConfig)
	changelogPath := writeTemp(t, "CHANGELOG.md", sampleChangelogATX)

	result, err := Bump{
		ConfigPath:    configPath,
		ChangelogPath: changelogPath,
		ReleaseType:   "major",
		DryRun:        true,
		Now:           fixedNow,
	}.Run()
	require.NoError(t, err)
	assert.Equal(t, "4.0", result.Next.String())
	assert.Contains(t, result.ReleaseNotes, "progress bar")

	config, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(config), `c.PLUGIN_VERSION = "3.3"`)

	changelog, err := os.ReadFile(changelogPath)
	require.NoError(t, err)
	assert.Contains(t, string(changelog), "# Unreleased")
}
