// Package release holds the release-side tooling: bumping the plug-in
// version in its config file and changelog, and packaging the payload into
// a zip installer.
package release

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/gimptool/plugman/pkg/types"
)

// Config entries rewritten on a version bump. The plug-in's config.py
// assigns them as c.<ENTRY> = "value".
const (
	versionEntry     = "PLUGIN_VERSION"
	releaseDateEntry = "PLUGIN_VERSION_RELEASE_DATE"
)

// releaseDateLayout matches the human-readable date the plug-in displays,
// e.g. "August 23, 2026".
const releaseDateLayout = "January 2, 2006"

// Bump describes one version-bump operation.
type Bump struct {
	ConfigPath    string // plug-in config file holding the version entries
	ChangelogPath string // changelog whose first header becomes the version
	ReleaseType   string // major, minor or patch
	Prerelease    string // optional prerelease identifier
	DryRun        bool   // plan without writing

	// Now supplies the release date; nil means time.Now.
	Now func() time.Time
}

// BumpResult reports the outcome of a bump.
type BumpResult struct {
	Current      types.Version `json:"current"`
	Next         types.Version `json:"next"`
	ReleaseDate  string        `json:"release_date"`
	ReleaseNotes string        `json:"release_notes,omitempty"`
	DryRun       bool          `json:"dry_run,omitempty"`
}

// Run reads the current version from the config file, increments it,
// rewrites the version and release-date entries, and renames the
// changelog's first top-level header to the new version. Under DryRun
// nothing is written.
func (b Bump) Run() (*BumpResult, error) {
	current, err := ReadConfigVersion(b.ConfigPath)
	if err != nil {
		return nil, err
	}

	next, err := current.Increment(b.ReleaseType, b.Prerelease)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	releaseDate := now().UTC().Format(releaseDateLayout)

	result := &BumpResult{
		Current:     current,
		Next:        next,
		ReleaseDate: releaseDate,
		DryRun:      b.DryRun,
	}

	if b.ChangelogPath != "" {
		notes, err := b.rewriteChangelog(next.String())
		if err != nil {
			return nil, err
		}
		result.ReleaseNotes = notes
	}

	if b.DryRun {
		return result, nil
	}

	if err := rewriteConfigEntries(b.ConfigPath, map[string]string{
		versionEntry:     next.String(),
		releaseDateEntry: releaseDate,
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// entryPattern matches a config assignment line for the given entry name.
func entryPattern(entry string) *regexp.Regexp {
	return regexp.MustCompile(`^(c\.` + regexp.QuoteMeta(entry) + ` = )"(.*)"$`)
}

// ReadConfigVersion extracts the plug-in version from its config file.
func ReadConfigVersion(path string) (types.Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Version{}, err
	}

	pattern := entryPattern(versionEntry)
	for _, line := range strings.Split(string(data), "\n") {
		if m := pattern.FindStringSubmatch(line); m != nil {
			return types.ParseVersion(m[2])
		}
	}
	return types.Version{}, fmt.Errorf("no %s entry in %s", versionEntry, path)
}

// rewriteConfigEntries replaces the quoted values of the given entries,
// erroring when any entry is missing from the file.
func rewriteConfigEntries(path string, entries map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	remaining := make(map[string]*regexp.Regexp, len(entries))
	for entry := range entries {
		remaining[entry] = entryPattern(entry)
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		for entry, pattern := range remaining {
			if m := pattern.FindStringSubmatch(line); m != nil {
				lines[i] = m[1] + `"` + entries[entry] + `"`
				delete(remaining, entry)
				break
			}
		}
		if len(remaining) == 0 {
			break
		}
	}

	if len(remaining) > 0 {
		var missing []string
		for entry := range remaining {
			missing = append(missing, entry)
		}
		return fmt.Errorf("missing entries in %s: %s", path, strings.Join(missing, ", "))
	}

	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
}

// Changelog header forms: "# name" (ATX) and "name\n====" (setext).
var (
	atxHeaderPattern    = regexp.MustCompile(`(?m)^# (.*)\n`)
	setextHeaderPattern = regexp.MustCompile(`(?m)^(.+)\n=+\n`)
)

// rewriteChangelog renames the changelog's first top-level header to the
// new version and returns the section body under it as release notes. A
// header already equal to the new version is left alone.
func (b Bump) rewriteChangelog(newVersion string) (string, error) {
	data, err := os.ReadFile(b.ChangelogPath)
	if err != nil {
		return "", err
	}
	contents := string(data)

	header, body, setext := firstSection(contents)
	if header == "" {
		return "", fmt.Errorf("no top-level header in %s", b.ChangelogPath)
	}

	notes := strings.TrimSpace(body)
	if header == newVersion || b.DryRun {
		return notes, nil
	}

	// Replace only the first header.
	if setext {
		underline := strings.Repeat("=", len(newVersion))
		loc := setextHeaderPattern.FindStringIndex(contents)
		contents = contents[:loc[0]] + newVersion + "\n" + underline + "\n" + contents[loc[1]:]
	} else {
		loc := atxHeaderPattern.FindStringIndex(contents)
		contents = contents[:loc[0]] + "# " + newVersion + "\n" + contents[loc[1]:]
	}

	return notes, os.WriteFile(b.ChangelogPath, []byte(contents), 0o644)
}

// firstSection returns the first top-level header, the text between it and
// the next top-level header, and whether the header used setext form.
func firstSection(contents string) (header, body string, setext bool) {
	atx := atxHeaderPattern.FindStringSubmatchIndex(contents)
	set := setextHeaderPattern.FindStringSubmatchIndex(contents)

	var end int
	switch {
	case atx == nil && set == nil:
		return "", "", false
	case set == nil || (atx != nil && atx[0] <= set[0]):
		header = contents[atx[2]:atx[3]]
		end = atx[1]
	default:
		header = contents[set[2]:set[3]]
		end = set[1]
		setext = true
	}

	rest := contents[end:]
	next := len(rest)
	if loc := atxHeaderPattern.FindStringIndex(rest); loc != nil && loc[0] < next {
		next = loc[0]
	}
	if loc := setextHeaderPattern.FindStringIndex(rest); loc != nil && loc[0] < next {
		next = loc[0]
	}
	return header, rest[:next], setext
}
