package types

import "fmt"

// GIMP release lines with a known user-directory layout.
const (
	GIMP28  = "2.8"
	GIMP29  = "2.9"
	GIMP210 = "2.10"
)

// KnownGIMPVersions lists the supported release lines, oldest first.
var KnownGIMPVersions = []string{GIMP28, GIMP29, GIMP210}

// knownGIMPVersions is the set form of KnownGIMPVersions.
var knownGIMPVersions = map[string]bool{
	GIMP28:  true,
	GIMP29:  true,
	GIMP210: true,
}

// ParseGIMPVersion validates a GIMP release line string ("2.8", "2.9",
// "2.10"). Returns ErrUnknownGIMPVersion for anything else.
func ParseGIMPVersion(s string) (string, error) {
	if !knownGIMPVersions[s] {
		return "", fmt.Errorf("%w: %q", ErrUnknownGIMPVersion, s)
	}
	return s, nil
}

// Target is a concrete GIMP user profile on this machine that a plug-in can
// be installed into.
type Target struct {
	GIMPVersion string `json:"gimp_version"` // release line, e.g. "2.10"
	UserDir     string `json:"user_dir"`     // GIMP user directory
	PluginsDir  string `json:"plugins_dir"`  // plug-ins subdirectory
	Parasiterc  string `json:"parasiterc"`   // settings store inside UserDir
}

// Key returns the stable identifier used to match install records against a
// target. Two targets with the same plug-ins directory are the same target.
func (t Target) Key() string {
	return t.PluginsDir
}
