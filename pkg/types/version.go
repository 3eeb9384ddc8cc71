package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Increment components accepted by Version.Increment.
const (
	IncrementMajor = "major"
	IncrementMinor = "minor"
	IncrementPatch = "patch"
)

// versionPattern matches major.minor[.patch[-prerelease[.patch]]].
// Examples: "3.0", "3.2.1", "3.3-alpha", "3.3-alpha.2".
var versionPattern = regexp.MustCompile(
	`^(\d+)\.(\d+)(?:\.(\d+))?(?:-([a-z0-9]+)(?:\.(\d+))?)?$`)

// prereleasePattern restricts prerelease identifiers to lowercase
// alphanumeric, e.g. "alpha", "rc1".
var prereleasePattern = regexp.MustCompile(`^[a-z0-9]+$`)

// Version is a plug-in version of the form
// major.minor[.patch[-prerelease[.patch]]].
//
// Patch and PrereleasePatch use -1 to mean "absent"; a prerelease patch of 1
// is also rendered as absent ("3.3-alpha", not "3.3-alpha.1").
type Version struct {
	Major           int
	Minor           int
	Patch           int
	Prerelease      string
	PrereleasePatch int
}

// ParseVersion parses a version string. Returns ErrInvalidVersion when the
// string does not match the accepted format.
func ParseVersion(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	v := Version{Patch: -1, PrereleasePatch: -1}
	v.Major, _ = strconv.Atoi(m[1])
	v.Minor, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		v.Patch, _ = strconv.Atoi(m[3])
	}
	v.Prerelease = m[4]
	if m[5] != "" {
		v.PrereleasePatch, _ = strconv.Atoi(m[5])
		if v.PrereleasePatch < 2 {
			// ".1" and ".0" are never written; the bare prerelease is the
			// first in its series.
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
	}

	return v, nil
}

// String renders the version in canonical form.
func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d", v.Major, v.Minor)
	if v.Patch >= 0 {
		fmt.Fprintf(&b, ".%d", v.Patch)
	}
	if v.Prerelease != "" {
		fmt.Fprintf(&b, "-%s", v.Prerelease)
		if v.PrereleasePatch >= 2 {
			fmt.Fprintf(&b, ".%d", v.PrereleasePatch)
		}
	}
	return b.String()
}

// Increment advances the version by the given component (major, minor or
// patch). A non-empty prerelease starts or continues a prerelease series:
//
//   - incrementing with a prerelease when the current version already carries
//     the same prerelease bumps only the prerelease patch ("3.3-alpha" to
//     "3.3-alpha.2");
//   - otherwise the numeric component is advanced and the prerelease is
//     attached fresh ("3.2" + minor/alpha = "3.3-alpha");
//   - incrementing without a prerelease from a prerelease version finalizes
//     it ("3.3-alpha" + minor = "3.3").
func (v Version) Increment(component, prerelease string) (Version, error) {
	if prerelease != "" && !prereleasePattern.MatchString(prerelease) {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidPrerelease, prerelease)
	}

	switch component {
	case IncrementMajor, IncrementMinor, IncrementPatch:
	default:
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidIncrement, component)
	}

	// Continuing an existing prerelease series only bumps its patch.
	if prerelease != "" && v.Prerelease == prerelease {
		next := v
		if next.PrereleasePatch < 2 {
			next.PrereleasePatch = 2
		} else {
			next.PrereleasePatch++
		}
		return next, nil
	}

	next := v
	if v.Prerelease != "" && prerelease == "" {
		// Finalizing a prerelease: drop the suffix, keep the numbers.
		next.Prerelease = ""
		next.PrereleasePatch = -1
		return next, nil
	}

	switch component {
	case IncrementMajor:
		next.Major++
		next.Minor = 0
		next.Patch = -1
	case IncrementMinor:
		next.Minor++
		next.Patch = -1
	case IncrementPatch:
		if next.Patch < 0 {
			next.Patch = 1
		} else {
			next.Patch++
		}
	}

	next.Prerelease = prerelease
	next.PrereleasePatch = -1
	return next, nil
}

// Compare returns -1, 0 or 1 as v is less than, equal to or greater than o.
// A release is greater than any of its own prereleases.
func (v Version) Compare(o Version) int {
	if c := compareInt(v.Major, o.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, o.Minor); c != 0 {
		return c
	}
	// Absent patch compares as 0.
	if c := compareInt(max(v.Patch, 0), max(o.Patch, 0)); c != 0 {
		return c
	}

	// Same numbers: release > prerelease.
	switch {
	case v.Prerelease == "" && o.Prerelease != "":
		return 1
	case v.Prerelease != "" && o.Prerelease == "":
		return -1
	case v.Prerelease != o.Prerelease:
		if v.Prerelease < o.Prerelease {
			return -1
		}
		return 1
	}

	return compareInt(max(v.PrereleasePatch, 1), max(o.PrereleasePatch, 1))
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
