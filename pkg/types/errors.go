package types

import "errors"

// Version errors.
var (
	// ErrInvalidVersion is returned when a version string does not match
	// major.minor[.patch[-prerelease[.patch]]].
	ErrInvalidVersion = errors.New("invalid version format")

	// ErrInvalidIncrement is returned when a version increment request is
	// not one of major, minor, patch.
	ErrInvalidIncrement = errors.New("invalid increment component")

	// ErrInvalidPrerelease is returned when a prerelease identifier is not
	// lowercase alphanumeric.
	ErrInvalidPrerelease = errors.New("invalid prerelease identifier")
)

// Target and discovery errors.
var (
	// ErrUnknownGIMPVersion is returned for GIMP release lines plugman does
	// not know the directory layout of.
	ErrUnknownGIMPVersion = errors.New("unknown GIMP version")

	// ErrUnsupportedOS is returned when resolving plug-in directories on an
	// operating system without a known GIMP layout.
	ErrUnsupportedOS = errors.New("unsupported operating system")

	// ErrNoTargets is returned when no GIMP user profile can be found on
	// the machine.
	ErrNoTargets = errors.New("no GIMP installations found")
)

// Registry errors.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrRegistryClosed is returned when the install registry is used
	// before Open or after Close.
	ErrRegistryClosed = errors.New("registry is closed")

	// ErrAlreadyOpen is returned when opening an already open registry.
	ErrAlreadyOpen = errors.New("registry is already open")
)

// Installer errors.
var (
	// ErrAlreadyInstalled is returned when installing over files plugman
	// did not put there, without --force.
	ErrAlreadyInstalled = errors.New("plug-in files already present")

	// ErrNotInstalled is returned when upgrading or uninstalling a package
	// that has no installed record for the target.
	ErrNotInstalled = errors.New("plug-in is not installed")
)

// Parasite and interpreter file errors.
var (
	// ErrParasiteNotFound is returned when a named parasite entry is not
	// present in parasiterc.
	ErrParasiteNotFound = errors.New("parasite not found")

	// ErrMalformedParasiterc is returned when parasiterc cannot be parsed.
	ErrMalformedParasiterc = errors.New("malformed parasiterc")

	// ErrNoInterpreter is returned when no python interpreter entry exists
	// in an interpreter mapping file.
	ErrNoInterpreter = errors.New("no python interpreter entry")
)

// Config validation errors.
var (
	// ErrPackageNameEmpty is returned when a package has no name.
	ErrPackageNameEmpty = errors.New("package name must not be empty")

	// ErrScriptFileEmpty is returned when a package has no entry script.
	ErrScriptFileEmpty = errors.New("package script file must not be empty")

	// ErrKeepBackupsInvalid is returned when backup retention is negative.
	ErrKeepBackupsInvalid = errors.New("keep_backups must not be negative")
)
