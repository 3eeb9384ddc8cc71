package types

import "time"

// Install states.
const (
	InstallStateInstalled = "installed"
	InstallStateRemoved   = "removed"
)

// Install is a recorded installation of a package into a target. The file
// manifest is what upgrade and uninstall use to know what the previous
// version put on disk.
type Install struct {
	InstallID   string    `json:"install_id"`   // UUID v7, generated on creation
	PackageName string    `json:"package_name"` // Package.Name
	Version     string    `json:"version"`      // installed version string
	GIMPVersion string    `json:"gimp_version"` // target release line
	PluginsDir  string    `json:"plugins_dir"`  // target plug-ins directory
	Files       []string  `json:"files"`        // installed paths, relative to PluginsDir
	State       string    `json:"state"`        // installed or removed
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Event kinds recorded in the registry audit log.
const (
	EventInstall   = "install"
	EventUpgrade   = "upgrade"
	EventUninstall = "uninstall"
)

// Event is one row of the registry audit log.
type Event struct {
	EventID     string    `json:"event_id"` // UUID v7
	Kind        string    `json:"kind"`     // install, upgrade, uninstall
	InstallID   string    `json:"install_id"`
	PackageName string    `json:"package_name"`
	Version     string    `json:"version"`
	PluginsDir  string    `json:"plugins_dir"`
	OccurredAt  time.Time `json:"occurred_at"`
}
