package types

// DefaultParasiteName is the parasiterc entry the Export Layers plug-in
// stores its session settings under.
const DefaultParasiteName = "plug-in-export-layers"

// Package describes a plug-in payload: the files that get copied into a GIMP
// plug-ins directory, and the settings entry left behind in parasiterc.
type Package struct {
	// Name identifies the plug-in, e.g. "export-layers".
	Name string `json:"name"`

	// Version is the canonical version string of the payload.
	Version string `json:"version"`

	// SourceDir is the directory holding the payload files.
	SourceDir string `json:"source_dir"`

	// ScriptFile is the entry script GIMP registers, relative to SourceDir,
	// e.g. "export_layers.py".
	ScriptFile string `json:"script_file"`

	// SupportDirs are directories copied alongside the entry script,
	// relative to SourceDir, e.g. "export_layers".
	SupportDirs []string `json:"support_dirs"`

	// ParasiteName is the parasiterc entry removed on uninstall and upgrade.
	ParasiteName string `json:"parasite_name"`

	// PurgeDirs are directories earlier releases left in the plug-ins
	// directory that must be deleted on upgrade even though the current
	// layout no longer ships them (the 3.0-RC1 line installed "pygimplib"
	// as a sibling of the plug-in directory).
	PurgeDirs []string `json:"purge_dirs,omitempty"`
}

// Validate checks that the Package names at least an entry script and a
// plug-in name. Returns a sentinel error on failure.
func (p Package) Validate() error {
	if p.Name == "" {
		return ErrPackageNameEmpty
	}
	if p.ScriptFile == "" {
		return ErrScriptFileEmpty
	}
	if p.Version != "" {
		if _, err := ParseVersion(p.Version); err != nil {
			return err
		}
	}
	return nil
}
