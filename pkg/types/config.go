package types

// Config holds the plugman settings loaded from config.yaml.
type Config struct {
	// SourceDir is the default plug-in payload directory used by install,
	// upgrade and package when no --source flag is given.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// StateDir overrides where the install registry and backups live.
	StateDir string `json:"state_dir" yaml:"state_dir"`

	// ParasiteName overrides the parasiterc entry name for packages that do
	// not set their own.
	ParasiteName string `json:"parasite_name" yaml:"parasite_name"`

	// KeepBackups is how many upgrade backups to retain per target.
	// Zero keeps none.
	KeepBackups int `json:"keep_backups" yaml:"keep_backups"`
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.KeepBackups < 0 {
		return ErrKeepBackupsInvalid
	}
	return nil
}
