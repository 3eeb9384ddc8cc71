// Package types defines the domain types shared across plugman: plug-in
// packages, plug-in versions, GIMP targets, install records, configuration,
// and the standard sentinel errors returned by the other packages.
package types
