// Package plugman exposes build-level metadata about the plugman tool.
package plugman

// Version is the plugman tool version, set at release time.
const Version = "0.1.0"
