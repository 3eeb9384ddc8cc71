// Package gimp discovers GIMP user profiles on the local machine and runs
// the host-side health checks: the Python 2.7 interpreter check and the
// pygimp.interp interpreter-mapping fix.
package gimp
