// Doctor command checks the Python runtime the plug-in depends on and can
// repair GIMP's interpreter mapping file.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gimptool/plugman/internal/gimp"
)

var (
	doctorPython    string
	doctorInterp    string
	doctorSetPython string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the plug-in's Python runtime",
	Long: `Doctor verifies that the Python interpreter GIMP will use is a 2.7
release, the same check as running "print(sys.version)" in GIMP's python-fu
console.

With --interp the interpreter is taken from a pygimp.interp mapping file,
and --set-python rewrites that file to point at a working interpreter (the
fix for GIMP builds on OS X that ship an incompatible Python).

Example:
  plugman doctor
  plugman doctor --python /usr/local/bin/python2.7
  plugman doctor --interp "/Applications/GIMP.app/Contents/Resources/lib/gimp/2.0/interpreters/pygimp.interp" --set-python /usr/local/bin/python2.7`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorPython, "python", "", "python interpreter to check (default: python from PATH)")
	doctorCmd.Flags().StringVar(&doctorInterp, "interp", "", "pygimp.interp mapping file to read the interpreter from")
	doctorCmd.Flags().StringVar(&doctorSetPython, "set-python", "", "rewrite the mapping file to this interpreter before checking")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	if doctorSetPython != "" && doctorInterp == "" {
		return fmt.Errorf("--set-python requires --interp: there is no mapping file to rewrite")
	}

	interpreter := doctorPython

	if doctorInterp != "" {
		if doctorSetPython != "" {
			if err := gimp.FixInterp(doctorInterp, doctorSetPython); err != nil {
				return fmt.Errorf("fix interpreter mapping: %w", err)
			}
			if !flagJSON {
				fmt.Printf("Repointed python entries in %s to %s\n", doctorInterp, doctorSetPython)
			}
		}

		mapping, err := gimp.LoadInterp(doctorInterp)
		if err != nil {
			return fmt.Errorf("load interpreter mapping: %w", err)
		}
		interpreter, err = mapping.PythonPath()
		if err != nil {
			return err
		}
	}

	check, err := gimp.CheckPython(cmd.Context(), interpreter)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(check)
	}

	fmt.Println("interpreter:", check.Interpreter)
	fmt.Println("version:    ", check.Version)
	if check.Compatible {
		fmt.Println("OK: the plug-in can run under this interpreter.")
		return nil
	}
	return fmt.Errorf("incompatible python %q: the plug-in requires Python 2.7", check.Version)
}
