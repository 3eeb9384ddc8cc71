// Targets command lists the GIMP user profiles detected on this machine.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gimptool/plugman/internal/gimp"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List detected GIMP installations",
	Long: `Targets scans the known GIMP user directories for every supported
release line (2.8, 2.9, 2.10) and lists the ones present on this machine,
newest first.`,
	Args: cobra.NoArgs,
	RunE: runTargets,
}

func runTargets(cmd *cobra.Command, args []string) error {
	targets, err := gimp.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan targets: %w", err)
	}

	if flagJSON {
		return printJSON(targets)
	}

	if len(targets) == 0 {
		fmt.Println("No GIMP installations found.")
		return nil
	}

	for _, t := range targets {
		fmt.Printf("GIMP %s\n", t.GIMPVersion)
		fmt.Println("  user dir: ", t.UserDir)
		fmt.Println("  plug-ins: ", t.PluginsDir)
	}
	return nil
}
