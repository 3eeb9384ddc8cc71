// List command shows the install records from the registry.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed plug-ins",
	Long: `List shows the plug-ins plugman installed, per GIMP profile.
With --all, removed installs are shown too.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listAll, "all", false, "include removed installs")
}

func runList(cmd *cobra.Command, args []string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	installs, err := registry.ListInstalls(listAll)
	if err != nil {
		return fmt.Errorf("list installs: %w", err)
	}

	if flagJSON {
		return printJSON(installs)
	}

	if len(installs) == 0 {
		fmt.Println("No plug-ins installed.")
		return nil
	}

	for _, inst := range installs {
		fmt.Printf("%s %s (GIMP %s, %s)\n",
			inst.PackageName, inst.Version, inst.GIMPVersion, inst.State)
		fmt.Println("  plug-ins: ", inst.PluginsDir)
		fmt.Println("  installed:", inst.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
