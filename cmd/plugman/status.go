// Status command shows the registry audit log.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent install activity",
	Long:  `Status prints the most recent install, upgrade and uninstall events.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 20, "events to show (0 shows everything)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	events, err := registry.Events(statusLimit)
	if err != nil {
		return fmt.Errorf("read events: %w", err)
	}

	if flagJSON {
		return printJSON(events)
	}

	if len(events) == 0 {
		fmt.Println("No activity recorded.")
		return nil
	}

	for _, e := range events {
		fmt.Printf("%s  %-9s %s %s\n",
			e.OccurredAt.Local().Format("2006-01-02 15:04"),
			e.Kind, e.PackageName, e.Version)
	}
	return nil
}
