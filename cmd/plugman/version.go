// Version command for the plugman CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gimptool/plugman/pkg/plugman"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the plugman version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("plugman", plugman.Version)
	},
}
