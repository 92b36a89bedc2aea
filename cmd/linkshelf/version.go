// Version command for the linkshelf CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/linkshelf/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the linkshelf version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("linkshelf", version.Version)
	},
}
