// Init command creates the data directory and applies the schema.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the linkshelf store",
	Long:  `Init creates the data directory, opens the database, and applies the schema.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("Initialized linkshelf store in %s\n", cfg.DataDir)
		return nil
	},
}
