// Export command renders a user's bookmarks in portable formats.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportFormat  string
	exportUser    string
	exportOut     string
	exportPrivate bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's bookmarks",
	Long: `Export renders one user's categories and bookmarks in a portable format.

Supported formats: json, csv, html, netscape.

Example:
  linkshelf export --format csv --user alice --out bookmarks.csv
  linkshelf export --format json --user alice`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json, csv, html, netscape")
	exportCmd.Flags().StringVar(&exportUser, "user", "", "username to export (required)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default: stdout)")
	exportCmd.Flags().BoolVar(&exportPrivate, "include-private", true, "include private categories and bookmarks")
	_ = exportCmd.MarkFlagRequired("user")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.resolveOwner(exportUser)
	if err != nil {
		return err
	}

	payload, _, err := a.Exporter.Export(user.ID, exportFormat, exportPrivate)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if exportOut == "" {
		_, err = os.Stdout.Write(payload)
		return err
	}
	if err := os.WriteFile(exportOut, payload, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("Exported %s bookmarks to %s\n", user.Username, exportOut)
	return nil
}
