// Import command ingests external bookmark collections.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/linkshelf/internal/importer"
)

var (
	importFormat string
	importFile   string
	importUser   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import bookmarks from another system",
	Long: `Import reads a foreign bookmark collection into a user's shelf.

Supported formats:
  browser  Netscape bookmark HTML as exported by Chrome, Firefox, Safari
  booknav  BookNav SQLite database
  onenav   OneNav SQLite database

Example:
  linkshelf import --format browser --file bookmarks.html --user alice
  linkshelf import --format onenav --file onenav.db3 --user alice`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "", "source format: browser, booknav, onenav (required)")
	importCmd.Flags().StringVar(&importFile, "file", "", "source file (required)")
	importCmd.Flags().StringVar(&importUser, "user", "", "target username (required)")
	_ = importCmd.MarkFlagRequired("format")
	_ = importCmd.MarkFlagRequired("file")
	_ = importCmd.MarkFlagRequired("user")
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.resolveOwner(importUser)
	if err != nil {
		return err
	}

	var src importer.Source
	switch importFormat {
	case "browser":
		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()
		src = importer.NewBrowserSource(f)
	case "booknav":
		src = importer.NewBookNavSource(importFile)
	case "onenav":
		src = importer.NewOneNavSource(importFile)
	default:
		return fmt.Errorf("unknown import format %q (want browser, booknav, or onenav)", importFormat)
	}

	result, err := a.Importer.Run(user.ID, src)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	if flagJSON {
		return printJSON(result)
	}
	fmt.Printf("Imported %d categories and %d bookmarks for %s\n", result.Categories, result.Bookmarks, user.Username)
	for _, msg := range result.Errors {
		fmt.Printf("  skipped: %s\n", msg)
	}
	return nil
}
