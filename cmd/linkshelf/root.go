// Root command for the linkshelf CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/linkshelf/internal/paths"
	"github.com/mesh-intelligence/linkshelf/internal/version"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// cfg holds the configuration loaded by PersistentPreRunE so all subcommands
// can use it.
var cfg types.Config

var rootCmd = &cobra.Command{
	Use:     "linkshelf",
	Short:   "Linkshelf is a multi-user bookmark manager",
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		loaded, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		cfg = loaded

		cfg.DataDir, err = paths.ResolveDataDir(flagDataDir, cfg.DataDir)
		if err != nil {
			return err
		}
		cfg.BackupDir, err = paths.ResolveBackupDir(cfg.BackupDir, cfg.DataDir)
		if err != nil {
			return err
		}
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.linkshelf-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

// resolveConfigDir returns the configuration directory following the
// precedence chain: --config-dir flag > LINKSHELF_CONFIG_DIR env > default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
