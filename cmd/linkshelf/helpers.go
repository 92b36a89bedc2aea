// Shared helpers for linkshelf CLI commands.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/linkshelf/internal/backup"
	"github.com/mesh-intelligence/linkshelf/internal/importer"
	"github.com/mesh-intelligence/linkshelf/internal/nav"
	"github.com/mesh-intelligence/linkshelf/internal/sqlite"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

// app bundles the store and every engine built on it. Commands open one app,
// use what they need, and defer Close.
type app struct {
	Store      *sqlite.Store
	Categories *nav.CategoryEngine
	Bookmarks  *nav.BookmarkEngine
	Backups    *backup.Manager
	Exporter   *backup.Exporter
	Importer   *importer.Driver
	WebDAV     *backup.WebDAVClient // nil when disabled
}

// openApp opens the store under the resolved data directory and wires the
// engines with the loaded configuration.
func openApp() (*app, error) {
	store, err := sqlite.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	prober := nav.NewProber(cfg.FaviconTimeout, cfg.LinkCheckTimeout)
	categories := nav.NewCategoryEngine(store)
	bookmarks := nav.NewBookmarkEngine(store, prober, cfg.CheckConcurrency)
	webdav := backup.NewWebDAVClient(cfg.WebDAV)
	manager := backup.NewManager(store, cfg.BackupDir, cfg.BackupMaxFiles, webdav)

	return &app{
		Store:      store,
		Categories: categories,
		Bookmarks:  bookmarks,
		Backups:    manager,
		Exporter:   backup.NewExporter(categories, bookmarks),
		Importer:   importer.NewDriver(store),
		WebDAV:     webdav,
	}, nil
}

// Close releases the store.
func (a *app) Close() error {
	return a.Store.Close()
}

// resolveOwner maps a --user flag value to an owner ID.
func (a *app) resolveOwner(username string) (*types.User, error) {
	if username == "" {
		return nil, fmt.Errorf("--user is required")
	}
	user, err := a.Store.UserByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("resolve user %q: %w", username, err)
	}
	return user, nil
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}
