package httpserver

import (
	"github.com/mesh-intelligence/linkshelf/internal/backup"
	"github.com/mesh-intelligence/linkshelf/internal/importer"
	"github.com/mesh-intelligence/linkshelf/internal/nav"
	"github.com/mesh-intelligence/linkshelf/internal/sqlite"
)

// Deps carries everything the handlers need. The server owns no business
// logic; it translates HTTP to engine calls and engine errors to status
// codes.
type Deps struct {
	Store      *sqlite.Store
	Categories *nav.CategoryEngine
	Bookmarks  *nav.BookmarkEngine
	Backups    *backup.Manager
	Exporter   *backup.Exporter
	Importer   *importer.Driver
}
