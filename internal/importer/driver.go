// Package importer brings external bookmark collections into the store.
// Format-specific sources normalize their rows into shared records; one
// driver owns the transaction scope, the id translation table, and the
// per-record error collection for every format.
package importer

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/linkshelf/internal/nav"
	"github.com/mesh-intelligence/linkshelf/internal/sqlite"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

// CategoryRecord is a category normalized from an external source. Source IDs
// are opaque; the driver remaps them to fresh IDs as it inserts. Parent
// lookups resolve against already-processed records, so sources must emit
// parents before children.
type CategoryRecord struct {
	SourceID       string
	SourceParentID string // empty means root
	Name           string
	Icon           string
	Color          string
	Weight         int
	IsPrivate      bool
}

// BookmarkRecord is a bookmark normalized from an external source. An empty
// or unresolvable SourceCategoryID lands the bookmark in the owner's
// "Imported" fallback category.
type BookmarkRecord struct {
	SourceCategoryID string
	Title            string
	URL              string
	Description      string
	Keywords         string
	IconURL          string
	Weight           int
	IsPrivate        bool
	ClickCount       int
	StatusCode       *int
	LastChecked      string
}

// Source reads one external format into normalized records. A returned error
// is fatal: the driver aborts the whole import without touching the store.
// Per-record problems are not the Source's concern; it emits what it can
// read and the driver collects insertion failures.
type Source interface {
	// Name labels the format in errors.
	Name() string

	// Read loads every category and bookmark record. Categories must be
	// topologically ordered by parent.
	Read() ([]CategoryRecord, []BookmarkRecord, error)
}

// Driver runs imports. One Run is one all-or-nothing transaction per source.
type Driver struct {
	store *sqlite.Store
}

// NewDriver creates an import driver on the given store.
func NewDriver(store *sqlite.Store) *Driver {
	return &Driver{store: store}
}

// Run imports a source's records for the owner. Records that fail to insert
// are skipped and reported in the result's Errors; a fatal failure (source
// unreadable, transaction broken) aborts and rolls back everything.
func (d *Driver) Run(ownerID string, src Source) (*types.ImportResult, error) {
	categories, bookmarks, err := src.Read()
	if err != nil {
		return nil, fmt.Errorf("%s import failed: %w", src.Name(), err)
	}

	result := &types.ImportResult{Errors: []string{}}

	err = d.store.WithTx(func(tx *sql.Tx) error {
		idMap := make(map[string]string, len(categories))

		for _, rec := range categories {
			var parentID any
			if rec.SourceParentID != "" {
				if mapped, ok := idMap[rec.SourceParentID]; ok {
					parentID = mapped
				}
			}

			id := sqlite.NewID()
			_, err := tx.Exec(
				`INSERT INTO categories (id, name, parent_id, user_id, icon, color, weight, is_private, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id, rec.Name, parentID, ownerID, rec.Icon, rec.Color, rec.Weight,
				boolToInt(rec.IsPrivate), sqlite.FormatTime(time.Now().UTC()),
			)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Category '%s': %v", rec.Name, err))
				continue
			}
			idMap[rec.SourceID] = id
			result.Categories++
		}

		var fallbackID string
		for _, rec := range bookmarks {
			categoryID, ok := idMap[rec.SourceCategoryID]
			if !ok {
				if fallbackID == "" {
					fallbackID, err = nav.EnsureSentinel(tx, ownerID, types.ImportedName, "fas fa-download", 0)
					if err != nil {
						return err
					}
				}
				categoryID = fallbackID
			}

			var lastChecked any
			if rec.LastChecked != "" {
				lastChecked = rec.LastChecked
			}
			var status any
			if rec.StatusCode != nil {
				status = *rec.StatusCode
			}

			now := sqlite.FormatTime(time.Now().UTC())
			_, err := tx.Exec(
				`INSERT INTO bookmarks (id, title, url, description, keywords, icon_url, category_id, user_id,
				                        weight, is_private, click_count, last_checked, status_code, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				sqlite.NewID(), rec.Title, rec.URL, rec.Description, rec.Keywords, rec.IconURL,
				categoryID, ownerID, rec.Weight, boolToInt(rec.IsPrivate), rec.ClickCount,
				lastChecked, status, now, now,
			)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Bookmark '%s': %v", rec.Title, err))
				continue
			}
			result.Bookmarks++
		}
		return nil
	})
	if err != nil {
		return nil, &types.IntegrityError{Op: src.Name() + " import", Err: err}
	}
	return result, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
