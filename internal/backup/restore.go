package backup

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/linkshelf/internal/sqlite"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

// Detected payload kinds.
const (
	KindFull   = "full"   // native snapshot with metadata envelope
	KindExport = "export" // flat {categories, bookmarks} document
)

// probeDoc is the minimal shape needed to classify a payload.
type probeDoc struct {
	Metadata *struct {
		Type string `json:"type"`
	} `json:"metadata"`
	Data       *json.RawMessage  `json:"data"`
	Categories []json.RawMessage `json:"categories"`
	Bookmarks  []json.RawMessage `json:"bookmarks"`
}

// Detect classifies a backup payload by structure. A metadata envelope with
// the full-snapshot type tag wins; a flat document with top-level category or
// bookmark arrays is treated as a user export, so exports restore without
// repackaging.
func Detect(payload []byte) (string, error) {
	var probe probeDoc
	if err := json.Unmarshal(payload, &probe); err != nil {
		return "", &types.ValidationError{Reason: "backup payload is not valid JSON"}
	}
	if probe.Metadata != nil && probe.Metadata.Type == types.SnapshotTypeFull && probe.Data != nil {
		return KindFull, nil
	}
	if len(probe.Categories) > 0 || len(probe.Bookmarks) > 0 {
		return KindExport, nil
	}
	return "", &types.ValidationError{Reason: "unrecognized backup format"}
}

// Restore merges a backup payload into the target owner's collection. All
// restored rows get fresh IDs and the target owner; category parent links are
// translated alongside. Bookmarks whose category cannot be resolved, and rows
// that collide with existing data, are skipped and reported in the stats.
// A non-empty sourceOwner restricts a full snapshot to one account's rows.
func (m *Manager) Restore(ownerID string, payload []byte, sourceOwner string) (*types.RestoreStats, error) {
	kind, err := Detect(payload)
	if err != nil {
		return nil, err
	}

	var categories []types.Category
	var bookmarks []types.Bookmark
	var sourceUsers int

	switch kind {
	case KindFull:
		var snap types.Snapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			return nil, &types.ValidationError{Reason: "malformed snapshot payload"}
		}
		categories = snap.Data.Categories
		bookmarks = snap.Data.Bookmarks
		sourceUsers = len(snap.Data.Users)
		if sourceOwner != "" {
			// Accept either the snapshot user's ID or their username.
			for _, u := range snap.Data.Users {
				if u.Username == sourceOwner {
					sourceOwner = u.ID
					break
				}
			}
			categories = filterByOwner(categories, sourceOwner, func(c types.Category) string { return c.UserID })
			bookmarks = filterByOwner(bookmarks, sourceOwner, func(b types.Bookmark) string { return b.UserID })
		}
	case KindExport:
		var export userExport
		if err := json.Unmarshal(payload, &export); err != nil {
			return nil, &types.ValidationError{Reason: "malformed export payload"}
		}
		categories = export.Categories
		bookmarks = export.Bookmarks
	}

	stats := &types.RestoreStats{Users: sourceUsers, Errors: []string{}}

	err = m.store.WithTx(func(tx *sql.Tx) error {
		idMap := make(map[string]string, len(categories))

		// First pass inserts every category as a root so ordering in the
		// payload never matters; the second pass rewires parents.
		for _, c := range categories {
			id := sqlite.NewID()
			createdAt := c.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now().UTC()
			}
			_, err := tx.Exec(
				`INSERT INTO categories (id, name, parent_id, user_id, icon, color, weight, is_private, created_at)
				 VALUES (?, ?, NULL, ?, ?, ?, ?, ?, ?)`,
				id, c.Name, ownerID, c.Icon, c.Color, c.Weight,
				boolToInt(c.IsPrivate), sqlite.FormatTime(createdAt),
			)
			if err != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("Category '%s': %v", c.Name, err))
				continue
			}
			idMap[c.ID] = id
			stats.Categories++
		}
		for _, c := range categories {
			if c.ParentID == nil {
				continue
			}
			id, ok := idMap[c.ID]
			if !ok {
				continue
			}
			parent, ok := idMap[*c.ParentID]
			if !ok {
				// Parent outside the payload; the category stays a root.
				continue
			}
			if _, err := tx.Exec("UPDATE categories SET parent_id = ? WHERE id = ?", parent, id); err != nil {
				return fmt.Errorf("rewiring category parent: %w", err)
			}
		}

		for _, b := range bookmarks {
			categoryID, ok := idMap[b.CategoryID]
			if !ok {
				stats.Errors = append(stats.Errors, fmt.Sprintf("Bookmark '%s': unknown category", b.Title))
				continue
			}

			var lastChecked, status any
			if b.LastChecked != nil {
				lastChecked = sqlite.FormatTime(*b.LastChecked)
			}
			if b.StatusCode != nil {
				status = *b.StatusCode
			}
			createdAt := b.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now().UTC()
			}
			updatedAt := b.UpdatedAt
			if updatedAt.IsZero() {
				updatedAt = createdAt
			}

			_, err := tx.Exec(
				`INSERT INTO bookmarks (id, title, url, description, keywords, icon_url, category_id, user_id,
				                        weight, is_private, click_count, last_checked, status_code, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				sqlite.NewID(), b.Title, b.URL, b.Description, b.Keywords, b.IconURL,
				categoryID, ownerID, b.Weight, boolToInt(b.IsPrivate), b.ClickCount,
				lastChecked, status, sqlite.FormatTime(createdAt), sqlite.FormatTime(updatedAt),
			)
			if err != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("Bookmark '%s': %v", b.Title, err))
				continue
			}
			stats.Bookmarks++
		}
		return nil
	})
	if err != nil {
		return nil, &types.IntegrityError{Op: "restore backup", Err: err}
	}
	return stats, nil
}

func filterByOwner[T any](rows []T, owner string, ownerOf func(T) string) []T {
	kept := make([]T, 0, len(rows))
	for _, row := range rows {
		if ownerOf(row) == owner {
			kept = append(kept, row)
		}
	}
	return kept
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
