// Whole-table accessors used by snapshots, plus the backup ledger.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

// AllCategories dumps every category row across all owners, ordered so that
// a restore replaying the slice sees parents before children within an owner.
func (s *Store) AllCategories() ([]types.Category, error) {
	rows, err := s.db.Query(
		`SELECT id, name, parent_id, user_id, COALESCE(icon, ''), COALESCE(color, ''), weight, is_private, created_at
		 FROM categories ORDER BY user_id, parent_id IS NOT NULL, weight, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("dumping categories: %w", err)
	}
	defer rows.Close()

	var out []types.Category
	for rows.Next() {
		var c types.Category
		var parent sql.NullString
		var created string
		var private int
		if err := rows.Scan(&c.ID, &c.Name, &parent, &c.UserID, &c.Icon, &c.Color, &c.Weight, &private, &created); err != nil {
			return nil, fmt.Errorf("hydrating category: %w", err)
		}
		if parent.Valid {
			c.ParentID = &parent.String
		}
		c.IsPrivate = private != 0
		c.CreatedAt = ParseTime(created)
		out = append(out, c)
	}
	return out, rows.Err()
}

// AllBookmarks dumps every bookmark row across all owners.
func (s *Store) AllBookmarks() ([]types.Bookmark, error) {
	rows, err := s.db.Query(
		`SELECT id, title, url, COALESCE(description, ''), COALESCE(keywords, ''), COALESCE(icon_url, ''),
		        category_id, user_id, weight, is_private, click_count, last_checked, status_code, created_at, updated_at
		 FROM bookmarks ORDER BY user_id, category_id, weight, title`,
	)
	if err != nil {
		return nil, fmt.Errorf("dumping bookmarks: %w", err)
	}
	defer rows.Close()

	var out []types.Bookmark
	for rows.Next() {
		var b types.Bookmark
		var private int
		var lastChecked sql.NullString
		var status sql.NullInt64
		var created, updated string
		err := rows.Scan(&b.ID, &b.Title, &b.URL, &b.Description, &b.Keywords, &b.IconURL,
			&b.CategoryID, &b.UserID, &b.Weight, &private, &b.ClickCount,
			&lastChecked, &status, &created, &updated)
		if err != nil {
			return nil, fmt.Errorf("hydrating bookmark: %w", err)
		}
		b.IsPrivate = private != 0
		if lastChecked.Valid {
			t := ParseTime(lastChecked.String)
			b.LastChecked = &t
		}
		if status.Valid {
			code := int(status.Int64)
			b.StatusCode = &code
		}
		b.CreatedAt = ParseTime(created)
		b.UpdatedAt = ParseTime(updated)
		out = append(out, b)
	}
	return out, rows.Err()
}

// InsertBackupRecord appends one snapshot to the ledger. ID and CreatedAt are
// assigned here.
func (s *Store) InsertBackupRecord(r *types.BackupRecord) error {
	r.ID = NewID()
	r.CreatedAt = time.Now().UTC()
	_, err := s.db.Exec(
		"INSERT INTO backups (id, filename, size, backup_type, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		r.ID, r.Filename, r.Size, r.Type, r.CreatedBy, FormatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("recording backup: %w", err)
	}
	return nil
}

// Backups lists the ledger, newest first.
func (s *Store) Backups() ([]types.BackupRecord, error) {
	rows, err := s.db.Query(
		"SELECT id, filename, size, backup_type, created_by, created_at FROM backups ORDER BY created_at DESC, filename DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}
	defer rows.Close()

	var out []types.BackupRecord
	for rows.Next() {
		var r types.BackupRecord
		var created string
		if err := rows.Scan(&r.ID, &r.Filename, &r.Size, &r.Type, &r.CreatedBy, &created); err != nil {
			return nil, fmt.Errorf("hydrating backup record: %w", err)
		}
		r.CreatedAt = ParseTime(created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteBackupRecord removes one ledger entry.
func (s *Store) DeleteBackupRecord(id string) error {
	_, err := s.db.Exec("DELETE FROM backups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting backup record: %w", err)
	}
	return nil
}
