package importer

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"
)

// BookNavSource reads a BookNav SQLite database. The legacy schema keeps
// categories in `category` with integer ids and nullable parent_id, and
// bookmarks in `website` keyed by category_id.
type BookNavSource struct {
	path string
}

// NewBookNavSource creates a source over the legacy database at path.
func NewBookNavSource(path string) *BookNavSource {
	return &BookNavSource{path: path}
}

// Name implements Source.
func (s *BookNavSource) Name() string { return "booknav" }

// Read implements Source. Categories come out ordered parents-first because
// BookNav ids grow monotonically and parents always predate children.
func (s *BookNavSource) Read() ([]CategoryRecord, []BookmarkRecord, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening booknav database: %w", err)
	}
	defer db.Close()

	categories, err := s.readCategories(db)
	if err != nil {
		return nil, nil, err
	}
	bookmarks, err := s.readBookmarks(db)
	if err != nil {
		return nil, nil, err
	}
	return categories, bookmarks, nil
}

func (s *BookNavSource) readCategories(db *sql.DB) ([]CategoryRecord, error) {
	rows, err := db.Query(
		`SELECT id, name, COALESCE(parent_id, 0), COALESCE(icon, ''), COALESCE(weight, 0), COALESCE(private, 0)
		 FROM category ORDER BY parent_id, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("reading booknav categories: %w", err)
	}
	defer rows.Close()

	var out []CategoryRecord
	for rows.Next() {
		var id, parentID, weight, private int
		var name, icon string
		if err := rows.Scan(&id, &name, &parentID, &icon, &weight, &private); err != nil {
			return nil, fmt.Errorf("scanning booknav category: %w", err)
		}
		rec := CategoryRecord{
			SourceID:  strconv.Itoa(id),
			Name:      name,
			Icon:      icon,
			Weight:    weight,
			IsPrivate: private != 0,
		}
		if parentID != 0 {
			rec.SourceParentID = strconv.Itoa(parentID)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *BookNavSource) readBookmarks(db *sql.DB) ([]BookmarkRecord, error) {
	rows, err := db.Query(
		`SELECT category_id, title, url, COALESCE(description, ''), COALESCE(keywords, ''),
		        COALESCE(icon, ''), COALESCE(weight, 0), COALESCE(private, 0), COALESCE(clicks, 0)
		 FROM website ORDER BY category_id, weight`,
	)
	if err != nil {
		return nil, fmt.Errorf("reading booknav bookmarks: %w", err)
	}
	defer rows.Close()

	var out []BookmarkRecord
	for rows.Next() {
		var categoryID, weight, private, clicks int
		var title, url, description, keywords, icon string
		if err := rows.Scan(&categoryID, &title, &url, &description, &keywords, &icon, &weight, &private, &clicks); err != nil {
			return nil, fmt.Errorf("scanning booknav bookmark: %w", err)
		}
		out = append(out, BookmarkRecord{
			SourceCategoryID: strconv.Itoa(categoryID),
			Title:            title,
			URL:              url,
			Description:      description,
			Keywords:         keywords,
			IconURL:          icon,
			Weight:           weight,
			IsPrivate:        private != 0,
			ClickCount:       clicks,
		})
	}
	return out, rows.Err()
}
