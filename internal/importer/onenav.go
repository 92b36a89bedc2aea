package importer

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// OneNavSource reads a OneNav SQLite database. OneNav keeps categories in
// `on_categorys` with `fid` as the parent id (0 for roots) and links in
// `on_links`; visibility is the string column `property`, where "private"
// hides the row.
type OneNavSource struct {
	path string
}

// NewOneNavSource creates a source over the legacy database at path.
func NewOneNavSource(path string) *OneNavSource {
	return &OneNavSource{path: path}
}

// Name implements Source.
func (s *OneNavSource) Name() string { return "onenav" }

// Read implements Source.
func (s *OneNavSource) Read() ([]CategoryRecord, []BookmarkRecord, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening onenav database: %w", err)
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

func (s *OneNavSource) readCategories(db *sql.DB) ([]CategoryRecord, error) {
	rows, err := db.Query(
		`SELECT id, name, COALESCE(fid, 0), COALESCE(font_icon, ''), COALESCE(weight, 0), COALESCE(property, '')
		 FROM on_categorys ORDER BY fid, weight`,
	)
	if err != nil {
		return nil, fmt.Errorf("reading onenav categories: %w", err)
	}
	defer rows.Close()

	var out []CategoryRecord
	for rows.Next() {
		var id, fid, weight int
		var name, icon, property string
		if err := rows.Scan(&id, &name, &fid, &icon, &weight, &property); err != nil {
			return nil, fmt.Errorf("scanning onenav category: %w", err)
		}
		rec := CategoryRecord{
			SourceID:  strconv.Itoa(id),
			Name:      name,
			Icon:      icon,
			Weight:    weight,
			IsPrivate: property == "private",
		}
		if fid != 0 {
			rec.SourceParentID = strconv.Itoa(fid)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *OneNavSource) readBookmarks(db *sql.DB) ([]BookmarkRecord, error) {
	rows, err := db.Query(
		`SELECT fid, title, url, COALESCE(description, ''), COALESCE(icon, ''),
		        COALESCE(weight, 0), COALESCE(property, ''), COALESCE(click, 0),
		        COALESCE(status_code, 0), COALESCE(last_checked_time, 0)
		 FROM on_links ORDER BY fid, weight`,
	)
	if err != nil {
		return nil, fmt.Errorf("reading onenav bookmarks: %w", err)
	}
	defer rows.Close()

	var out []BookmarkRecord
	for rows.Next() {
		var fid, weight, click, statusCode int
		var lastChecked int64
		var title, url, description, icon, property string
		if err := rows.Scan(&fid, &title, &url, &description, &icon, &weight, &property, &click, &statusCode, &lastChecked); err != nil {
			return nil, fmt.Errorf("scanning onenav bookmark: %w", err)
		}
		rec := BookmarkRecord{
			SourceCategoryID: strconv.Itoa(fid),
			Title:            title,
			URL:              url,
			Description:      description,
			IconURL:          icon,
			Weight:           weight,
			IsPrivate:        property == "private",
			ClickCount:       click,
		}
		if statusCode != 0 {
			code := statusCode
			rec.StatusCode = &code
		}
		if lastChecked != 0 {
			rec.LastChecked = time.Unix(lastChecked, 0).UTC().Format(time.RFC3339)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
