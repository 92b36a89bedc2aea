package nav

import (
	"context"
	"database/sql"
	"fmt"
	neturl "net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/linkshelf/internal/sqlite"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

const bookmarkColumns = "id, title, url, description, keywords, icon_url, category_id, user_id, weight, is_private, click_count, last_checked, status_code, created_at, updated_at"

// BookmarkEngine manages bookmarks. Each bookmark is bound to exactly one
// category of the same owner; URLs are unique per owner.
type BookmarkEngine struct {
	store      *sqlite.Store
	probe      *Prober
	checkLimit int
}

// NewBookmarkEngine creates a bookmark engine. checkLimit bounds the
// concurrency of bulk link sweeps.
func NewBookmarkEngine(store *sqlite.Store, probe *Prober, checkLimit int) *BookmarkEngine {
	if checkLimit <= 0 {
		checkLimit = 1
	}
	return &BookmarkEngine{store: store, probe: probe, checkLimit: checkLimit}
}

// ListByCategory returns a category's bookmarks ordered by weight then title.
func (e *BookmarkEngine) ListByCategory(categoryID string, includePrivate bool) ([]types.Bookmark, error) {
	query := "SELECT " + bookmarkColumns + " FROM bookmarks WHERE category_id = ?"
	if !includePrivate {
		query += " AND is_private = 0"
	}
	query += " ORDER BY weight, title"

	rows, err := e.store.Query(query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("fetching bookmarks: %w", err)
	}
	defer rows.Close()
	return collectBookmarks(rows, false)
}

// ListByOwner returns all of an owner's bookmarks joined with their category
// name, ordered by category weight/name then bookmark weight/title.
func (e *BookmarkEngine) ListByOwner(ownerID string, includePrivate bool) ([]types.Bookmark, error) {
	query := `SELECT b.id, b.title, b.url, b.description, b.keywords, b.icon_url, b.category_id, b.user_id,
	       b.weight, b.is_private, b.click_count, b.last_checked, b.status_code, b.created_at, b.updated_at, c.name
	 FROM bookmarks b JOIN categories c ON b.category_id = c.id
	 WHERE b.user_id = ?`
	if !includePrivate {
		query += " AND b.is_private = 0"
	}
	query += " ORDER BY c.weight, c.name, b.weight, b.title"

	rows, err := e.store.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetching bookmarks: %w", err)
	}
	defer rows.Close()
	return collectBookmarks(rows, true)
}

// Search matches the query as a case-insensitive substring of title, URL,
// description, or keywords, ordered by descending click count then title.
// Empty queries are the boundary's problem, not this engine's.
func (e *BookmarkEngine) Search(ownerID, query string, includePrivate bool) ([]types.Bookmark, error) {
	sqlQuery := `SELECT b.id, b.title, b.url, b.description, b.keywords, b.icon_url, b.category_id, b.user_id,
	       b.weight, b.is_private, b.click_count, b.last_checked, b.status_code, b.created_at, b.updated_at, c.name
	 FROM bookmarks b JOIN categories c ON b.category_id = c.id
	 WHERE b.user_id = ? AND (b.title LIKE ? OR b.url LIKE ? OR b.description LIKE ? OR b.keywords LIKE ?)`
	term := "%" + query + "%"
	args := []any{ownerID, term, term, term, term}
	if !includePrivate {
		sqlQuery += " AND b.is_private = 0"
	}
	sqlQuery += " ORDER BY b.click_count DESC, b.title"

	rows, err := e.store.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("searching bookmarks: %w", err)
	}
	defer rows.Close()
	return collectBookmarks(rows, true)
}

// Get retrieves one bookmark. Private bookmarks are only visible to their
// owner.
func (e *BookmarkEngine) Get(ownerID, id string) (*types.Bookmark, error) {
	bm, err := e.fetch(id)
	if err != nil {
		return nil, err
	}
	if bm.UserID != ownerID && bm.IsPrivate {
		return nil, &types.AccessError{Reason: "bookmark not found or access denied"}
	}
	return bm, nil
}

// Create validates and inserts a bookmark, appending it after its siblings in
// the category. A favicon is probed best-effort; probe failures never fail
// the create.
func (e *BookmarkEngine) Create(ownerID, title, url, categoryID, description, keywords string, isPrivate bool) (*types.Bookmark, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(url) == "" {
		return nil, &types.ValidationError{Reason: "title and URL are required"}
	}
	if !validURL(url) {
		return nil, &types.ValidationError{Reason: "invalid URL format"}
	}

	var catOwner string
	err := e.store.QueryRow("SELECT user_id FROM categories WHERE id = ?", categoryID).Scan(&catOwner)
	if err == sql.ErrNoRows || (err == nil && catOwner != ownerID) {
		return nil, &types.AccessError{Reason: "invalid category"}
	}
	if err != nil {
		return nil, fmt.Errorf("checking category: %w", err)
	}

	var dup string
	err = e.store.QueryRow("SELECT id FROM bookmarks WHERE url = ? AND user_id = ?", url, ownerID).Scan(&dup)
	if err == nil {
		return nil, &types.ConflictError{Reason: "bookmark with this URL already exists"}
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("checking duplicate URL: %w", err)
	}

	weight, err := e.nextWeight(ownerID, categoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	bm := &types.Bookmark{
		ID:          sqlite.NewID(),
		Title:       title,
		URL:         url,
		Description: description,
		Keywords:    keywords,
		IconURL:     e.probe.Favicon(url),
		CategoryID:  categoryID,
		UserID:      ownerID,
		Weight:      weight,
		IsPrivate:   isPrivate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err = e.store.Exec(
		`INSERT INTO bookmarks (id, title, url, description, keywords, icon_url, category_id, user_id,
		                        weight, is_private, click_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		bm.ID, bm.Title, bm.URL, bm.Description, bm.Keywords, bm.IconURL, bm.CategoryID, bm.UserID,
		bm.Weight, boolInt(bm.IsPrivate), sqlite.FormatTime(now), sqlite.FormatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting bookmark: %w", err)
	}
	return bm, nil
}

// Update applies a partial update. A URL change is re-validated for format,
// a category change for ownership; updated_at is stamped unconditionally.
func (e *BookmarkEngine) Update(ownerID, id string, patch types.BookmarkPatch) error {
	bm, err := e.fetch(id)
	if err != nil {
		return err
	}
	if bm.UserID != ownerID {
		return &types.AccessError{Reason: "bookmark not found or access denied"}
	}
	if patch.Empty() {
		return nil
	}

	var sets []string
	var args []any
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return &types.ValidationError{Reason: "title and URL are required"}
		}
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.URL != nil {
		if !validURL(*patch.URL) {
			return &types.ValidationError{Reason: "invalid URL format"}
		}
		sets = append(sets, "url = ?")
		args = append(args, *patch.URL)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Keywords != nil {
		sets = append(sets, "keywords = ?")
		args = append(args, *patch.Keywords)
	}
	if patch.CategoryID != nil {
		var catOwner string
		err := e.store.QueryRow("SELECT user_id FROM categories WHERE id = ?", *patch.CategoryID).Scan(&catOwner)
		if err == sql.ErrNoRows || (err == nil && catOwner != ownerID) {
			return &types.AccessError{Reason: "invalid category"}
		}
		if err != nil {
			return fmt.Errorf("checking category: %w", err)
		}
		sets = append(sets, "category_id = ?")
		args = append(args, *patch.CategoryID)
	}
	if patch.Weight != nil {
		sets = append(sets, "weight = ?")
		args = append(args, *patch.Weight)
	}
	if patch.IsPrivate != nil {
		sets = append(sets, "is_private = ?")
		args = append(args, boolInt(*patch.IsPrivate))
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, sqlite.FormatTime(time.Now().UTC()))
	args = append(args, id)

	if _, err := e.store.Exec("UPDATE bookmarks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		if isUniqueViolationErr(err) {
			return &types.ConflictError{Reason: "bookmark with this URL already exists"}
		}
		return fmt.Errorf("updating bookmark: %w", err)
	}
	return nil
}

// Delete removes a bookmark once ownership is confirmed.
func (e *BookmarkEngine) Delete(ownerID, id string) error {
	bm, err := e.fetch(id)
	if err != nil {
		return err
	}
	if bm.UserID != ownerID {
		return &types.AccessError{Reason: "bookmark not found or access denied"}
	}
	if _, err := e.store.Exec("DELETE FROM bookmarks WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting bookmark: %w", err)
	}
	return nil
}

// IncrementClick bumps the click counter. No ownership check: opens can be
// triggered by any viewer of a public bookmark.
func (e *BookmarkEngine) IncrementClick(id string) error {
	if _, err := e.store.Exec("UPDATE bookmarks SET click_count = click_count + 1 WHERE id = ?", id); err != nil {
		return fmt.Errorf("incrementing click count: %w", err)
	}
	return nil
}

// Reorder replaces the ordering for the supplied IDs, position as weight,
// scoped only by owner.
func (e *BookmarkEngine) Reorder(ownerID string, orderedIDs []string) error {
	err := e.store.WithTx(func(tx *sql.Tx) error {
		for i, id := range orderedIDs {
			if _, err := tx.Exec(
				"UPDATE bookmarks SET weight = ? WHERE id = ? AND user_id = ?",
				i, id, ownerID,
			); err != nil {
				return fmt.Errorf("reordering bookmark %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return &types.IntegrityError{Op: "reorder bookmarks", Err: err}
	}
	return nil
}

// CheckStatus probes the bookmark's URL and persists the status code and
// check timestamp. The recorded status is 0 when the probe fails at the
// transport level; the failure is still surfaced to the caller.
func (e *BookmarkEngine) CheckStatus(ctx context.Context, id string) (int, error) {
	bm, err := e.fetch(id)
	if err != nil {
		return 0, err
	}

	status, checkErr := e.probe.Check(ctx, bm.URL)
	if _, err := e.store.Exec(
		"UPDATE bookmarks SET status_code = ?, last_checked = ? WHERE id = ?",
		status, sqlite.FormatTime(time.Now().UTC()), id,
	); err != nil {
		return status, fmt.Errorf("recording check result: %w", err)
	}
	return status, checkErr
}

// SweepResult summarizes a bulk dead-link sweep.
type SweepResult struct {
	Checked int      `json:"checked"`
	Dead    int      `json:"dead"`
	Errors  []string `json:"errors"`
}

// CheckAll probes every bookmark of the owner with bounded concurrency.
// Individual probe failures are collected, never fatal to the sweep.
func (e *BookmarkEngine) CheckAll(ctx context.Context, ownerID string) (*SweepResult, error) {
	bookmarks, err := e.ListByOwner(ownerID, true)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Errors: []string{}}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.checkLimit)
	for _, bm := range bookmarks {
		bm := bm
		g.Go(func() error {
			status, err := e.CheckStatus(ctx, bm.ID)
			mu.Lock()
			defer mu.Unlock()
			result.Checked++
			if status >= types.DeadLinkStatus || (err != nil && status == 0) {
				result.Dead++
			}
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", bm.Title, err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Stats returns the owner's aggregate counts.
func (e *BookmarkEngine) Stats(ownerID string) (*types.Stats, error) {
	var stats types.Stats
	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM bookmarks WHERE user_id = ?", &stats.TotalBookmarks},
		{"SELECT COUNT(*) FROM categories WHERE user_id = ?", &stats.TotalCategories},
		{"SELECT COUNT(*) FROM bookmarks WHERE user_id = ? AND is_private = 1", &stats.PrivateBookmarks},
		{"SELECT COUNT(*) FROM bookmarks WHERE user_id = ? AND status_code >= 400", &stats.DeadLinks},
	}
	for _, c := range counts {
		if err := e.store.QueryRow(c.query, ownerID).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("counting stats: %w", err)
		}
	}
	return &stats, nil
}

func (e *BookmarkEngine) fetch(id string) (*types.Bookmark, error) {
	row := e.store.QueryRow("SELECT "+bookmarkColumns+" FROM bookmarks WHERE id = ?", id)
	bm, err := scanBookmark(row, false)
	if err == sql.ErrNoRows {
		return nil, &types.NotFoundError{Entity: "bookmark"}
	}
	if err != nil {
		return nil, fmt.Errorf("getting bookmark %s: %w", id, err)
	}
	return bm, nil
}

func (e *BookmarkEngine) nextWeight(ownerID, categoryID string) (int, error) {
	var max sql.NullInt64
	err := e.store.QueryRow(
		"SELECT MAX(weight) FROM bookmarks WHERE category_id = ? AND user_id = ?",
		categoryID, ownerID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("computing next weight: %w", err)
	}
	return int(max.Int64) + 1, nil
}

// validURL reports whether raw parses as an absolute URL with a host.
func validURL(raw string) bool {
	u, err := neturl.Parse(raw)
	return err == nil && u.IsAbs() && u.Host != ""
}

func scanBookmark(s scanner, withCategoryName bool) (*types.Bookmark, error) {
	var b types.Bookmark
	var desc, keywords, icon, lastChecked sql.NullString
	var status sql.NullInt64
	var private int
	var created, updated string

	dest := []any{&b.ID, &b.Title, &b.URL, &desc, &keywords, &icon, &b.CategoryID, &b.UserID,
		&b.Weight, &private, &b.ClickCount, &lastChecked, &status, &created, &updated}
	if withCategoryName {
		dest = append(dest, &b.CategoryName)
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	b.Description = desc.String
	b.Keywords = keywords.String
	b.IconURL = icon.String
	b.IsPrivate = private != 0
	if lastChecked.Valid {
		t := sqlite.ParseTime(lastChecked.String)
		b.LastChecked = &t
	}
	if status.Valid {
		code := int(status.Int64)
		b.StatusCode = &code
	}
	b.CreatedAt = sqlite.ParseTime(created)
	b.UpdatedAt = sqlite.ParseTime(updated)
	return &b, nil
}

func collectBookmarks(rows *sql.Rows, withCategoryName bool) ([]types.Bookmark, error) {
	bookmarks := []types.Bookmark{}
	for rows.Next() {
		b, err := scanBookmark(rows, withCategoryName)
		if err != nil {
			return nil, fmt.Errorf("hydrating bookmark: %w", err)
		}
		bookmarks = append(bookmarks, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookmarks: %w", err)
	}
	return bookmarks, nil
}

// isUniqueViolationErr reports whether err is a UNIQUE constraint failure on
// the per-owner URL index.
func isUniqueViolationErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
