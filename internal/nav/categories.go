// Package nav implements the category tree and bookmark engines. Every
// operation takes an already-resolved owner ID; multi-step mutations run
// inside one transaction scope on the store.
package nav

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/linkshelf/internal/sqlite"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

const categoryColumns = "id, name, parent_id, user_id, icon, color, weight, is_private, created_at"

// CategoryEngine manages an owner's category forest.
type CategoryEngine struct {
	store *sqlite.Store
}

// NewCategoryEngine creates a category engine on the given store.
func NewCategoryEngine(store *sqlite.Store) *CategoryEngine {
	return &CategoryEngine{store: store}
}

// List returns the owner's category forest. An owner with no categories gets
// an empty forest, not an error.
func (e *CategoryEngine) List(ownerID string, includePrivate bool) ([]*types.CategoryNode, error) {
	query := "SELECT " + categoryColumns + " FROM categories WHERE user_id = ?"
	if !includePrivate {
		query += " AND is_private = 0"
	}
	query += " ORDER BY parent_id, weight, name"

	rows, err := e.store.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}
	defer rows.Close()

	cats, err := collectCategories(rows)
	if err != nil {
		return nil, err
	}
	return BuildForest(cats), nil
}

// ListPublic returns the public categories of every owner, annotated with the
// owning username.
func (e *CategoryEngine) ListPublic() ([]*types.CategoryNode, error) {
	rows, err := e.store.Query(
		`SELECT c.id, c.name, c.parent_id, c.user_id, c.icon, c.color, c.weight, c.is_private, c.created_at, u.username
		 FROM categories c JOIN users u ON c.user_id = u.id
		 WHERE c.is_private = 0
		 ORDER BY c.parent_id, c.weight, c.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching public categories: %w", err)
	}
	defer rows.Close()

	var cats []types.Category
	for rows.Next() {
		c, err := scanCategoryRow(rows, true)
		if err != nil {
			return nil, err
		}
		cats = append(cats, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating public categories: %w", err)
	}
	return BuildForest(cats), nil
}

// Get retrieves one category. Private categories are only visible to their
// owner; public ones are readable by anyone, including guests (empty owner).
func (e *CategoryEngine) Get(ownerID, id string) (*types.Category, error) {
	cat, err := e.fetch(id)
	if err != nil {
		return nil, err
	}
	if cat.UserID != ownerID && cat.IsPrivate {
		return nil, &types.AccessError{Reason: "category not found or access denied"}
	}
	return cat, nil
}

// Create adds a category for the owner. The new category is appended after
// its siblings: weight = max sibling weight + 1.
func (e *CategoryEngine) Create(ownerID, name string, parentID *string, icon, color string, isPrivate bool) (*types.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &types.ValidationError{Reason: "category name is required"}
	}
	if parentID != nil {
		if err := e.checkParent(ownerID, *parentID); err != nil {
			return nil, err
		}
	}

	weight, err := e.nextWeight(ownerID, parentID)
	if err != nil {
		return nil, err
	}

	cat := &types.Category{
		ID:        sqlite.NewID(),
		Name:      name,
		ParentID:  parentID,
		UserID:    ownerID,
		Icon:      icon,
		Color:     color,
		Weight:    weight,
		IsPrivate: isPrivate,
		CreatedAt: time.Now().UTC(),
	}
	_, err = e.store.Exec(
		`INSERT INTO categories (id, name, parent_id, user_id, icon, color, weight, is_private, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, nullable(cat.ParentID), cat.UserID, cat.Icon, cat.Color,
		cat.Weight, boolInt(cat.IsPrivate), sqlite.FormatTime(cat.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting category: %w", err)
	}
	return cat, nil
}

// Update applies a partial update. A parent change walks the new parent's
// ancestor chain first; if the category itself appears there the change would
// create a cycle and is rejected.
func (e *CategoryEngine) Update(ownerID, id string, patch types.CategoryPatch) error {
	cat, err := e.fetch(id)
	if err != nil {
		return err
	}
	if cat.UserID != ownerID {
		return &types.AccessError{Reason: "category not found or access denied"}
	}
	if patch.Empty() {
		return nil
	}

	if patch.SetParent && patch.ParentID != nil {
		if err := e.checkParent(ownerID, *patch.ParentID); err != nil {
			return err
		}
		circular, err := e.wouldCreateCircular(id, *patch.ParentID)
		if err != nil {
			return err
		}
		if circular {
			return &types.ValidationError{Reason: "invalid parent category - would create circular reference"}
		}
	}

	var sets []string
	var args []any
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return &types.ValidationError{Reason: "category name is required"}
		}
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.SetParent {
		sets = append(sets, "parent_id = ?")
		args = append(args, nullable(patch.ParentID))
	}
	if patch.Icon != nil {
		sets = append(sets, "icon = ?")
		args = append(args, *patch.Icon)
	}
	if patch.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *patch.Color)
	}
	if patch.Weight != nil {
		sets = append(sets, "weight = ?")
		args = append(args, *patch.Weight)
	}
	if patch.IsPrivate != nil {
		sets = append(sets, "is_private = ?")
		args = append(args, boolInt(*patch.IsPrivate))
	}

	args = append(args, id)
	_, err = e.store.Exec("UPDATE categories SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	return nil
}

// Delete removes a category atomically: children are reparented to the
// deleted node's parent, its bookmarks move to the owner's Uncategorized
// sentinel, and only then is the row deleted. All three steps commit together
// or not at all.
func (e *CategoryEngine) Delete(ownerID, id string) error {
	cat, err := e.fetch(id)
	if err != nil {
		return err
	}
	if cat.UserID != ownerID {
		return &types.AccessError{Reason: "category not found or access denied"}
	}

	err = e.store.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("UPDATE categories SET parent_id = ? WHERE parent_id = ?", nullable(cat.ParentID), id); err != nil {
			return fmt.Errorf("reparenting children: %w", err)
		}

		sentinelID, err := EnsureSentinel(tx, ownerID, types.UncategorizedName, "fas fa-folder", types.UncategorizedWeight)
		if err != nil {
			return err
		}

		if _, err := tx.Exec("UPDATE bookmarks SET category_id = ? WHERE category_id = ?", sentinelID, id); err != nil {
			return fmt.Errorf("moving bookmarks: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM categories WHERE id = ?", id); err != nil {
			return fmt.Errorf("deleting category: %w", err)
		}
		return nil
	})
	if err != nil {
		return &types.IntegrityError{Op: "delete category", Err: err}
	}
	return nil
}

// Reorder replaces the ordering for the supplied IDs: each gets weight equal
// to its position in the list. Updates are filtered by owner per row, so IDs
// the caller does not own are silently skipped rather than failing the call.
func (e *CategoryEngine) Reorder(ownerID string, orderedIDs []string) error {
	err := e.store.WithTx(func(tx *sql.Tx) error {
		for i, id := range orderedIDs {
			if _, err := tx.Exec(
				"UPDATE categories SET weight = ? WHERE id = ? AND user_id = ?",
				i, id, ownerID,
			); err != nil {
				return fmt.Errorf("reordering category %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return &types.IntegrityError{Op: "reorder categories", Err: err}
	}
	return nil
}

// fetch retrieves a category row without any ownership filter.
func (e *CategoryEngine) fetch(id string) (*types.Category, error) {
	row := e.store.QueryRow("SELECT "+categoryColumns+" FROM categories WHERE id = ?", id)
	cat, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, &types.NotFoundError{Entity: "category"}
	}
	if err != nil {
		return nil, fmt.Errorf("getting category %s: %w", id, err)
	}
	return cat, nil
}

// checkParent verifies that a prospective parent exists and belongs to the
// owner.
func (e *CategoryEngine) checkParent(ownerID, parentID string) error {
	parent, err := e.fetch(parentID)
	if err != nil {
		if types.IsNotFound(err) {
			return &types.ValidationError{Reason: "invalid parent category"}
		}
		return err
	}
	if parent.UserID != ownerID {
		return &types.ValidationError{Reason: "invalid parent category"}
	}
	return nil
}

// wouldCreateCircular walks parent links upward from newParentID. Reaching
// categoryID means the reassignment would close a cycle; reaching a root
// means it is safe. O(depth) per call, acceptable for user-authored trees.
func (e *CategoryEngine) wouldCreateCircular(categoryID, newParentID string) (bool, error) {
	current := &newParentID
	for current != nil {
		if *current == categoryID {
			return true, nil
		}
		var parent sql.NullString
		err := e.store.QueryRow("SELECT parent_id FROM categories WHERE id = ?", *current).Scan(&parent)
		if err == sql.ErrNoRows {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("walking ancestor chain: %w", err)
		}
		if !parent.Valid {
			return false, nil
		}
		current = &parent.String
	}
	return false, nil
}

// nextWeight returns max sibling weight + 1 for the given parent scope.
func (e *CategoryEngine) nextWeight(ownerID string, parentID *string) (int, error) {
	var max sql.NullInt64
	var err error
	if parentID == nil {
		err = e.store.QueryRow(
			"SELECT MAX(weight) FROM categories WHERE parent_id IS NULL AND user_id = ?",
			ownerID,
		).Scan(&max)
	} else {
		err = e.store.QueryRow(
			"SELECT MAX(weight) FROM categories WHERE parent_id = ? AND user_id = ?",
			*parentID, ownerID,
		).Scan(&max)
	}
	if err != nil {
		return 0, fmt.Errorf("computing next weight: %w", err)
	}
	return int(max.Int64) + 1, nil
}

// EnsureSentinel returns the owner's sentinel category with the given name,
// creating it lazily inside the caller's transaction. Import and restore
// paths share it for their "Imported" fallback.
func EnsureSentinel(tx *sql.Tx, ownerID, name, icon string, weight int) (string, error) {
	var id string
	err := tx.QueryRow(
		"SELECT id FROM categories WHERE name = ? AND user_id = ? AND parent_id IS NULL",
		name, ownerID,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("finding %s category: %w", name, err)
	}

	id = sqlite.NewID()
	_, err = tx.Exec(
		`INSERT INTO categories (id, name, parent_id, user_id, icon, color, weight, is_private, created_at)
		 VALUES (?, ?, NULL, ?, ?, '', ?, 0, ?)`,
		id, name, ownerID, icon, weight, sqlite.FormatTime(time.Now().UTC()),
	)
	if err != nil {
		return "", fmt.Errorf("creating %s category: %w", name, err)
	}
	return id, nil
}

// scanner abstracts sql.Row and sql.Rows for hydration helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(s scanner) (*types.Category, error) {
	return scanCategoryRow(s, false)
}

func scanCategoryRow(s scanner, withUsername bool) (*types.Category, error) {
	var c types.Category
	var parent, icon, color sql.NullString
	var private int
	var created string

	dest := []any{&c.ID, &c.Name, &parent, &c.UserID, &icon, &color, &c.Weight, &private, &created}
	if withUsername {
		dest = append(dest, &c.Username)
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if parent.Valid {
		c.ParentID = &parent.String
	}
	c.Icon = icon.String
	c.Color = color.String
	c.IsPrivate = private != 0
	c.CreatedAt = sqlite.ParseTime(created)
	return &c, nil
}

func collectCategories(rows *sql.Rows) ([]types.Category, error) {
	var cats []types.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating category: %w", err)
		}
		cats = append(cats, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return cats, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
