package types

import "time"

// Sentinel category names. Uncategorized absorbs bookmarks orphaned by a
// category deletion; Imported absorbs records whose source category could not
// be resolved during an import.
const (
	UncategorizedName = "Uncategorized"
	ImportedName      = "Imported"
)

// UncategorizedWeight forces the sentinel category to the end of the ordering.
const UncategorizedWeight = 999999

// Category is one node of an owner's category forest. A nil ParentID marks a
// root. The parent graph is kept acyclic by the category engine.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id"`
	UserID    string    `json:"user_id"`
	Icon      string    `json:"icon,omitempty"`
	Color     string    `json:"color,omitempty"`
	Weight    int       `json:"weight"`
	IsPrivate bool      `json:"is_private"`
	CreatedAt time.Time `json:"created_at"`

	// Username is populated only by public listings, where categories from
	// several owners are mixed.
	Username string `json:"username,omitempty"`
}

// CategoryNode is a category with its resolved children. Forests are built
// from a flat row slice by BuildForest; nodes are not shared or aliased.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}

// CategoryPatch is a partial update for a category. Nil fields are left
// unchanged. A parent change is signalled explicitly through SetParent so
// that moving a category to the root (ParentID nil) is distinguishable from
// not touching the parent at all.
type CategoryPatch struct {
	Name      *string
	SetParent bool
	ParentID  *string
	Icon      *string
	Color     *string
	Weight    *int
	IsPrivate *bool
}

// Empty reports whether the patch changes nothing.
func (p CategoryPatch) Empty() bool {
	return p.Name == nil && !p.SetParent && p.Icon == nil &&
		p.Color == nil && p.Weight == nil && p.IsPrivate == nil
}
