package types

import "time"

// DeadLinkStatus is the lowest status code treated as a dead link.
const DeadLinkStatus = 400

// Bookmark is a stored URL. Every bookmark belongs to exactly one category
// owned by the same user; the URL is unique per owner.
type Bookmark struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description string     `json:"description,omitempty"`
	Keywords    string     `json:"keywords,omitempty"`
	IconURL     string     `json:"icon_url,omitempty"`
	CategoryID  string     `json:"category_id"`
	UserID      string     `json:"user_id"`
	Weight      int        `json:"weight"`
	IsPrivate   bool       `json:"is_private"`
	ClickCount  int        `json:"click_count"`
	LastChecked *time.Time `json:"last_checked,omitempty"`
	StatusCode  *int       `json:"status_code,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// CategoryName is populated by listings joined with the categories table.
	CategoryName string `json:"category_name,omitempty"`
}

// Dead reports whether the last liveness probe flagged this bookmark.
func (b *Bookmark) Dead() bool {
	return b.StatusCode != nil && *b.StatusCode >= DeadLinkStatus
}

// BookmarkPatch is a partial update for a bookmark. Nil fields are left
// unchanged.
type BookmarkPatch struct {
	Title       *string
	URL         *string
	Description *string
	Keywords    *string
	CategoryID  *string
	Weight      *int
	IsPrivate   *bool
}

// Empty reports whether the patch changes nothing.
func (p BookmarkPatch) Empty() bool {
	return p.Title == nil && p.URL == nil && p.Description == nil &&
		p.Keywords == nil && p.CategoryID == nil && p.Weight == nil &&
		p.IsPrivate == nil
}

// Stats aggregates an owner's bookmark counts.
type Stats struct {
	TotalBookmarks   int `json:"total_bookmarks"`
	TotalCategories  int `json:"total_categories"`
	PrivateBookmarks int `json:"private_bookmarks"`
	DeadLinks        int `json:"dead_links"`
}
