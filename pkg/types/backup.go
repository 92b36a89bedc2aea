package types

import "time"

// Backup type tags.
const (
	BackupTypeFull = "full"

	// SnapshotTypeFull is the metadata type tag of a native snapshot. The tag
	// is shared with the legacy deployments this tool restores from, so it is
	// kept verbatim.
	SnapshotTypeFull = "onebooknav_full"

	// SnapshotVersion is the format version written into snapshot metadata.
	SnapshotVersion = "1.0.0"
)

// BackupRecord is the ledger entry for one snapshot file. The payload itself
// lives on disk under the configured backup directory.
type BackupRecord struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	Type      string    `json:"backup_type"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// SnapshotMetadata is the header of a snapshot document.
type SnapshotMetadata struct {
	Version         string `json:"version"`
	Type            string `json:"type"`
	CreatedAt       string `json:"created_at"`
	CreatedBy       string `json:"created_by"`
	Description     string `json:"description,omitempty"`
	TotalUsers      int    `json:"total_users"`
	TotalCategories int    `json:"total_categories"`
	TotalBookmarks  int    `json:"total_bookmarks"`
}

// SnapshotData is the full dataset carried by a snapshot. Categories and
// bookmarks round-trip losslessly; users ride along without password hashes.
type SnapshotData struct {
	Users      []User     `json:"users"`
	Categories []Category `json:"categories"`
	Bookmarks  []Bookmark `json:"bookmarks"`
	Settings   []Setting  `json:"settings"`
}

// Snapshot is a complete backup document.
type Snapshot struct {
	Metadata SnapshotMetadata `json:"metadata"`
	Data     SnapshotData     `json:"data"`
}

// Setting is one public site setting included in snapshots.
type Setting struct {
	Key      string `json:"setting_key"`
	Value    string `json:"setting_value"`
	Type     string `json:"setting_type"`
	IsPublic bool   `json:"is_public"`
}

// ImportResult is the shared outcome contract of every import adapter.
// Errors collects per-record failures that were skipped without aborting the
// import; a fatal failure aborts the whole import and is returned as an error
// instead.
type ImportResult struct {
	Categories int      `json:"categories"`
	Bookmarks  int      `json:"bookmarks"`
	Errors     []string `json:"errors"`
}

// RestoreStats is the outcome of a backup restore.
type RestoreStats struct {
	Users      int      `json:"users"`
	Categories int      `json:"categories"`
	Bookmarks  int      `json:"bookmarks"`
	Errors     []string `json:"errors"`
}
