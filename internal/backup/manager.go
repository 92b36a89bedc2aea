// Package backup creates, lists, restores, and exports snapshots of the
// store. A snapshot is a single JSON document carrying every user, category,
// bookmark, and public setting; a ledger row in the store tracks each file.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/linkshelf/internal/sqlite"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

// Manager owns the snapshot directory and the backup ledger.
type Manager struct {
	store    *sqlite.Store
	dir      string
	maxFiles int
	webdav   *WebDAVClient // nil when remote copies are disabled
}

// NewManager creates a backup manager writing snapshots under dir and keeping
// at most maxFiles of them. A non-nil webdav client with auto upload enabled
// receives a copy of every snapshot.
func NewManager(store *sqlite.Store, dir string, maxFiles int, webdav *WebDAVClient) *Manager {
	return &Manager{store: store, dir: dir, maxFiles: maxFiles, webdav: webdav}
}

// Snapshot assembles the full dataset without touching disk.
func (m *Manager) Snapshot(createdBy, description string) (*types.Snapshot, error) {
	users, err := m.store.Users()
	if err != nil {
		return nil, err
	}
	categories, err := m.store.AllCategories()
	if err != nil {
		return nil, err
	}
	bookmarks, err := m.store.AllBookmarks()
	if err != nil {
		return nil, err
	}
	settings, err := m.store.PublicSettings()
	if err != nil {
		return nil, err
	}

	return &types.Snapshot{
		Metadata: types.SnapshotMetadata{
			Version:         types.SnapshotVersion,
			Type:            types.SnapshotTypeFull,
			CreatedAt:       time.Now().UTC().Format(time.RFC3339),
			CreatedBy:       createdBy,
			Description:     description,
			TotalUsers:      len(users),
			TotalCategories: len(categories),
			TotalBookmarks:  len(bookmarks),
		},
		Data: types.SnapshotData{
			Users:      users,
			Categories: categories,
			Bookmarks:  bookmarks,
			Settings:   settings,
		},
	}, nil
}

// Create writes a snapshot file, records it in the ledger, optionally uploads
// it, and prunes the directory down to the retention limit. A failure after
// the file is written removes the partial file.
func (m *Manager) Create(createdBy, description string) (*types.BackupRecord, error) {
	snap, err := m.Snapshot(createdBy, description)
	if err != nil {
		return nil, &types.IntegrityError{Op: "create backup", Err: err}
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, &types.IntegrityError{Op: "create backup", Err: err}
	}

	filename := fmt.Sprintf("linkshelf_backup_%s.json", time.Now().UTC().Format("2006-01-02_15-04-05"))
	path := filepath.Join(m.dir, filename)

	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, &types.IntegrityError{Op: "create backup", Err: err}
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return nil, &types.IntegrityError{Op: "create backup", Err: err}
	}

	record := &types.BackupRecord{
		Filename:  filename,
		Size:      int64(len(payload)),
		Type:      types.BackupTypeFull,
		CreatedBy: createdBy,
	}
	if err := m.store.InsertBackupRecord(record); err != nil {
		os.Remove(path)
		return nil, &types.IntegrityError{Op: "create backup", Err: err}
	}

	if m.webdav != nil && m.webdav.autoUpload {
		// The remote copy is part of the backup: a failed upload undoes the
		// local snapshot so the failure cannot go unnoticed.
		if err := m.webdav.Upload(filename, payload); err != nil {
			os.Remove(path)
			_ = m.store.DeleteBackupRecord(record.ID)
			return nil, &types.IntegrityError{Op: "create backup", Err: err}
		}
	}

	if err := m.prune(); err != nil {
		return record, err
	}
	return record, nil
}

// List returns the ledger, newest first.
func (m *Manager) List() ([]types.BackupRecord, error) {
	return m.store.Backups()
}

// prune deletes the oldest snapshots beyond the retention limit, removing
// both the file and its ledger row.
func (m *Manager) prune() error {
	records, err := m.store.Backups()
	if err != nil {
		return err
	}
	if len(records) <= m.maxFiles {
		return nil
	}

	// Backups() is newest-first, so everything past maxFiles is oldest.
	for _, old := range records[m.maxFiles:] {
		if err := os.Remove(filepath.Join(m.dir, old.Filename)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("pruning backup %s: %w", old.Filename, err)
		}
		if err := m.store.DeleteBackupRecord(old.ID); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile loads a snapshot file from the backup directory. The filename is
// resolved against the directory only; path components are rejected.
func (m *Manager) ReadFile(filename string) ([]byte, error) {
	if filepath.Base(filename) != filename {
		return nil, &types.ValidationError{Reason: "invalid backup filename"}
	}
	data, err := os.ReadFile(filepath.Join(m.dir, filename))
	if os.IsNotExist(err) {
		return nil, &types.NotFoundError{Entity: "backup"}
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup %s: %w", filename, err)
	}
	return data, nil
}
