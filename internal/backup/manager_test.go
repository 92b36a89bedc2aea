// Tests for snapshot creation, retention pruning, format detection, and the
// export/restore round trip.
package backup

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/linkshelf/internal/nav"
	"github.com/mesh-intelligence/linkshelf/internal/sqlite"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

type fixture struct {
	store      *sqlite.Store
	categories *nav.CategoryEngine
	bookmarks  *nav.BookmarkEngine
	manager    *Manager
	exporter   *Exporter
	backupDir  string
}

func newFixture(t *testing.T, maxFiles int) *fixture {
	t.Helper()
	dir := t.TempDir()
	store, err := sqlite.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	categories := nav.NewCategoryEngine(store)
	bookmarks := nav.NewBookmarkEngine(store, nav.NewProber(time.Millisecond, time.Second), 1)
	backupDir := filepath.Join(dir, "backups")
	return &fixture{
		store:      store,
		categories: categories,
		bookmarks:  bookmarks,
		manager:    NewManager(store, backupDir, maxFiles, nil),
		exporter:   NewExporter(categories, bookmarks),
		backupDir:  backupDir,
	}
}

func (f *fixture) newUser(t *testing.T, username string) string {
	t.Helper()
	u := &types.User{Username: username, PasswordHash: "x"}
	require.NoError(t, f.store.CreateUser(u))
	return u.ID
}

// seed creates a small tree with one bookmark and returns the owner ID.
func (f *fixture) seed(t *testing.T, username string) string {
	t.Helper()
	owner := f.newUser(t, username)
	root, err := f.categories.Create(owner, "Dev", nil, "fas fa-code", "", false)
	require.NoError(t, err)
	child, err := f.categories.Create(owner, "Go", &root.ID, "", "", true)
	require.NoError(t, err)
	_, err = f.bookmarks.Create(owner, "Go blog", "https://go.dev/blog", child.ID, "releases", "golang", true)
	require.NoError(t, err)
	return owner
}

func TestManagerCreate(t *testing.T) {
	f := newFixture(t, 10)
	f.seed(t, "alice")

	record, err := f.manager.Create("alice", "nightly")
	require.NoError(t, err)
	assert.Equal(t, types.BackupTypeFull, record.Type)
	assert.Equal(t, "alice", record.CreatedBy)
	assert.Positive(t, record.Size)

	// The file exists and carries the expected envelope.
	payload, err := os.ReadFile(filepath.Join(f.backupDir, record.Filename))
	require.NoError(t, err)

	var snap types.Snapshot
	require.NoError(t, json.Unmarshal(payload, &snap))
	assert.Equal(t, types.SnapshotTypeFull, snap.Metadata.Type)
	assert.Equal(t, "nightly", snap.Metadata.Description)
	assert.Equal(t, 1, snap.Metadata.TotalUsers)
	assert.Equal(t, 2, snap.Metadata.TotalCategories)
	assert.Equal(t, 1, snap.Metadata.TotalBookmarks)
	assert.Len(t, snap.Data.Bookmarks, 1)

	records, err := f.manager.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.Filename, records[0].Filename)
}

func TestManagerPrune(t *testing.T) {
	f := newFixture(t, 2)
	f.seed(t, "alice")

	var filenames []string
	for i := 0; i < 4; i++ {
		record, err := f.manager.Create("alice", "")
		require.NoError(t, err)
		filenames = append(filenames, record.Filename)
		// Ledger ordering is by created_at text; keep timestamps distinct.
		time.Sleep(1100 * time.Millisecond)
	}

	records, err := f.manager.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, filenames[3], records[0].Filename)
	assert.Equal(t, filenames[2], records[1].Filename)

	// Pruned files are gone from disk, survivors remain.
	for _, gone := range filenames[:2] {
		_, err := os.Stat(filepath.Join(f.backupDir, gone))
		assert.True(t, os.IsNotExist(err))
	}
	for _, kept := range filenames[2:] {
		_, err := os.Stat(filepath.Join(f.backupDir, kept))
		assert.NoError(t, err)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		wantErr bool
	}{
		{
			name:    "full snapshot envelope",
			payload: `{"metadata":{"type":"onebooknav_full"},"data":{"users":[]}}`,
			want:    KindFull,
		},
		{
			name:    "flat export document",
			payload: `{"categories":[{"id":"c1","name":"Dev"}],"bookmarks":[]}`,
			want:    KindExport,
		},
		{
			name:    "unknown structure",
			payload: `{"whatever": true}`,
			wantErr: true,
		},
		{
			name:    "not json",
			payload: `PK\x03\x04 zipfile`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := Detect([]byte(tt.payload))
			if tt.wantErr {
				assert.True(t, types.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestRestoreFromSnapshot(t *testing.T) {
	source := newFixture(t, 10)
	source.seed(t, "alice")

	snap, err := source.manager.Snapshot("alice", "")
	require.NoError(t, err)
	payload, err := json.Marshal(snap)
	require.NoError(t, err)

	target := newFixture(t, 10)
	owner := target.newUser(t, "bob")

	stats, err := target.manager.Restore(owner, payload, "")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Categories)
	assert.Equal(t, 1, stats.Bookmarks)
	assert.Empty(t, stats.Errors)

	// The hierarchy survives with fresh ids under the new owner.
	forest, err := target.categories.List(owner, true)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "Dev", forest[0].Name)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "Go", forest[0].Children[0].Name)

	restored, err := target.bookmarks.ListByOwner(owner, true)
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.Equal(t, "Go blog", restored[0].Title)
	assert.Equal(t, owner, restored[0].UserID)
}

func TestManagerCreateUploadsWhenAutoBackupOn(t *testing.T) {
	f := newFixture(t, 10)
	f.seed(t, "alice")

	var puts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			puts++
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	m := NewManager(f.store, f.backupDir, 10, NewWebDAVClient(types.WebDAVConfig{
		Enabled:    true,
		AutoBackup: true,
		URL:        srv.URL,
	}))
	_, err := m.Create("alice", "")
	require.NoError(t, err)
	assert.Equal(t, 1, puts)

	// With auto backup off the endpoint is never called.
	m = NewManager(f.store, f.backupDir, 10, NewWebDAVClient(types.WebDAVConfig{
		Enabled: true,
		URL:     srv.URL,
	}))
	_, err = m.Create("alice", "")
	require.NoError(t, err)
	assert.Equal(t, 1, puts)
}

func TestManagerCreateUploadFailureUndoesSnapshot(t *testing.T) {
	f := newFixture(t, 10)
	f.seed(t, "alice")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewManager(f.store, f.backupDir, 10, NewWebDAVClient(types.WebDAVConfig{
		Enabled:    true,
		AutoBackup: true,
		URL:        srv.URL,
	}))
	_, err := m.Create("alice", "")
	require.Error(t, err)

	// Neither the ledger row nor the file survives the failed upload.
	records, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, records)
	entries, err := os.ReadDir(f.backupDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRestoreFiltersBySourceOwner(t *testing.T) {
	source := newFixture(t, 10)
	source.seed(t, "alice")
	other := source.newUser(t, "carol")
	_, err := source.categories.Create(other, "Carol stuff", nil, "", "", false)
	require.NoError(t, err)

	snap, err := source.manager.Snapshot("alice", "")
	require.NoError(t, err)
	payload, err := json.Marshal(snap)
	require.NoError(t, err)

	target := newFixture(t, 10)
	owner := target.newUser(t, "bob")

	// Filtering by username keeps only alice's rows.
	stats, err := target.manager.Restore(owner, payload, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Categories)
	assert.Equal(t, 1, stats.Bookmarks)

	forest, err := target.categories.List(owner, true)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "Dev", forest[0].Name)
}

func TestRestoreFromExport(t *testing.T) {
	source := newFixture(t, 10)
	sourceOwner := source.seed(t, "alice")

	payload, contentType, err := source.exporter.Export(sourceOwner, FormatJSON, true)
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	target := newFixture(t, 10)
	owner := target.newUser(t, "bob")

	stats, err := target.manager.Restore(owner, payload, "")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Categories)
	assert.Equal(t, 1, stats.Bookmarks)
}

func TestRestoreSkipsDanglingBookmarks(t *testing.T) {
	f := newFixture(t, 10)
	owner := f.newUser(t, "alice")

	payload := `{"categories":[{"id":"c1","name":"Dev"}],
		"bookmarks":[
			{"id":"b1","title":"Kept","url":"https://kept.example/","category_id":"c1"},
			{"id":"b2","title":"Dangling","url":"https://lost.example/","category_id":"gone"}
		]}`

	stats, err := f.manager.Restore(owner, []byte(payload), "")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Bookmarks)
	require.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0], "Dangling")
}
