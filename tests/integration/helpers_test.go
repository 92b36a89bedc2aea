// Package integration provides shared helpers for the full-stack tests:
// a wired application (store, engines, backup manager) on a temp directory.
package integration

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mesh-intelligence/linkshelf/internal/backup"
	"github.com/mesh-intelligence/linkshelf/internal/importer"
	"github.com/mesh-intelligence/linkshelf/internal/nav"
	"github.com/mesh-intelligence/linkshelf/internal/sqlite"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

// testApp mirrors the wiring the CLI performs in openApp.
type testApp struct {
	store      *sqlite.Store
	categories *nav.CategoryEngine
	bookmarks  *nav.BookmarkEngine
	backups    *backup.Manager
	exporter   *backup.Exporter
	importer   *importer.Driver
	dataDir    string
}

// newTestApp builds a complete application on an isolated temp directory.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	dir := t.TempDir()
	store, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	categories := nav.NewCategoryEngine(store)
	prober := nav.NewProber(time.Millisecond, time.Second)
	bookmarks := nav.NewBookmarkEngine(store, prober, 2)
	manager := backup.NewManager(store, dir+"/backups", 10, nil)

	return &testApp{
		store:      store,
		categories: categories,
		bookmarks:  bookmarks,
		backups:    manager,
		exporter:   backup.NewExporter(categories, bookmarks),
		importer:   importer.NewDriver(store),
		dataDir:    dir,
	}
}

// mustCreateUser creates a user and returns its ID.
func mustCreateUser(t *testing.T, app *testApp, username string) string {
	t.Helper()
	hash, err := sqlite.HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u := &types.User{Username: username, PasswordHash: hash}
	if err := app.store.CreateUser(u); err != nil {
		t.Fatalf("CreateUser(%q): %v", username, err)
	}
	return u.ID
}

// mustCreateCategory creates a category and returns it.
func mustCreateCategory(t *testing.T, app *testApp, owner, name string, parentID *string) *types.Category {
	t.Helper()
	cat, err := app.categories.Create(owner, name, parentID, "", "", false)
	if err != nil {
		t.Fatalf("Create category %q: %v", name, err)
	}
	return cat
}

// mustCreateBookmark creates a bookmark and returns it.
func mustCreateBookmark(t *testing.T, app *testApp, owner, title, url, categoryID string) *types.Bookmark {
	t.Helper()
	bm, err := app.bookmarks.Create(owner, title, url, categoryID, "", "", false)
	if err != nil {
		t.Fatalf("Create bookmark %q: %v", title, err)
	}
	return bm
}

// countForest returns the total number of categories in a forest.
func countForest(nodes []*types.CategoryNode) int {
	n := len(nodes)
	for _, node := range nodes {
		n += countForest(node.Children)
	}
	return n
}

// newProbeServer serves /ok with 200 and everything else with 410.
func newProbeServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusGone)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// findNode locates a category by name anywhere in a forest.
func findNode(nodes []*types.CategoryNode, name string) *types.CategoryNode {
	for _, node := range nodes {
		if node.Name == name {
			return node
		}
		if found := findNode(node.Children, name); found != nil {
			return found
		}
	}
	return nil
}
