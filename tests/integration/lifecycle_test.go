// Full-stack lifecycle tests: users, category trees, bookmarks, browser
// import, export round-trips, and backup/restore across users.
package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mesh-intelligence/linkshelf/internal/backup"
	"github.com/mesh-intelligence/linkshelf/internal/importer"
)

// TestShelfLifecycle walks the complete happy path a new installation goes
// through: create a user, build a tree, add bookmarks, search, reorder,
// back the data up, and restore it into a second account.
func TestShelfLifecycle(t *testing.T) {
	app := newTestApp(t)
	alice := mustCreateUser(t, app, "alice")

	// Build a two-level tree with bookmarks.
	dev := mustCreateCategory(t, app, alice, "Dev", nil)
	golang := mustCreateCategory(t, app, alice, "Go", &dev.ID)
	reading := mustCreateCategory(t, app, alice, "Reading", nil)

	mustCreateBookmark(t, app, alice, "Go blog", "https://go.dev/blog", golang.ID)
	mustCreateBookmark(t, app, alice, "Go spec", "https://go.dev/ref/spec", golang.ID)
	news := mustCreateBookmark(t, app, alice, "Hacker News", "https://news.ycombinator.com/", reading.ID)

	// Search spans title, URL, and keywords.
	hits, err := app.bookmarks.Search(alice, "go.dev", true)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("search hits = %d, want 2", len(hits))
	}

	// Click tracking is anonymous and monotonic.
	for i := 0; i < 3; i++ {
		if err := app.bookmarks.IncrementClick(news.ID); err != nil {
			t.Fatalf("IncrementClick: %v", err)
		}
	}
	got, err := app.bookmarks.Get(alice, news.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ClickCount != 3 {
		t.Errorf("click count = %d, want 3", got.ClickCount)
	}

	// Deleting a parent reparents children and rescues bookmarks.
	if err := app.categories.Delete(alice, dev.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	forest, err := app.categories.List(alice, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if findNode(forest, "Go") == nil {
		t.Fatal("child category lost after parent deletion")
	}
	if findNode(forest, "Dev") != nil {
		t.Fatal("deleted category still present")
	}

	// Snapshot everything and restore into a fresh account.
	record, err := app.backups.Create(alice, "nightly")
	if err != nil {
		t.Fatalf("backup Create: %v", err)
	}
	payload, err := os.ReadFile(filepath.Join(app.dataDir, "backups", record.Filename))
	if err != nil {
		t.Fatalf("reading backup file: %v", err)
	}

	bob := mustCreateUser(t, app, "bob")
	stats, err := app.backups.Restore(bob, payload, "")
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if stats.Bookmarks != 3 {
		t.Errorf("restored bookmarks = %d, want 3", stats.Bookmarks)
	}

	bobForest, err := app.categories.List(bob, true)
	if err != nil {
		t.Fatalf("List for bob: %v", err)
	}
	if countForest(bobForest) != countForest(forest) {
		t.Errorf("restored tree has %d categories, want %d", countForest(bobForest), countForest(forest))
	}
}

// TestImportExportRoundTrip imports a browser file, exports it in the
// Netscape format, and re-imports the export into another user.
func TestImportExportRoundTrip(t *testing.T) {
	app := newTestApp(t)
	alice := mustCreateUser(t, app, "alice")

	browserFile := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3>Work</H3>
    <DL><p>
        <DT><A HREF="https://github.com/">GitHub</A>
        <DT><H3>Docs</H3>
        <DL><p>
            <DT><A HREF="https://pkg.go.dev/">Package docs</A>
        </DL><p>
    </DL><p>
    <DT><A HREF="https://example.com/">Loose link</A>
</DL><p>`

	result, err := app.importer.Run(alice, importer.NewBrowserSource(strings.NewReader(browserFile)))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Categories != 2 || result.Bookmarks != 3 {
		t.Fatalf("import result = %d categories %d bookmarks, want 2 and 3", result.Categories, result.Bookmarks)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("import errors: %v", result.Errors)
	}

	// The loose link lands in the import fallback category.
	forest, err := app.categories.List(alice, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if findNode(forest, "Imported") == nil {
		t.Fatal("fallback category missing for bookmarks without a folder")
	}

	// Export to Netscape HTML and import it into a second account.
	payload, _, err := app.exporter.Export(alice, backup.FormatNetscape, true)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	bob := mustCreateUser(t, app, "bob")
	again, err := app.importer.Run(bob, importer.NewBrowserSource(strings.NewReader(string(payload))))
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if again.Bookmarks != result.Bookmarks {
		t.Errorf("round-trip bookmarks = %d, want %d", again.Bookmarks, result.Bookmarks)
	}

	// The nested folder survives the round trip.
	bobForest, err := app.categories.List(bob, true)
	if err != nil {
		t.Fatalf("List for bob: %v", err)
	}
	docs := findNode(bobForest, "Docs")
	if docs == nil {
		t.Fatal("nested folder missing after round trip")
	}
	if docs.ParentID == nil {
		t.Error("nested folder re-imported as a root")
	}
}

// TestBackupFormatDetection confirms both supported payloads restore and
// junk is rejected before anything is written.
func TestBackupFormatDetection(t *testing.T) {
	app := newTestApp(t)
	alice := mustCreateUser(t, app, "alice")
	cat := mustCreateCategory(t, app, alice, "Stuff", nil)
	mustCreateBookmark(t, app, alice, "A link", "https://a.example/", cat.ID)

	snapshot, err := app.backups.Snapshot(alice, "probe")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	full, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	flat, _, err := app.exporter.Export(alice, backup.FormatJSON, true)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	tests := []struct {
		name    string
		payload []byte
		wantErr bool
	}{
		{"full snapshot envelope", full, false},
		{"flat export payload", flat, false},
		{"unrelated JSON", []byte(`{"hello":"world"}`), true},
		{"not JSON at all", []byte("PK\x03\x04"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := newTestApp(t)
			owner := mustCreateUser(t, target, "bob")
			stats, err := target.backups.Restore(owner, tt.payload, "")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected rejection, got success")
				}
				return
			}
			if err != nil {
				t.Fatalf("Restore: %v", err)
			}
			if stats.Bookmarks != 1 {
				t.Errorf("restored bookmarks = %d, want 1", stats.Bookmarks)
			}
		})
	}
}

// TestDeadLinkSweep checks the concurrent link checker against local servers.
func TestDeadLinkSweep(t *testing.T) {
	app := newTestApp(t)
	alice := mustCreateUser(t, app, "alice")
	cat := mustCreateCategory(t, app, alice, "Links", nil)

	srv := newProbeServer(t)
	mustCreateBookmark(t, app, alice, "Alive", srv.URL+"/ok", cat.ID)
	mustCreateBookmark(t, app, alice, "Gone", srv.URL+"/gone", cat.ID)

	sweep, err := app.bookmarks.CheckAll(context.Background(), alice)
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if sweep.Checked != 2 {
		t.Errorf("checked = %d, want 2", sweep.Checked)
	}
	if sweep.Dead != 1 {
		t.Errorf("dead = %d, want 1", sweep.Dead)
	}

	stats, err := app.bookmarks.Stats(alice)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.DeadLinks != 1 {
		t.Errorf("stats dead links = %d, want 1", stats.DeadLinks)
	}
}
