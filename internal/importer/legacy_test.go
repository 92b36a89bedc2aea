// Tests for the BookNav and OneNav database sources against fixture
// databases built with the legacy schemas.
package importer

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLegacyDB creates a SQLite file and applies the given DDL and seed
// statements.
func newLegacyDB(t *testing.T, name string, statements []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range statements {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return path
}

func TestBookNavSourceRead(t *testing.T) {
	path := newLegacyDB(t, "booknav.db", []string{
		`CREATE TABLE category (
			id INTEGER PRIMARY KEY, name TEXT, parent_id INTEGER,
			icon TEXT, weight INTEGER, private INTEGER
		)`,
		`CREATE TABLE website (
			id INTEGER PRIMARY KEY, category_id INTEGER, title TEXT, url TEXT,
			description TEXT, keywords TEXT, icon TEXT,
			weight INTEGER, private INTEGER, clicks INTEGER
		)`,
		`INSERT INTO category VALUES (1, 'Dev', NULL, 'fas fa-code', 1, 0)`,
		`INSERT INTO category VALUES (2, 'Go', 1, NULL, 1, 1)`,
		`INSERT INTO website VALUES (1, 2, 'Go blog', 'https://go.dev/blog', 'releases', 'golang', NULL, 1, 0, 42)`,
	})

	categories, bookmarks, err := NewBookNavSource(path).Read()
	require.NoError(t, err)

	require.Len(t, categories, 2)
	assert.Equal(t, "1", categories[0].SourceID)
	assert.Empty(t, categories[0].SourceParentID)
	assert.Equal(t, "fas fa-code", categories[0].Icon)
	assert.Equal(t, "1", categories[1].SourceParentID)
	assert.True(t, categories[1].IsPrivate)

	require.Len(t, bookmarks, 1)
	assert.Equal(t, "2", bookmarks[0].SourceCategoryID)
	assert.Equal(t, "Go blog", bookmarks[0].Title)
	assert.Equal(t, "golang", bookmarks[0].Keywords)
	assert.Equal(t, 42, bookmarks[0].ClickCount)
}

func TestOneNavSourceRead(t *testing.T) {
	path := newLegacyDB(t, "onenav.db3", []string{
		`CREATE TABLE on_categorys (
			id INTEGER PRIMARY KEY, name TEXT, fid INTEGER,
			font_icon TEXT, weight INTEGER, property TEXT
		)`,
		`CREATE TABLE on_links (
			id INTEGER PRIMARY KEY, fid INTEGER, title TEXT, url TEXT,
			description TEXT, icon TEXT, weight INTEGER, property TEXT,
			click INTEGER, status_code INTEGER, last_checked_time INTEGER
		)`,
		`INSERT INTO on_categorys VALUES (1, 'Tools', 0, 'fa fa-wrench', 5, '')`,
		`INSERT INTO on_categorys VALUES (2, 'Secret', 1, NULL, 1, 'private')`,
		`INSERT INTO on_links VALUES (1, 2, 'Vault', 'https://vault.example/', '', NULL, 1, 'private', 3, 200, 1700000000)`,
		`INSERT INTO on_links VALUES (2, 1, 'Wrench', 'https://wrench.example/', '', NULL, 1, '', 0, 0, 0)`,
	})

	categories, bookmarks, err := NewOneNavSource(path).Read()
	require.NoError(t, err)

	require.Len(t, categories, 2)
	assert.Empty(t, categories[0].SourceParentID, "fid 0 means root")
	assert.False(t, categories[0].IsPrivate)
	assert.Equal(t, "1", categories[1].SourceParentID)
	assert.True(t, categories[1].IsPrivate)

	require.Len(t, bookmarks, 2)

	byTitle := map[string]BookmarkRecord{}
	for _, b := range bookmarks {
		byTitle[b.Title] = b
	}

	vault := byTitle["Vault"]
	assert.True(t, vault.IsPrivate)
	assert.Equal(t, 3, vault.ClickCount)
	require.NotNil(t, vault.StatusCode)
	assert.Equal(t, 200, *vault.StatusCode)
	assert.NotEmpty(t, vault.LastChecked)

	wrench := byTitle["Wrench"]
	assert.Nil(t, wrench.StatusCode, "status 0 means never checked")
	assert.Empty(t, wrench.LastChecked)
}

func TestBookNavSourceMissingTable(t *testing.T) {
	path := newLegacyDB(t, "empty.db", []string{`CREATE TABLE unrelated (id INTEGER)`})
	_, _, err := NewBookNavSource(path).Read()
	assert.Error(t, err)
}
