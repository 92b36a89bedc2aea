package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// browserFixture mirrors the structure Chrome and Firefox actually export:
// uppercase tags, unclosed DT/p elements, a nested folder, and a separator
// entry with no href.
const browserFixture = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><A HREF="https://top.example/">Top level link</A>
    <DT><H3>Dev</H3>
    <DL><p>
        <DT><A HREF="https://go.dev/" ICON="data:image/png;base64,AAAA">Go</A>
        <DT><H3>Rust</H3>
        <DL><p>
            <DT><A HREF="https://doc.rust-lang.org/">The Book</A>
        </DL><p>
        <DT><A HREF="https://news.example/">News</A>
    </DL><p>
    <DT><A HREF="">Broken separator</A>
    <DT><A HREF="https://last.example/">Last</A>
</DL><p>`

func TestBrowserSourceRead(t *testing.T) {
	categories, bookmarks, err := NewBrowserSource(strings.NewReader(browserFixture)).Read()
	require.NoError(t, err)

	require.Len(t, categories, 2)
	assert.Equal(t, "Dev", categories[0].Name)
	assert.Empty(t, categories[0].SourceParentID)
	assert.Equal(t, "Rust", categories[1].Name)
	assert.Equal(t, categories[0].SourceID, categories[1].SourceParentID)

	// The blank-href entry is skipped silently.
	require.Len(t, bookmarks, 5)

	byTitle := map[string]BookmarkRecord{}
	for _, b := range bookmarks {
		byTitle[b.Title] = b
	}

	assert.Empty(t, byTitle["Top level link"].SourceCategoryID, "root links carry no folder")
	assert.Equal(t, categories[0].SourceID, byTitle["Go"].SourceCategoryID)
	assert.Equal(t, "data:image/png;base64,AAAA", byTitle["Go"].IconURL)
	assert.Equal(t, categories[1].SourceID, byTitle["The Book"].SourceCategoryID)
	assert.Equal(t, categories[0].SourceID, byTitle["News"].SourceCategoryID, "links after a nested folder stay in the outer folder")
	assert.Empty(t, byTitle["Last"].SourceCategoryID)
}

func TestBrowserSourceRejectsNothing(t *testing.T) {
	// An empty document parses to zero records, not an error.
	categories, bookmarks, err := NewBrowserSource(strings.NewReader("<html><body></body></html>")).Read()
	require.NoError(t, err)
	assert.Empty(t, categories)
	assert.Empty(t, bookmarks)
}
