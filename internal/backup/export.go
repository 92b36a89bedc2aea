package backup

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/mesh-intelligence/linkshelf/internal/nav"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

// Export formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatHTML     = "html"
	FormatNetscape = "netscape"

	// FormatBookmarksHTML is the name older clients use for the Netscape
	// format; kept as an accepted alias.
	FormatBookmarksHTML = "bookmarks_html"
)

// Exporter renders one owner's data in portable formats.
type Exporter struct {
	categories *nav.CategoryEngine
	bookmarks  *nav.BookmarkEngine
}

// NewExporter creates an exporter over the given engines.
func NewExporter(categories *nav.CategoryEngine, bookmarks *nav.BookmarkEngine) *Exporter {
	return &Exporter{categories: categories, bookmarks: bookmarks}
}

// userExport is the JSON export payload: flat arrays, no envelope.
type userExport struct {
	Categories []types.Category `json:"categories"`
	Bookmarks  []types.Bookmark `json:"bookmarks"`
}

// Export renders the owner's data in the given format and returns the payload
// with its media type. Private entries are dropped unless includePrivate is
// set. Unknown formats yield a ValidationError.
func (e *Exporter) Export(ownerID, format string, includePrivate bool) ([]byte, string, error) {
	forest, err := e.categories.List(ownerID, includePrivate)
	if err != nil {
		return nil, "", err
	}
	bookmarks, err := e.bookmarks.ListByOwner(ownerID, includePrivate)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case FormatJSON:
		payload, err := renderJSON(forest, bookmarks)
		return payload, "application/json", err
	case FormatCSV:
		payload, err := renderCSV(bookmarks)
		return payload, "text/csv", err
	case FormatHTML:
		return renderHTML(forest, bookmarks), "text/html", nil
	case FormatNetscape, FormatBookmarksHTML:
		return renderNetscape(forest, bookmarks), "text/html", nil
	default:
		return nil, "", &types.ValidationError{Reason: "unknown export format: " + format}
	}
}

func renderJSON(forest []*types.CategoryNode, bookmarks []types.Bookmark) ([]byte, error) {
	export := userExport{Categories: flatten(forest), Bookmarks: bookmarks}
	payload, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rendering json export: %w", err)
	}
	return payload, nil
}

// renderCSV writes one row per bookmark with the category resolved by name.
func renderCSV(bookmarks []types.Bookmark) ([]byte, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Title", "URL", "Category", "Description", "Keywords", "Private"}); err != nil {
		return nil, fmt.Errorf("rendering csv export: %w", err)
	}
	for _, b := range bookmarks {
		private := "No"
		if b.IsPrivate {
			private = "Yes"
		}
		if err := w.Write([]string{b.Title, b.URL, b.CategoryName, b.Description, b.Keywords, private}); err != nil {
			return nil, fmt.Errorf("rendering csv export: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("rendering csv export: %w", err)
	}
	return []byte(buf.String()), nil
}

// renderHTML writes a readable standalone page with one heading per category.
func renderHTML(forest []*types.CategoryNode, bookmarks []types.Bookmark) []byte {
	byCategory := groupByCategory(bookmarks)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Bookmarks</title>\n</head>\n<body>\n")
	b.WriteString("<h1>Bookmarks</h1>\n")

	var writeNode func(n *types.CategoryNode, depth int)
	writeNode = func(n *types.CategoryNode, depth int) {
		level := depth + 2
		if level > 6 {
			level = 6
		}
		fmt.Fprintf(&b, "<h%d>%s</h%d>\n", level, html.EscapeString(n.Name), level)
		if items := byCategory[n.ID]; len(items) > 0 {
			b.WriteString("<ul>\n")
			for _, bm := range items {
				fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a>", html.EscapeString(bm.URL), html.EscapeString(bm.Title))
				if bm.Description != "" {
					fmt.Fprintf(&b, " &mdash; %s", html.EscapeString(bm.Description))
				}
				b.WriteString("</li>\n")
			}
			b.WriteString("</ul>\n")
		}
		for _, child := range n.Children {
			writeNode(child, depth+1)
		}
	}
	for _, root := range forest {
		writeNode(root, 0)
	}
	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}

// renderNetscape writes the browser-importable bookmark format.
func renderNetscape(forest []*types.CategoryNode, bookmarks []types.Bookmark) []byte {
	byCategory := groupByCategory(bookmarks)

	var b strings.Builder
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n<H1>Bookmarks</H1>\n<DL><p>\n")

	var writeNode func(n *types.CategoryNode, indent string)
	writeNode = func(n *types.CategoryNode, indent string) {
		fmt.Fprintf(&b, "%s<DT><H3>%s</H3>\n", indent, html.EscapeString(n.Name))
		fmt.Fprintf(&b, "%s<DL><p>\n", indent)
		for _, bm := range byCategory[n.ID] {
			fmt.Fprintf(&b, "%s    <DT><A HREF=\"%s\"", indent, html.EscapeString(bm.URL))
			if bm.IconURL != "" {
				fmt.Fprintf(&b, " ICON=\"%s\"", html.EscapeString(bm.IconURL))
			}
			fmt.Fprintf(&b, ">%s</A>\n", html.EscapeString(bm.Title))
		}
		for _, child := range n.Children {
			writeNode(child, indent+"    ")
		}
		fmt.Fprintf(&b, "%s</DL><p>\n", indent)
	}
	for _, root := range forest {
		writeNode(root, "    ")
	}
	b.WriteString("</DL><p>\n")
	return []byte(b.String())
}

func flatten(forest []*types.CategoryNode) []types.Category {
	out := []types.Category{}
	var walk func(n *types.CategoryNode)
	walk = func(n *types.CategoryNode) {
		out = append(out, n.Category)
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, root := range forest {
		walk(root)
	}
	return out
}

func groupByCategory(bookmarks []types.Bookmark) map[string][]types.Bookmark {
	out := make(map[string][]types.Bookmark)
	for _, b := range bookmarks {
		out[b.CategoryID] = append(out[b.CategoryID], b)
	}
	return out
}
