package importer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// BrowserSource reads a Netscape bookmark file, the HTML export format every
// major browser produces. H3 headings become categories and A anchors become
// bookmarks filed under their nearest enclosing folder.
type BrowserSource struct {
	r io.Reader
}

// NewBrowserSource creates a source over an HTML export stream.
func NewBrowserSource(r io.Reader) *BrowserSource {
	return &BrowserSource{r: r}
}

// Name implements Source.
func (s *BrowserSource) Name() string { return "browser" }

// Read implements Source. Entries with a blank title or href are skipped
// silently; exports routinely contain separator junk.
func (s *BrowserSource) Read() ([]CategoryRecord, []BookmarkRecord, error) {
	doc, err := html.Parse(s.r)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing bookmark html: %w", err)
	}

	w := &browserWalker{}
	root := findElement(doc, "dl")
	if root != nil {
		w.walkList(root, "")
	}
	return w.categories, w.bookmarks, nil
}

type browserWalker struct {
	categories []CategoryRecord
	bookmarks  []BookmarkRecord
	nextID     int
}

// walkList processes one DL's children under the given parent folder.
// Browsers nest a folder's DL inside its DT, but the HTML5 parser hoists it
// out to the following sibling, so after a folder heading both positions are
// checked and a consumed sibling DL is skipped.
func (w *browserWalker) walkList(dl *html.Node, parentID string) {
	for child := dl.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		switch strings.ToLower(child.Data) {
		case "dl":
			// A hoisted folder list with no preceding heading; keep its
			// entries under the current folder.
			w.walkList(child, parentID)
		case "dt", "p":
			child = w.walkEntry(child, parentID)
		}
	}
}

// walkEntry handles one DT (or stray P wrapper). It returns the last sibling
// consumed, so the caller's loop resumes after any folder DL claimed here.
func (w *browserWalker) walkEntry(dt *html.Node, parentID string) *html.Node {
	if h3 := findElement(dt, "h3"); h3 != nil {
		name := strings.TrimSpace(textContent(h3))
		if name == "" {
			return dt
		}
		id := w.newFolder(name, parentID)

		if inner := findElement(dt, "dl"); inner != nil {
			w.walkList(inner, id)
			return dt
		}
		for sib := dt.NextSibling; sib != nil; sib = sib.NextSibling {
			if sib.Type != html.ElementNode || strings.ToLower(sib.Data) == "p" {
				continue
			}
			if strings.ToLower(sib.Data) == "dl" {
				w.walkList(sib, id)
				return sib
			}
			break
		}
		return dt
	}

	if a := findElement(dt, "a"); a != nil {
		title := strings.TrimSpace(textContent(a))
		href := strings.TrimSpace(attr(a, "href"))
		if title == "" || href == "" {
			return dt
		}
		w.bookmarks = append(w.bookmarks, BookmarkRecord{
			SourceCategoryID: parentID,
			Title:            title,
			URL:              href,
			IconURL:          attr(a, "icon"),
			Weight:           len(w.bookmarks),
		})
	}
	return dt
}

func (w *browserWalker) newFolder(name, parentID string) string {
	w.nextID++
	id := fmt.Sprintf("folder-%d", w.nextID)
	w.categories = append(w.categories, CategoryRecord{
		SourceID:       id,
		SourceParentID: parentID,
		Name:           name,
		Weight:         len(w.categories),
	})
	return id
}

// findElement returns the first element with the given tag in a depth-first
// walk below n, or nil.
func findElement(n *html.Node, tag string) *html.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && strings.ToLower(child.Data) == tag {
			return child
		}
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
