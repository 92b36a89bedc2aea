package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mesh-intelligence/linkshelf/internal/httpserver/mw"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	owner := mw.Owner(r.Context())

	if categoryID := r.URL.Query().Get("category_id"); categoryID != "" {
		// Ownership gate first; ListByCategory itself is unscoped. Get also
		// admits other owners' public categories, so private entries are
		// only included when the caller owns the category.
		cat, err := s.deps.Categories.Get(owner, categoryID)
		if err != nil {
			writeError(w, err)
			return
		}
		bookmarks, err := s.deps.Bookmarks.ListByCategory(categoryID, cat.UserID == owner)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bookmarks)
		return
	}

	bookmarks, err := s.deps.Bookmarks.ListByOwner(owner, true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmarks)
}

func (s *Server) handleGetBookmark(w http.ResponseWriter, r *http.Request) {
	bookmark, err := s.deps.Bookmarks.Get(mw.Owner(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmark)
}

type createBookmarkRequest struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	CategoryID  string `json:"category_id"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	IsPrivate   bool   `json:"is_private"`
}

func (s *Server) handleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	var req createBookmarkRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	bookmark, err := s.deps.Bookmarks.Create(mw.Owner(r.Context()),
		req.Title, req.URL, req.CategoryID, req.Description, req.Keywords, req.IsPrivate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bookmark)
}

type updateBookmarkRequest struct {
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	Description *string `json:"description"`
	Keywords    *string `json:"keywords"`
	CategoryID  *string `json:"category_id"`
	Weight      *int    `json:"weight"`
	IsPrivate   *bool   `json:"is_private"`
}

func (s *Server) handleUpdateBookmark(w http.ResponseWriter, r *http.Request) {
	var req updateBookmarkRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	patch := types.BookmarkPatch{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Keywords:    req.Keywords,
		CategoryID:  req.CategoryID,
		Weight:      req.Weight,
		IsPrivate:   req.IsPrivate,
	}
	if err := s.deps.Bookmarks.Update(mw.Owner(r.Context()), chi.URLParam(r, "id"), patch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Bookmarks.Delete(mw.Owner(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleReorderBookmarks(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.deps.Bookmarks.Reorder(mw.Owner(r.Context()), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reordered": true})
}

// handleClick is public: shared pages track clicks without a session.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Bookmarks.IncrementClick(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"clicked": true})
}

func (s *Server) handleCheckBookmark(w http.ResponseWriter, r *http.Request) {
	status, err := s.deps.Bookmarks.CheckStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if types.IsNotFound(err) || types.IsAccess(err) {
			writeError(w, err)
			return
		}
		// Probe failure: status was still persisted as unreachable.
		writeJSON(w, http.StatusOK, map[string]any{"status_code": 0, "reachable": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status_code": status,
		"reachable":   status < types.DeadLinkStatus,
	})
}

func (s *Server) handleCheckAll(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.Bookmarks.CheckAll(r.Context(), mw.Owner(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, &types.ValidationError{Reason: "search query must not be empty"})
		return
	}
	bookmarks, err := s.deps.Bookmarks.Search(mw.Owner(r.Context()), query, true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmarks)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Bookmarks.Stats(mw.Owner(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
