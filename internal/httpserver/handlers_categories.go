package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mesh-intelligence/linkshelf/internal/httpserver/mw"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

func (s *Server) handlePublicCategories(w http.ResponseWriter, _ *http.Request) {
	forest, err := s.deps.Categories.ListPublic()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forest)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	forest, err := s.deps.Categories.List(mw.Owner(r.Context()), true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forest)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.deps.Categories.Get(mw.Owner(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

type createCategoryRequest struct {
	Name      string  `json:"name"`
	ParentID  *string `json:"parent_id"`
	Icon      string  `json:"icon"`
	Color     string  `json:"color"`
	IsPrivate bool    `json:"is_private"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	category, err := s.deps.Categories.Create(mw.Owner(r.Context()), req.Name, req.ParentID, req.Icon, req.Color, req.IsPrivate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// updateCategoryRequest mirrors CategoryPatch over the wire. The parent field
// is tri-state: absent leaves it alone, null moves to root, a value reparents.
type updateCategoryRequest struct {
	Name      *string         `json:"name"`
	ParentID  json.RawMessage `json:"parent_id"`
	Icon      *string         `json:"icon"`
	Color     *string         `json:"color"`
	Weight    *int            `json:"weight"`
	IsPrivate *bool           `json:"is_private"`
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req updateCategoryRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := types.CategoryPatch{
		Name:      req.Name,
		Icon:      req.Icon,
		Color:     req.Color,
		Weight:    req.Weight,
		IsPrivate: req.IsPrivate,
	}
	if len(req.ParentID) > 0 {
		patch.SetParent = true
		if string(req.ParentID) != "null" {
			var parent string
			if err := json.Unmarshal(req.ParentID, &parent); err != nil {
				writeError(w, &types.ValidationError{Reason: "malformed parent_id"})
				return
			}
			patch.ParentID = &parent
		}
	}

	if err := s.deps.Categories.Update(mw.Owner(r.Context()), chi.URLParam(r, "id"), patch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Categories.Delete(mw.Owner(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.deps.Categories.Reorder(mw.Owner(r.Context()), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reordered": true})
}
