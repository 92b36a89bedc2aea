package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/mesh-intelligence/linkshelf/internal/backup"
	"github.com/mesh-intelligence/linkshelf/internal/httpserver/mw"
	"github.com/mesh-intelligence/linkshelf/internal/importer"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

func (s *Server) handleListBackups(w http.ResponseWriter, _ *http.Request) {
	records, err := s.deps.Backups.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type createBackupRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleCreateBackup(w http.ResponseWriter, r *http.Request) {
	var req createBackupRequest
	if r.ContentLength > 0 {
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	record, err := s.deps.Backups.Create(mw.Owner(r.Context()), req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

type restoreRequest struct {
	Filename   string `json:"filename"`
	SourceUser string `json:"source_user"`
}

// handleRestore merges a snapshot into the caller's collection. The body
// either names a file in the backup directory or carries the payload itself;
// the payload's format is detected structurally either way.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 64<<20))
	if err != nil {
		writeError(w, &types.ValidationError{Reason: "unreadable request body"})
		return
	}

	payload := body
	var req restoreRequest
	if err := json.Unmarshal(body, &req); err == nil && req.Filename != "" {
		payload, err = s.deps.Backups.ReadFile(req.Filename)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	stats, err := s.deps.Backups.Restore(mw.Owner(r.Context()), payload, req.SourceUser)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleImport ingests a browser bookmark HTML file from the request body.
// Database imports need a file path and stay CLI-only.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, 64<<20)
	result, err := s.deps.Importer.Run(mw.Owner(r.Context()), importer.NewBrowserSource(body))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = backup.FormatJSON
	}
	// Exports default to the owner's full copy; include_private=false yields
	// a shareable one.
	includePrivate := true
	if v := r.URL.Query().Get("include_private"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, &types.ValidationError{Reason: "include_private must be a boolean"})
			return
		}
		includePrivate = parsed
	}
	payload, contentType, err := s.deps.Exporter.Export(mw.Owner(r.Context()), format, includePrivate)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="bookmarks.`+extensionFor(format)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func extensionFor(format string) string {
	switch format {
	case backup.FormatCSV:
		return "csv"
	case backup.FormatHTML, backup.FormatNetscape, backup.FormatBookmarksHTML:
		return "html"
	default:
		return "json"
	}
}
