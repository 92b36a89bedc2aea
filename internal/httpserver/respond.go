package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

type errorBody struct {
	Error string `json:"error"`
}

// writeJSON renders v with the given status. Encoding failures are silently
// truncated; headers are already out by then.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses. Validation and
// conflict reasons are safe to echo; access and internal failures answer with
// a generic message so nothing about other owners' data leaks.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case types.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case types.IsAccess(err):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "access denied"})
	case types.IsConflict(err):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case types.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// decode parses a JSON request body into v.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &types.ValidationError{Reason: "malformed request body"}
	}
	return nil
}
