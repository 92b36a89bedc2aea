package httpserver

import (
	"net/http"
	"time"

	"github.com/mesh-intelligence/linkshelf/internal/sqlite"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

// tokenTTL is how long an issued bearer token stays valid.
const tokenTTL = 30 * 24 * time.Hour

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

// handleLogin exchanges credentials for a bearer token. Unknown users and
// wrong passwords answer identically.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.deps.Store.UserByUsername(req.Username)
	if err != nil || !user.IsActive || !sqlite.CheckPassword(user.PasswordHash, req.Password) {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
		return
	}

	token, err := s.deps.Store.IssueToken(user.ID, tokenTTL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: *user})
}
