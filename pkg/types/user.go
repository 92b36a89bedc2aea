package types

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account that exclusively owns categories and bookmarks.
// PasswordHash never leaves the process; snapshots and API responses omit it.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email,omitempty"`
	Role         string    `json:"role"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
}
