// Accessors for users, auth tokens, and site settings. Auth itself is an
// external concern; the store only resolves opaque bearer tokens to owner IDs.
package sqlite

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

// NewID generates a UUID v7 entity ID, falling back to v4 if v7 generation
// fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// CreateUser inserts a new user. ID and CreatedAt are assigned here.
func (s *Store) CreateUser(u *types.User) error {
	if u.Username == "" {
		return &types.ValidationError{Reason: "username is required"}
	}
	if u.Role == "" {
		u.Role = types.RoleUser
	}
	u.ID = NewID()
	u.CreatedAt = time.Now().UTC()
	u.IsActive = true

	_, err := s.db.Exec(
		`INSERT INTO users (id, username, password_hash, email, role, avatar_url, created_at, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		u.ID, u.Username, u.PasswordHash, u.Email, u.Role, u.AvatarURL, FormatTime(u.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &types.ConflictError{Reason: "username already taken"}
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// UserByID retrieves one user.
func (s *Store) UserByID(id string) (*types.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, username, password_hash, email, role, avatar_url, created_at, is_active FROM users WHERE id = ?",
		id,
	))
}

// UserByUsername retrieves one user by name.
func (s *Store) UserByUsername(name string) (*types.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, username, password_hash, email, role, avatar_url, created_at, is_active FROM users WHERE username = ?",
		name,
	))
}

// Users lists every account, ordered by creation.
func (s *Store) Users() ([]types.User, error) {
	rows, err := s.db.Query(
		"SELECT id, username, password_hash, email, role, avatar_url, created_at, is_active FROM users ORDER BY created_at",
	)
	if err != nil {
		return nil, fmt.Errorf("fetching users: %w", err)
	}
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		var u types.User
		var email, avatar sql.NullString
		var created string
		var active int
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &email, &u.Role, &avatar, &created, &active); err != nil {
			return nil, fmt.Errorf("hydrating user: %w", err)
		}
		u.Email = email.String
		u.AvatarURL = avatar.String
		u.CreatedAt = ParseTime(created)
		u.IsActive = active != 0
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) scanUser(row *sql.Row) (*types.User, error) {
	var u types.User
	var email, avatar sql.NullString
	var created string
	var active int
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &email, &u.Role, &avatar, &created, &active)
	if err == sql.ErrNoRows {
		return nil, &types.NotFoundError{Entity: "user"}
	}
	if err != nil {
		return nil, fmt.Errorf("hydrating user: %w", err)
	}
	u.Email = email.String
	u.AvatarURL = avatar.String
	u.CreatedAt = ParseTime(created)
	u.IsActive = active != 0
	return &u, nil
}

// IssueToken creates an opaque bearer token for a user.
func (s *Store) IssueToken(userID string, ttl time.Duration) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	token := hex.EncodeToString(buf)
	now := time.Now().UTC()

	_, err := s.db.Exec(
		"INSERT INTO tokens (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)",
		token, userID, FormatTime(now), FormatTime(now.Add(ttl)),
	)
	if err != nil {
		return "", fmt.Errorf("inserting token: %w", err)
	}
	return token, nil
}

// UserIDForToken resolves a bearer token to an owner ID. Expired or unknown
// tokens yield an AccessError with a generic reason.
func (s *Store) UserIDForToken(token string) (string, error) {
	var userID, expires string
	err := s.db.QueryRow(
		"SELECT user_id, expires_at FROM tokens WHERE token = ?",
		token,
	).Scan(&userID, &expires)
	if err == sql.ErrNoRows {
		return "", &types.AccessError{Reason: "invalid token"}
	}
	if err != nil {
		return "", fmt.Errorf("resolving token: %w", err)
	}
	if ParseTime(expires).Before(time.Now()) {
		return "", &types.AccessError{Reason: "invalid token"}
	}
	return userID, nil
}

// HashPassword produces a salted digest in the form "sha256$<salt>$<hex>".
// This is deliberately minimal; credential handling beyond opaque storage is
// outside the engine's contract.
func HashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	sum := sha256.Sum256(append(salt, []byte(password)...))
	return "sha256$" + hex.EncodeToString(salt) + "$" + hex.EncodeToString(sum[:]), nil
}

// CheckPassword verifies a password against a stored digest.
func CheckPassword(hash, password string) bool {
	parts := strings.SplitN(hash, "$", 3)
	if len(parts) != 3 || parts[0] != "sha256" {
		return false
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	sum := sha256.Sum256(append(salt, []byte(password)...))
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(parts[2])) == 1
}

// PublicSettings lists the settings included in snapshots.
func (s *Store) PublicSettings() ([]types.Setting, error) {
	rows, err := s.db.Query(
		"SELECT setting_key, setting_value, setting_type, is_public FROM settings WHERE is_public = 1 ORDER BY setting_key",
	)
	if err != nil {
		return nil, fmt.Errorf("fetching settings: %w", err)
	}
	defer rows.Close()

	var settings []types.Setting
	for rows.Next() {
		var st types.Setting
		var pub int
		if err := rows.Scan(&st.Key, &st.Value, &st.Type, &pub); err != nil {
			return nil, fmt.Errorf("hydrating setting: %w", err)
		}
		st.IsPublic = pub != 0
		settings = append(settings, st)
	}
	return settings, rows.Err()
}

// UpsertSetting inserts or replaces one setting.
func (s *Store) UpsertSetting(st types.Setting) error {
	pub := 0
	if st.IsPublic {
		pub = 1
	}
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO settings (setting_key, setting_value, setting_type, is_public) VALUES (?, ?, ?, ?)",
		st.Key, st.Value, st.Type, pub,
	)
	if err != nil {
		return fmt.Errorf("upserting setting: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
