// Schema DDL for the linkshelf store. Timestamps are stored as RFC 3339 text.
package sqlite

const (
	createUsers = `CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    email TEXT,
    role TEXT NOT NULL DEFAULT 'user',
    avatar_url TEXT,
    created_at TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1
);`

	createTokens = `CREATE TABLE IF NOT EXISTS tokens (
    token TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    expires_at TEXT NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);`

	createCategories = `CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    parent_id TEXT DEFAULT NULL,
    user_id TEXT NOT NULL,
    icon TEXT,
    color TEXT,
    weight INTEGER NOT NULL DEFAULT 0,
    is_private INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);`

	createBookmarks = `CREATE TABLE IF NOT EXISTS bookmarks (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    url TEXT NOT NULL,
    description TEXT,
    keywords TEXT,
    icon_url TEXT,
    category_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    weight INTEGER NOT NULL DEFAULT 0,
    is_private INTEGER NOT NULL DEFAULT 0,
    click_count INTEGER NOT NULL DEFAULT 0,
    last_checked TEXT,
    status_code INTEGER,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    UNIQUE (user_id, url),
    FOREIGN KEY (category_id) REFERENCES categories(id),
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);`

	createBackups = `CREATE TABLE IF NOT EXISTS backups (
    id TEXT PRIMARY KEY,
    filename TEXT NOT NULL,
    size INTEGER NOT NULL,
    backup_type TEXT NOT NULL DEFAULT 'full',
    created_by TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createSettings = `CREATE TABLE IF NOT EXISTS settings (
    setting_key TEXT PRIMARY KEY,
    setting_value TEXT,
    setting_type TEXT NOT NULL DEFAULT 'string',
    is_public INTEGER NOT NULL DEFAULT 0
);`
)

// schemaStatements lists the DDL in dependency order.
var schemaStatements = []string{
	createUsers,
	createTokens,
	createCategories,
	createBookmarks,
	createBackups,
	createSettings,
}
