package types

import (
	"errors"
	"time"
)

// Config validation errors.
var (
	ErrDataDirEmpty        = errors.New("data directory must not be empty")
	ErrBackupMaxInvalid    = errors.New("backup max files must be positive")
	ErrProbeTimeoutInvalid = errors.New("probe timeout must be positive")
	ErrCheckLimitInvalid   = errors.New("check concurrency must be positive")
	ErrWebDAVURLEmpty      = errors.New("webdav url must not be empty when webdav is enabled")
)

// WebDAVConfig configures the optional remote copy of each snapshot.
type WebDAVConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	URL        string `json:"url" yaml:"url" mapstructure:"url"`
	Username   string `json:"username" yaml:"username" mapstructure:"username"`
	Password   string `json:"password" yaml:"password" mapstructure:"password"`
	AutoBackup bool   `json:"auto_backup" yaml:"auto_backup" mapstructure:"auto_backup"`
}

// Config holds store locations, boundary settings, and outbound call budgets.
type Config struct {
	DataDir        string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	BackupDir      string `json:"backup_dir" yaml:"backup_dir" mapstructure:"backup_dir"`
	BackupMaxFiles int    `json:"backup_max_files" yaml:"backup_max_files" mapstructure:"backup_max_files"`

	ListenAddr string `json:"listen_addr" yaml:"listen_addr" mapstructure:"listen_addr"`
	LogLevel   string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	PrettyLog  bool   `json:"pretty_log" yaml:"pretty_log" mapstructure:"pretty_log"`

	// FaviconTimeout bounds the best-effort favicon probe on bookmark
	// creation; LinkCheckTimeout bounds explicit dead-link checks.
	FaviconTimeout   time.Duration `json:"favicon_timeout" yaml:"favicon_timeout" mapstructure:"favicon_timeout"`
	LinkCheckTimeout time.Duration `json:"link_check_timeout" yaml:"link_check_timeout" mapstructure:"link_check_timeout"`
	CheckConcurrency int           `json:"check_concurrency" yaml:"check_concurrency" mapstructure:"check_concurrency"`

	WebDAV WebDAVConfig `json:"webdav" yaml:"webdav" mapstructure:"webdav"`
}

// DefaultConfig returns a Config with every tunable at its default. DataDir
// is left empty; the caller resolves it through the paths package.
func DefaultConfig() Config {
	return Config{
		BackupMaxFiles:   10,
		ListenAddr:       ":8080",
		LogLevel:         "info",
		FaviconTimeout:   3 * time.Second,
		LinkCheckTimeout: 10 * time.Second,
		CheckConcurrency: 4,
	}
}

// Validate checks that the Config is well-formed, returning a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.BackupMaxFiles <= 0 {
		return ErrBackupMaxInvalid
	}
	if c.FaviconTimeout <= 0 || c.LinkCheckTimeout <= 0 {
		return ErrProbeTimeoutInvalid
	}
	if c.CheckConcurrency <= 0 {
		return ErrCheckLimitInvalid
	}
	if c.WebDAV.Enabled && c.WebDAV.URL == "" {
		return ErrWebDAVURLEmpty
	}
	return nil
}
