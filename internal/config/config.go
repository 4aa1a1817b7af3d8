// Package config provides configuration loading and parsing for streamkeep.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Configuration errors.
var (
	ErrDatabaseURLRequired = errors.New("config: remote database_url is required")
	ErrNoCredentials       = errors.New("config: remote secret or api_key+email+password is required")
)

// InvalidIntervalError is returned when the reload interval is outside the
// supported range.
type InvalidIntervalError struct {
	Hours int
}

func (e InvalidIntervalError) Error() string {
	return fmt.Sprintf("config: reload_interval_hours must be 0-24, got %d", e.Hours)
}

// InvalidRootPathError is returned when a remote root path is unusable as a
// tree prefix.
type InvalidRootPathError struct {
	Field string
	Path  string
}

func (e InvalidRootPathError) Error() string {
	return fmt.Sprintf("config: %s is not a valid tree path: %q", e.Field, e.Path)
}

// Log level constants.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Config represents the complete streamkeep configuration.
type Config struct {
	Remote  RemoteConfig  `yaml:"remote" toml:"remote"`
	Cache   CacheConfig   `yaml:"cache" toml:"cache"`
	Admin   AdminConfig   `yaml:"admin" toml:"admin"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// RemoteConfig defines the connection to the authoritative tree store.
type RemoteConfig struct {
	// DatabaseURL is the base URL of the remote tree store.
	DatabaseURL string `yaml:"database_url" toml:"database_url"`

	// Secret is a long-lived database secret. When set, the direct backend
	// is used and the REST credentials below are ignored.
	Secret string `yaml:"secret" toml:"secret"`

	// APIKey, Email and Password drive the REST backend's password sign-in
	// and subsequent token refresh exchanges. Values support ${ENV_VAR}.
	APIKey   string `yaml:"api_key" toml:"api_key"`
	Email    string `yaml:"email" toml:"email"`
	Password string `yaml:"password" toml:"password"`

	// RefreshIntervalMinutes is how often the REST backend exchanges its
	// refresh token. Must be materially shorter than the token lifetime.
	// Default: 45 minutes.
	RefreshIntervalMinutes int `yaml:"refresh_interval_minutes" toml:"refresh_interval_minutes"`

	// WriteRatePerSec bounds remote write operations per second.
	// 0 disables the limiter.
	WriteRatePerSec int `yaml:"write_rate_per_sec" toml:"write_rate_per_sec"`

	// TimeoutMS is the per-operation HTTP timeout in milliseconds.
	// Default: 60000.
	TimeoutMS int `yaml:"timeout_ms" toml:"timeout_ms"`
}

// GetRefreshInterval returns the token refresh interval with default fallback.
func (r *RemoteConfig) GetRefreshInterval() time.Duration {
	if r.RefreshIntervalMinutes <= 0 {
		return 45 * time.Minute
	}
	return time.Duration(r.RefreshIntervalMinutes) * time.Minute
}

// GetTimeoutOption returns the per-operation timeout as an Option.
// Returns None if TimeoutMS is zero (use default).
func (r *RemoteConfig) GetTimeoutOption() mo.Option[time.Duration] {
	if r.TimeoutMS <= 0 {
		return mo.None[time.Duration]()
	}
	return mo.Some(time.Duration(r.TimeoutMS) * time.Millisecond)
}

// GetWriteRateOption returns the write rate limit as an Option.
// Returns None if the limiter is disabled.
func (r *RemoteConfig) GetWriteRateOption() mo.Option[int] {
	if r.WriteRatePerSec <= 0 {
		return mo.None[int]()
	}
	return mo.Some(r.WriteRatePerSec)
}

// UseDirect reports whether the direct (secret-authenticated) backend
// should be selected.
func (r *RemoteConfig) UseDirect() bool {
	return r.Secret != ""
}

// Validate checks RemoteConfig for errors.
func (r *RemoteConfig) Validate() error {
	if r.DatabaseURL == "" {
		return ErrDatabaseURLRequired
	}
	if r.Secret == "" && (r.APIKey == "" || r.Email == "" || r.Password == "") {
		return ErrNoCredentials
	}
	return nil
}

// CacheConfig defines the local snapshot mirror and reload behavior.
type CacheConfig struct {
	// SnapshotFile is the path of the persisted tree export loaded at
	// startup and on every reload.
	SnapshotFile string `yaml:"snapshot_file" toml:"snapshot_file"`

	// ReloadIntervalHours is the scheduler cadence, aligned to local
	// midnight. Default: 4.
	ReloadIntervalHours int `yaml:"reload_interval_hours" toml:"reload_interval_hours"`

	// AutoReload starts the reload scheduler at boot.
	AutoReload bool `yaml:"auto_reload" toml:"auto_reload"`

	// WatchSnapshotFile reloads the mirror when the export file is
	// replaced on disk, in addition to the schedule.
	WatchSnapshotFile bool `yaml:"watch_snapshot_file" toml:"watch_snapshot_file"`

	// VideoRoot and PlaylistRoot are the remote tree prefixes for the two
	// cache families.
	VideoRoot    string `yaml:"video_root" toml:"video_root"`
	PlaylistRoot string `yaml:"playlist_root" toml:"playlist_root"`
}

// GetReloadInterval returns the reload cadence in hours with default fallback.
func (c *CacheConfig) GetReloadInterval() int {
	if c.ReloadIntervalHours <= 0 {
		return 4
	}
	return c.ReloadIntervalHours
}

// GetSnapshotFile returns the export path with default fallback.
func (c *CacheConfig) GetSnapshotFile() string {
	if c.SnapshotFile == "" {
		return "firebase_cache.json"
	}
	return c.SnapshotFile
}

// GetVideoRoot returns the video cache tree prefix with default fallback.
func (c *CacheConfig) GetVideoRoot() string {
	if c.VideoRoot == "" {
		return "bot/video_cache"
	}
	return c.VideoRoot
}

// GetPlaylistRoot returns the playlist cache tree prefix with default fallback.
func (c *CacheConfig) GetPlaylistRoot() string {
	if c.PlaylistRoot == "" {
		return "bot/video_cache/playlists"
	}
	return c.PlaylistRoot
}

// ValidRootPath reports whether a configured tree prefix can address
// records. Empty, "/" and "." would place records at the tree root.
func ValidRootPath(path string) bool {
	trimmed := strings.TrimSpace(path)
	return trimmed != "" && trimmed != "/" && trimmed != "."
}

// Validate checks CacheConfig for errors.
func (c *CacheConfig) Validate() error {
	if c.ReloadIntervalHours < 0 || c.ReloadIntervalHours > 24 {
		return InvalidIntervalError{Hours: c.ReloadIntervalHours}
	}
	if c.VideoRoot != "" && !ValidRootPath(c.VideoRoot) {
		return InvalidRootPathError{Field: "video_root", Path: c.VideoRoot}
	}
	if c.PlaylistRoot != "" && !ValidRootPath(c.PlaylistRoot) {
		return InvalidRootPathError{Field: "playlist_root", Path: c.PlaylistRoot}
	}
	return nil
}

// AdminConfig defines the administrative control surface.
type AdminConfig struct {
	// Listen is the admin HTTP listen address. Empty disables the server.
	Listen string `yaml:"listen" toml:"listen"`

	// AdminIDs are the identities allowed to toggle or trigger reloads.
	AdminIDs []int64 `yaml:"admin_ids" toml:"admin_ids"`
}

// IsAdmin reports whether the given identity may use privileged operations.
func (a *AdminConfig) IsAdmin(id int64) bool {
	return lo.Contains(a.AdminIDs, id)
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // json, console, pretty
	Output string `yaml:"output" toml:"output"` // stdout, stderr, or file path
	Pretty bool   `yaml:"pretty" toml:"pretty"` // enable colored console output
}

// ParseLevel converts a string log level to zerolog.Level.
// Returns zerolog.InfoLevel if the level string is invalid.
func (l *LoggingConfig) ParseLevel() zerolog.Level {
	switch strings.ToLower(l.Level) {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Remote.Validate(); err != nil {
		return err
	}
	return c.Cache.Validate()
}
