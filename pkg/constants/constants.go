// Package constants provides shared constants used throughout toolhub.
// This includes timeouts, page limits, cache lifetimes and file permissions
// that should agree between the server, the store and the CLI.
package constants

import "time"

// Timeout constants
const (
	// DefaultTimeout is the standard timeout for a single store or HTTP operation
	DefaultTimeout = 10 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout bounds graceful server shutdown
	ShutdownTimeout = 30 * time.Second

	// BoltOpenTimeout is how long to wait for the bbolt file lock
	BoltOpenTimeout = 1 * time.Second

	// EnrichTimeout bounds a single description generation call
	EnrichTimeout = 30 * time.Second
)

// Retry constants used by the retrying store
const (
	// MaxRetries is the maximum number of attempts for a failed read
	MaxRetries = 3

	// RetryBackoff is the base delay, doubled after each failed attempt
	RetryBackoff = 200 * time.Millisecond

	// MaxRetryBackoff caps the doubled delay
	MaxRetryBackoff = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0o755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0o644

	// SecureFilePermissions is for the database file (rw-------)
	SecureFilePermissions = 0o600
)

// Paging constants
const (
	// DefaultPageSize is the number of items per page when a request leaves it unset
	DefaultPageSize = 20

	// MaxPageSize is the largest page the HTTP layer will accept
	MaxPageSize = 200

	// MaxConcurrentEnrich bounds concurrent description generation calls
	MaxConcurrentEnrich = 4

	// ChannelBufferSize is the default buffer size for event channels
	ChannelBufferSize = 256
)

// Cache constants
const (
	// CacheTTL is how long fetched collection snapshots stay fresh
	CacheTTL = 5 * time.Minute

	// CacheCleanupInterval is how often expired cache entries are purged
	CacheCleanupInterval = 10 * time.Minute
)

// Rate limiting constants
const (
	// DefaultRateLimit is the default requests per minute per client IP
	DefaultRateLimit = 100

	// BurstSize is the token bucket burst size
	BurstSize = 20
)

// Analytics constants
const (
	// AnalyticsRetention is how long raw page-view events are kept
	AnalyticsRetention = 90 * 24 * time.Hour

	// TopPagesLimit is the number of pages reported in a daily summary
	TopPagesLimit = 10

	// TopCountriesLimit is the number of countries reported in a daily summary
	TopCountriesLimit = 10

	// DailyAggregationSchedule runs the rollup at midnight
	DailyAggregationSchedule = "0 0 * * *"
)

// Path constants
const (
	// DefaultDataPath is the default bbolt database location
	DefaultDataPath = "~/.toolhub/toolhub.db"

	// DefaultConfigName is the config file name looked up in $HOME
	DefaultConfigName = ".toolhub"
)

// Format constants
const (
	// TimeFormatDay is the layout for day buckets
	TimeFormatDay = "2006-01-02"

	// TimeFormatFilename is the layout used in export filenames
	TimeFormatFilename = "20060102-150405"
)

// Error messages
const (
	// ErrMsgInvalidAPIKey is the standard error message for invalid API keys
	ErrMsgInvalidAPIKey = "invalid or missing API key"

	// ErrMsgRateLimited is the standard error message for rate limiting
	ErrMsgRateLimited = "rate limit exceeded, please try again later"

	// ErrMsgUnavailable is shown when the catalog cannot be loaded
	ErrMsgUnavailable = "catalog temporarily unavailable, please retry"
)
