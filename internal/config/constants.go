package config

import "time"

// SessionLifetime is how long an issued session stays valid. The cookie
// Max-Age is derived from it.
const SessionLifetime = 7 * 24 * time.Hour

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 30 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 30 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

const DBPingTimeout = 5 * time.Second

// Background job intervals
const CleanupJobInterval = 5 * time.Minute

const LoginRateLimitWindow = time.Minute

// DefaultBcryptCost matches the BCRYPT_COST default.
const DefaultBcryptCost = 12
