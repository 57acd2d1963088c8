// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds edutrack's own configuration, loaded by LoadConfig from
// flags, EDUTRACK_* environment variables, and config files. WAFFLE's
// CoreConfig covers the framework side (ports, TLS, logging, CORS).
type AppConfig struct {
	// Document store
	StoreType        string // "mongo" or "memory"
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer tokens
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Refresh-token cookie
	SessionKey    string // signs the cookie; must be strong in production
	SessionName   string // cookie name
	SessionDomain string // blank means current host

	// Login throttling
	TrustedProxies string // comma-separated proxy IPs or CIDRs allowed to set X-Forwarded-For

	// Request timeouts
	TimeoutShort time.Duration // single-document operations
	TimeoutLong  time.Duration // cascading deletes
}

const (
	storeMongo  = "mongo"
	storeMemory = "memory"
)
