// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/edutrack/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for edutrack.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: EDUTRACK_MONGO_URI, EDUTRACK_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_type", Default: storeMongo, Desc: "Document store: 'mongo' or 'memory' (memory is for local runs only)"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "edutrack", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "jwt_secret", Default: "", Desc: "HMAC secret for access and refresh tokens (32+ chars in production)"},
	{Name: "access_token_ttl", Default: "6h", Desc: "Access token lifetime"},
	{Name: "refresh_token_ttl", Default: "720h", Desc: "Refresh token lifetime"},

	{Name: "session_key", Default: devSessionKey, Desc: "Refresh cookie signing key (must be strong in production)"},
	{Name: "session_name", Default: "edutrack-refresh", Desc: "Refresh cookie name"},
	{Name: "session_domain", Default: "", Desc: "Refresh cookie domain (blank means current host)"},

	{Name: "trusted_proxies", Default: "", Desc: "Comma-separated proxy IPs/CIDRs whose X-Forwarded-For is trusted (blank trusts none)"},

	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for cascading deletes"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// Precedence is flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "EDUTRACK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreType:        appValues.String("store_type"),
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:       appValues.String("jwt_secret"),
		AccessTokenTTL:  appValues.Duration("access_token_ttl", 6*time.Hour),
		RefreshTokenTTL: appValues.Duration("refresh_token_ttl", 720*time.Hour),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		TrustedProxies: appValues.String("trusted_proxies"),

		TimeoutShort: appValues.Duration("timeout_short", 5*time.Second),
		TimeoutLong:  appValues.Duration("timeout_long", 30*time.Second),
	}
	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked before any connection attempt. In
// production the token secret and cookie key must be real secrets and the
// in-memory store is refused.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	return validate(coreCfg.Env, appCfg, logger)
}

func validate(env string, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreType {
	case storeMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("mongo_database is required")
		}
	case storeMemory:
		if env == "prod" {
			return fmt.Errorf("store_type %q is not allowed in prod", storeMemory)
		}
		logger.Warn("using in-memory store; data is lost on exit")
	default:
		return fmt.Errorf("store_type must be %q or %q, got %q", storeMongo, storeMemory, appCfg.StoreType)
	}

	if appCfg.AccessTokenTTL <= 0 || appCfg.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	if appCfg.TimeoutShort <= 0 || appCfg.TimeoutLong <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if _, err := ratelimit.ParseProxies(appCfg.TrustedProxies); err != nil {
		return err
	}

	if env == "prod" {
		if len(appCfg.JWTSecret) < 32 {
			return fmt.Errorf("jwt_secret must be at least 32 characters in prod")
		}
		if appCfg.SessionKey == "" || appCfg.SessionKey == devSessionKey {
			return fmt.Errorf("session_key must be set to a strong secret in prod")
		}
	}
	return nil
}
