// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	activitiesfeature "github.com/dalemusser/edutrack/internal/app/features/activities"
	batchesfeature "github.com/dalemusser/edutrack/internal/app/features/batches"
	branchesfeature "github.com/dalemusser/edutrack/internal/app/features/branches"
	categoriesfeature "github.com/dalemusser/edutrack/internal/app/features/categories"
	errorsfeature "github.com/dalemusser/edutrack/internal/app/features/errors"
	healthfeature "github.com/dalemusser/edutrack/internal/app/features/health"
	institutesfeature "github.com/dalemusser/edutrack/internal/app/features/institutes"
	levelsfeature "github.com/dalemusser/edutrack/internal/app/features/levels"
	usersfeature "github.com/dalemusser/edutrack/internal/app/features/users"
	videosfeature "github.com/dalemusser/edutrack/internal/app/features/videos"
	"github.com/dalemusser/edutrack/internal/app/system/auth"
	"github.com/dalemusser/edutrack/internal/app/system/authz"
	"github.com/dalemusser/edutrack/internal/app/system/cascade"
	"github.com/dalemusser/edutrack/internal/app/system/ratelimit"
	"github.com/dalemusser/edutrack/internal/app/system/reqid"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router.
//
// Token issuance, the refresh cookie store, the cascade engine, and the
// metrics registry are built once here and shared by the feature routers.
// Every feature route declares its own role set through the gate.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"

	secret := appCfg.JWTSecret
	if secret == "" {
		logger.Warn("no jwt_secret configured; generated a random one, tokens will not survive a restart")
		secret = auth.GenerateKey()
	}
	tokens, err := auth.NewTokens(secret, appCfg.AccessTokenTTL, appCfg.RefreshTokenTTL)
	if err != nil {
		logger.Error("token issuer init failed", zap.Error(err))
		return nil, err
	}

	sessionKey := appCfg.SessionKey
	if sessionKey == "" {
		logger.Warn("no session_key configured; generated a random one, refresh cookies will not survive a restart")
		sessionKey = auth.GenerateKey()
	}
	refresh, err := auth.NewRefreshStore(sessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, appCfg.RefreshTokenTTL, logger)
	if err != nil {
		logger.Error("refresh cookie store init failed", zap.Error(err))
		return nil, err
	}

	reg := healthfeature.NewRegistry()
	engine := cascade.New(deps.Store, logger, cascade.NewMetrics(reg))
	gate := authz.NewGate(tokens, logger)
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(reqid.Middleware)

	// Health check and metrics for load balancers and scrapers
	healthHandler := healthfeature.NewHandler(deps.Store, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", healthfeature.MetricsHandler(reg))

	// Tenancy hierarchy
	instituteHandler := institutesfeature.NewHandler(deps.Store, engine, errLog, logger)
	r.Mount("/institute", institutesfeature.Routes(instituteHandler, gate))

	branchHandler := branchesfeature.NewHandler(deps.Store, engine, errLog, logger)
	r.Mount("/branch", branchesfeature.Routes(branchHandler, gate))

	batchHandler := batchesfeature.NewHandler(deps.Store, engine, errLog, logger)
	r.Mount("/batch", batchesfeature.Routes(batchHandler, gate))

	// Curriculum
	levelHandler := levelsfeature.NewHandler(deps.Store, engine, errLog, logger)
	r.Mount("/level", levelsfeature.Routes(levelHandler, gate))

	categoryHandler := categoriesfeature.NewHandler(deps.Store, engine, errLog, logger)
	r.Mount("/category", categoriesfeature.Routes(categoryHandler, gate))

	activityHandler := activitiesfeature.NewHandler(deps.Store, errLog, logger)
	r.Mount("/activity", activitiesfeature.Routes(activityHandler, gate))

	videoHandler := videosfeature.NewHandler(deps.Store, errLog, logger)
	r.Mount("/video", videosfeature.Routes(videoHandler, gate))

	// Accounts
	proxies, err := ratelimit.ParseProxies(appCfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	userHandler := usersfeature.NewHandler(deps.Store, engine, tokens, refresh, errLog, logger)
	userHandler.Guard.TrustProxies(proxies)
	r.Mount("/user", usersfeature.Routes(userHandler, gate))

	return r, nil
}
