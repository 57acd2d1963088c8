// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/edutrack/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup applies the configured request timeouts before any handler runs.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{Short: appCfg.TimeoutShort, Long: appCfg.TimeoutLong})
	logger.Info("timeouts configured",
		zap.Duration("short", appCfg.TimeoutShort),
		zap.Duration("long", appCfg.TimeoutLong))
	return nil
}
