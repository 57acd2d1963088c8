// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown releases the document store. A MemStore is simply dropped; the
// Mongo disconnect is bounded by the long timeout tier.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoClient == nil {
		if ms, ok := deps.Store.(*docstore.MemStore); ok {
			logger.Info("discarding in-memory store", zap.Int64("mutations", ms.Mutations()))
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	start := time.Now()
	if err := deps.MongoClient.Disconnect(ctx); err != nil {
		logger.Error("mongo disconnect failed", zap.String("database", appCfg.MongoDatabase), zap.Error(err))
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	logger.Info("mongo disconnected",
		zap.String("database", appCfg.MongoDatabase),
		zap.Duration("took", time.Since(start)))
	return nil
}
