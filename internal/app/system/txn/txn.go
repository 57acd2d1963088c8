// internal/app/system/txn/txn.go
package txn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a MongoDB multi-document transaction.
//
// fn must use the ctx it is given so every operation is bound to the session.
// If ctx already carries a session, fn joins that transaction and commit is
// left to the outer Run. There are no retries: the first error aborts the
// transaction and is returned to the caller.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	sess, err := db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(context.WithoutCancel(ctx))

	if err := sess.StartTransaction(); err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	sc := mongo.NewSessionContext(ctx, sess)

	if err := fn(sc); err != nil {
		abort(ctx, sess, log)
		if IsNotSupported(err) {
			log.Error("transactions are not supported by this deployment; a replica set is required",
				zap.Error(err))
		}
		return err
	}

	if err := sess.CommitTransaction(sc); err != nil {
		abort(ctx, sess, log)
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func abort(ctx context.Context, sess mongo.Session, log *zap.Logger) {
	// The caller's ctx may already be done; abort must still reach the server.
	if err := sess.AbortTransaction(context.WithoutCancel(ctx)); err != nil {
		log.Warn("abort transaction failed", zap.Error(err))
	}
}

// IsNotSupported reports whether err indicates the server cannot run
// transactions (standalone mongod, or a session in the wrong state).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set"):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "session"):
		return true
	case strings.Contains(msg, "illegal operation"):
		return true
	}
	return false
}
