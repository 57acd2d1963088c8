// internal/app/system/cascade/engine.go
//
// Package cascade deletes a root entity together with everything that
// references it, directly or transitively, in one transaction.
package cascade

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/edutrack/internal/app/system/apperr"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"go.uber.org/zap"
)

// Report describes a committed cascade.
type Report struct {
	Root    RootKind         `json:"root"`
	Key     any              `json:"key"`
	Deleted map[string]int64 `json:"deleted"`
}

// Total is the number of documents removed, root included.
func (r Report) Total() int64 {
	var n int64
	for _, c := range r.Deleted {
		n += c
	}
	return n
}

// Engine runs cascading deletes.
type Engine struct {
	ds      docstore.Store
	log     *zap.Logger
	metrics *Metrics
}

// New returns an Engine. metrics may be nil.
func New(ds docstore.Store, log *zap.Logger, metrics *Metrics) *Engine {
	return &Engine{ds: ds, log: log, metrics: metrics}
}

// step is one batch delete in the plan.
type step struct {
	coll string
	keys []any
}

// Delete removes the root of kind k with the given key and its closure.
//
// The root is looked up inside the transaction; if it is absent the call
// fails with NotFound before anything is written. Any later failure aborts
// the transaction and is returned as TransactionFailure. Nothing is retried.
func (e *Engine) Delete(ctx context.Context, k RootKind, key any) (Report, error) {
	t, ok := trees[k]
	if !ok {
		return Report{}, apperr.Validation(fmt.Sprintf("no cascade for %q", k))
	}

	start := time.Now()
	var rep Report
	err := e.ds.WithTransaction(ctx, func(ctx context.Context) error {
		rep = Report{Root: k, Key: key, Deleted: map[string]int64{}}

		rootFilter := docstore.Filter{"_id": key}
		for f, v := range t.where {
			rootFilter[f] = v
		}
		n, err := e.ds.Count(ctx, t.coll, rootFilter)
		if err != nil {
			return fmt.Errorf("look up %s: %w", k, err)
		}
		if n == 0 {
			return apperr.NotFound(string(k))
		}

		plan, err := e.plan(ctx, t, key)
		if err != nil {
			return err
		}
		for _, s := range plan {
			n, err := e.ds.DeleteMany(ctx, s.coll, s.keys)
			if err != nil {
				return fmt.Errorf("delete %s: %w", s.coll, err)
			}
			rep.Deleted[s.coll] += n
		}

		removed, err := e.ds.Delete(ctx, t.coll, key)
		if err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
		if !removed {
			// A concurrent cascade got there first.
			return apperr.NotFound(string(k))
		}
		rep.Deleted[t.coll]++
		return nil
	})
	elapsed := time.Since(start)

	if err != nil {
		outcome := "aborted"
		if apperr.Is(err, apperr.KindNotFound) {
			outcome = "not_found"
		} else {
			err = apperr.TransactionFailure(err)
		}
		e.metrics.observe(k, outcome, elapsed, Report{})
		e.log.Warn("cascade did not commit",
			zap.String("root", string(k)),
			zap.Any("key", key),
			zap.String("outcome", outcome),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return Report{}, err
	}

	e.metrics.observe(k, "committed", elapsed, rep)
	e.log.Info("cascade committed",
		zap.String("root", string(k)),
		zap.Any("key", key),
		zap.Any("deleted", rep.Deleted),
		zap.Int64("total", rep.Total()),
		zap.Duration("elapsed", elapsed))
	return rep, nil
}

// plan walks the rule tree and returns the deletes to run, deepest first.
// A document reached by more than one path is deleted once.
func (e *Engine) plan(ctx context.Context, t tree, key any) ([]step, error) {
	var steps []step
	seen := map[string]map[any]bool{}

	var walk func(rules []rule, parents []any) error
	walk = func(rules []rule, parents []any) error {
		for _, r := range rules {
			keys, err := e.ds.Keys(ctx, r.coll, docstore.Filter{r.field: docstore.In(parents)})
			if err != nil {
				return fmt.Errorf("find %s by %s: %w", r.coll, r.field, err)
			}
			if len(keys) == 0 {
				continue
			}
			// Children are looked up from every match, even ones already
			// scheduled through another path, so the closure is complete.
			if err := walk(r.children, keys); err != nil {
				return err
			}
			fresh := keys[:0:0]
			if seen[r.coll] == nil {
				seen[r.coll] = map[any]bool{}
			}
			for _, k := range keys {
				if !seen[r.coll][k] {
					seen[r.coll][k] = true
					fresh = append(fresh, k)
				}
			}
			if len(fresh) > 0 {
				steps = append(steps, step{coll: r.coll, keys: fresh})
			}
		}
		return nil
	}

	if err := walk(t.rules, []any{key}); err != nil {
		return nil, err
	}
	return steps, nil
}
