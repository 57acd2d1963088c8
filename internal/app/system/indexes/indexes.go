// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/edutrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

Every foreign-key field the cascade engine queries by has an index, so a
cascade never scans a collection.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	sets := []struct {
		coll    string
		indexes []mongo.IndexModel
	}{
		{models.CollInstitutes, institutes()},
		{models.CollBranches, branches()},
		{models.CollLevels, levels()},
		{models.CollBatches, batches()},
		{models.CollCategories, categories()},
		{models.CollActivities, activities()},
		{models.CollVideos, videos()},
		{models.CollUsers, users()},
	}
	for _, s := range sets {
		if err := ensureIndexSet(ctx, db.Collection(s.coll), s.indexes); err != nil {
			problems = append(problems, s.coll+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	return (a != nil && *a) == (b != nil && *b)
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	return strings.Contains(err.Error(), "E11000")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, want []mongo.IndexModel) error {
	var errs []string
	existing := listExisting(ctx, coll)

	for _, m := range want {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		desiredSig := keySig(m.Keys.(bson.D))
		unique := desiredUnique != nil && *desiredUnique
		start := time.Now()

		if ex, ok := existing[desiredSig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) && (desiredName == "" || ex.Name == desiredName) {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig))
				continue
			}
			// Options or name differ: drop and recreate below.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			if isDuplicateKeyErr(err) && unique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", unique),
				zap.Error(err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", created),
			zap.String("keys", desiredSig),
			zap.Bool("unique", unique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func idx(name string, keys ...string) mongo.IndexModel {
	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: 1})
	}
	return mongo.IndexModel{Keys: d, Options: options.Index().SetName(name)}
}

func uniq(name string, keys ...string) mongo.IndexModel {
	m := idx(name, keys...)
	m.Options.SetUnique(true)
	return m
}

func institutes() []mongo.IndexModel {
	return []mongo.IndexModel{
		uniq("uniq_institutes_nameci", "name_ci"),
	}
}

func branches() []mongo.IndexModel {
	return []mongo.IndexModel{
		uniq("uniq_branches_institute_nameci", "institute_id", "name_ci"),
	}
}

func levels() []mongo.IndexModel {
	return []mongo.IndexModel{
		uniq("uniq_levels_nameci", "name_ci"),
	}
}

func batches() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Batch references are optional, so name uniqueness is enforced by
		// the store's pre-check rather than a unique index.
		idx("idx_batches_level_institute_nameci", "level_id", "institute_id", "name_ci"),
		idx("idx_batches_branch", "branch_id"),
		idx("idx_batches_institute", "institute_id"),
	}
}

func categories() []mongo.IndexModel {
	return []mongo.IndexModel{
		uniq("uniq_categories_level_nameci", "level_id", "name_ci"),
	}
}

func activities() []mongo.IndexModel {
	return []mongo.IndexModel{
		uniq("uniq_activities_category_nameci", "category_id", "name_ci"),
	}
}

func videos() []mongo.IndexModel {
	return []mongo.IndexModel{
		idx("idx_videos_category", "category_id"),
	}
}

func users() []mongo.IndexModel {
	email := uniq("uniq_users_emailci", "email_ci")
	email.Options.SetPartialFilterExpression(bson.M{"email_ci": bson.M{"$exists": true}})

	mobile := uniq("uniq_users_mobile", "mobile")
	mobile.Options.SetPartialFilterExpression(bson.M{"mobile": bson.M{"$exists": true}})

	// At most one document can match role=SUPERADMIN.
	super := uniq("uniq_users_superadmin", "role")
	super.Options.SetPartialFilterExpression(bson.M{"role": models.RoleSuperAdmin})

	return []mongo.IndexModel{
		email,
		mobile,
		super,
		idx("idx_users_parent", "parent_id"),
		idx("idx_users_batch", "batch_id"),
		idx("idx_users_branch", "branch_id"),
		idx("idx_users_institute", "institute_id"),
	}
}
