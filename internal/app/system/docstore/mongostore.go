// internal/app/system/docstore/mongostore.go
package docstore

import (
	"context"
	"errors"

	"github.com/dalemusser/edutrack/internal/app/system/txn"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// MongoStore implements Store on a MongoDB database. Transactions need a
// replica set or sharded cluster.
type MongoStore struct {
	db  *mongo.Database
	log *zap.Logger
}

// NewMongo wraps db.
func NewMongo(db *mongo.Database, log *zap.Logger) *MongoStore {
	return &MongoStore{db: db, log: log}
}

// Database exposes the underlying database (for index setup).
func (s *MongoStore) Database() *mongo.Database { return s.db }

func toBSON(f Filter) bson.M {
	m := bson.M{}
	for field, v := range f {
		if in, ok := v.(In); ok {
			m[field] = bson.M{"$in": []any(in)}
			continue
		}
		m[field] = v
	}
	return m
}

func (s *MongoStore) Get(ctx context.Context, coll string, key any, out any) error {
	return s.FindOne(ctx, coll, Filter{"_id": key}, out)
}

func (s *MongoStore) FindOne(ctx context.Context, coll string, f Filter, out any) error {
	err := s.db.Collection(coll).FindOne(ctx, toBSON(f)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (s *MongoStore) Find(ctx context.Context, coll string, f Filter, out any) error {
	cur, err := s.db.Collection(coll).Find(ctx, toBSON(f))
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}

func (s *MongoStore) Keys(ctx context.Context, coll string, f Filter) ([]any, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.db.Collection(coll).Find(ctx, toBSON(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID any `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	keys := make([]any, 0, len(rows))
	for _, r := range rows {
		keys = append(keys, r.ID)
	}
	return keys, nil
}

func (s *MongoStore) Count(ctx context.Context, coll string, f Filter) (int64, error) {
	return s.db.Collection(coll).CountDocuments(ctx, toBSON(f))
}

func (s *MongoStore) Insert(ctx context.Context, coll string, doc any) error {
	_, err := s.db.Collection(coll).InsertOne(ctx, doc)
	if wafflemongo.IsDup(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MongoStore) Update(ctx context.Context, coll string, key any, set Set, out any) error {
	res := s.db.Collection(coll).FindOneAndUpdate(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M(set)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return ErrDuplicate
		}
		return err
	}
	if out == nil {
		return nil
	}
	return res.Decode(out)
}

func (s *MongoStore) Delete(ctx context.Context, coll string, key any) (bool, error) {
	res, err := s.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoStore) DeleteMany(ctx context.Context, coll string, keys []any) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	res, err := s.db.Collection(coll).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": keys}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return txn.Run(ctx, s.db, s.log, fn)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}
