package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoURIEnv names the variable that enables tests against a real MongoDB.
const MongoURIEnv = "EDUTRACK_TEST_MONGO_URI"

// SetupTestDB returns a fresh in-memory store.
func SetupTestDB(t *testing.T) *docstore.MemStore {
	t.Helper()
	return docstore.NewMemStore()
}

// SetupMongoDB connects to the MongoDB named by EDUTRACK_TEST_MONGO_URI and
// returns a uniquely named database that is dropped when the test ends.
// The test is skipped when the variable is unset.
func SetupMongoDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv(MongoURIEnv)
	if uri == "" {
		t.Skipf("%s not set; skipping MongoDB test", MongoURIEnv)
	}

	ctx, cancel := TestContext()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("mongo connect failed: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		t.Fatalf("mongo ping failed: %v", err)
	}

	db := client.Database(fmt.Sprintf("edutrack_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

// TestContext returns a context with a timeout suitable for tests.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
