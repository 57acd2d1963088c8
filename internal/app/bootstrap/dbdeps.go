// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app. The Mongo
// fields are nil when the in-memory store is in use.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Store         docstore.Store
}
