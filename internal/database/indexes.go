package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsurePropertyIndexes(db *mongo.Database) error {
	return ensureIndexes(db, "properties",
		mongo.IndexModel{
			Keys:    bson.D{{Key: "uid", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("uid_createdAt"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "isListed", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("isListed_createdAt"),
		},
	)
}

// EnsureRequestIndexes creates the unique (tenantId, propertyId) index that
// backs the one-request-per-pair guard.
func EnsureRequestIndexes(db *mongo.Database) error {
	return ensureIndexes(db, "rentalRequests",
		mongo.IndexModel{
			Keys: bson.D{{Key: "tenantId", Value: 1}, {Key: "propertyId", Value: 1}},
			Options: options.Index().
				SetName("tenant_property_unique").
				SetUnique(true),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "propertyId", Value: 1}},
			Options: options.Index().SetName("propertyId_index"),
		},
	)
}

func EnsureShortlistIndexes(db *mongo.Database) error {
	return ensureIndexes(db, "shortlist",
		mongo.IndexModel{
			Keys: bson.D{{Key: "tenantId", Value: 1}, {Key: "propertyId", Value: 1}},
			Options: options.Index().
				SetName("tenant_property_unique").
				SetUnique(true),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "addedAt", Value: -1}},
			Options: options.Index().SetName("tenant_addedAt"),
		},
	)
}

func EnsureUserIndexes(db *mongo.Database) error {
	return ensureIndexes(db, "users",
		mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_index"),
		},
	)
}

// EnsureAll creates every index and returns the first error. Later
// collections are still attempted.
func EnsureAll(db *mongo.Database) error {
	var first error
	for _, ensure := range []func(*mongo.Database) error{
		EnsurePropertyIndexes,
		EnsureRequestIndexes,
		EnsureShortlistIndexes,
		EnsureUserIndexes,
	} {
		if err := ensure(db); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func ensureIndexes(db *mongo.Database, collection string, models ...mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Printf("[INDEX] [INFO] creating %d index(es) on %s", len(models), collection)
	names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		log.Printf("[INDEX] [ERROR] %s index error: %v", collection, err)
		return err
	}
	log.Printf("[INDEX] [INFO] %s indexes ready: %v", collection, names)
	return nil
}
