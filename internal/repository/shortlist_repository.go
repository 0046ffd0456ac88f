package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"renthub/internal/models"
)

// ShortlistRepository stores each tenant's shortlist as documents scoped by
// tenantId.
type ShortlistRepository struct {
	col *mongo.Collection
}

func NewShortlistRepository(db *mongo.Database) *ShortlistRepository {
	return &ShortlistRepository{col: db.Collection(ShortlistCollection)}
}

// UpsertShortlist refreshes an existing entry, including one whose propertyId
// was stored as a hex string, or inserts a new one.
func (r *ShortlistRepository) UpsertShortlist(ctx context.Context, entry *models.ShortlistEntry) error {
	result := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"tenantId": entry.TenantID, "propertyId": propertyRefs(entry.PropertyID)},
		bson.M{
			"$set":         bson.M{"addedAt": entry.AddedAt},
			"$setOnInsert": bson.M{"propertyId": entry.PropertyID},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	stored, err := decodeOne(result, normalizeShortlistDocument)
	if err != nil {
		return err
	}
	*entry = stored
	return nil
}

func (r *ShortlistRepository) DeleteShortlist(ctx context.Context, tenantID string, propertyID primitive.ObjectID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"tenantId": tenantID, "propertyId": propertyRefs(propertyID)})
	return translate(err)
}

func (r *ShortlistRepository) ShortlistByTenant(ctx context.Context, tenantID string) ([]models.ShortlistEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"tenantId": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeAll(ctx, cursor, normalizeShortlistDocument)
}
