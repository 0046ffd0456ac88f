package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"renthub/internal/models"
	"renthub/internal/rentals"
)

const (
	PropertiesCollection = "properties"
	RequestsCollection   = "rentalRequests"
	ShortlistCollection  = "shortlist"
	UsersCollection      = "users"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection(PropertiesCollection)}
}

func (r *PropertyRepository) InsertProperty(ctx context.Context, p *models.Property) error {
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return translate(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

func (r *PropertyRepository) GetProperty(ctx context.Context, id primitive.ObjectID) (models.Property, error) {
	return decodeOne(r.col.FindOne(ctx, bson.M{"_id": id}), normalizePropertyDocument)
}

func (r *PropertyRepository) PropertiesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error) {
	if len(ids) == 0 {
		return []models.Property{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

func (r *PropertyRepository) ListedProperties(ctx context.Context, page rentals.Page) ([]models.Property, error) {
	opts := options.Find().SetSort(newestFirst)
	if page.Enabled() {
		skip, ok := page.Skip()
		if !ok {
			return []models.Property{}, nil
		}
		opts.SetSkip(skip).SetLimit(page.Limit)
	}
	return r.find(ctx, bson.M{"isListed": bson.M{"$ne": false}}, opts)
}

func (r *PropertyRepository) PropertiesByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	return r.find(ctx, bson.M{"uid": ownerID}, options.Find().SetSort(newestFirst))
}

func (r *PropertyRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Property, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeAll(ctx, cursor, normalizePropertyDocument)
}

func (r *PropertyRepository) UpdateProperty(ctx context.Context, id primitive.ObjectID, ownerID string, patch models.PropertyPatch, updatedAt time.Time) (models.Property, error) {
	set := patchSet(patch)
	set["updatedAt"] = updatedAt
	return r.updateOwned(ctx, id, ownerID, set)
}

func (r *PropertyRepository) SetListed(ctx context.Context, id primitive.ObjectID, ownerID string, listed bool, updatedAt time.Time) (models.Property, error) {
	return r.updateOwned(ctx, id, ownerID, bson.M{"isListed": listed, "updatedAt": updatedAt})
}

func (r *PropertyRepository) updateOwned(ctx context.Context, id primitive.ObjectID, ownerID string, set bson.M) (models.Property, error) {
	result := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "uid": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	return decodeOne(result, normalizePropertyDocument)
}

func (r *PropertyRepository) DeleteProperty(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "uid": ownerID})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return rentals.ErrNoDocument
	}
	return nil
}

// patchSet converts a partial update into a $set document.
func patchSet(patch models.PropertyPatch) bson.M {
	set := bson.M{}
	if patch.Street != nil {
		set["address"] = *patch.Street
	}
	if patch.PostalCode != nil {
		set["postalCode"] = *patch.PostalCode
	}
	if patch.Town != nil {
		set["town"] = *patch.Town
	}
	if patch.Province != nil {
		set["province"] = *patch.Province
	}
	if patch.PropertyType != nil {
		set["propertyType"] = *patch.PropertyType
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Amenities != nil {
		set["amenities"] = models.AmenityList(*patch.Amenities)
	}
	if patch.ImageURL != nil {
		set["image"] = *patch.ImageURL
	}
	return set
}
