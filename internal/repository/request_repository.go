package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"renthub/internal/models"
)

type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(RequestsCollection)}
}

// InsertRequest relies on the tenant_property_unique index to reject a
// second request for the same pair.
func (r *RequestRepository) InsertRequest(ctx context.Context, req *models.RentalRequest) error {
	res, err := r.col.InsertOne(ctx, req)
	if err != nil {
		return translate(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		req.ID = id
	}
	return nil
}

func (r *RequestRepository) GetRequest(ctx context.Context, id primitive.ObjectID) (models.RentalRequest, error) {
	return decodeOne(r.col.FindOne(ctx, bson.M{"_id": id}), normalizeRequestDocument)
}

func (r *RequestRepository) RequestForPair(ctx context.Context, tenantID string, propertyID primitive.ObjectID) (models.RentalRequest, error) {
	filter := bson.M{"tenantId": tenantID, "propertyId": propertyRefs(propertyID)}
	return decodeOne(r.col.FindOne(ctx, filter), normalizeRequestDocument)
}

func (r *RequestRepository) RequestsByTenant(ctx context.Context, tenantID string) ([]models.RentalRequest, error) {
	return r.find(ctx, bson.M{"tenantId": tenantID})
}

func (r *RequestRepository) RequestsByProperties(ctx context.Context, propertyIDs []primitive.ObjectID) ([]models.RentalRequest, error) {
	if len(propertyIDs) == 0 {
		return []models.RentalRequest{}, nil
	}
	return r.find(ctx, bson.M{"propertyId": propertyRefs(propertyIDs...)})
}

func (r *RequestRepository) find(ctx context.Context, filter bson.M) ([]models.RentalRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "requestedAt", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeAll(ctx, cursor, normalizeRequestDocument)
}

func (r *RequestRepository) SetRequestStatus(ctx context.Context, id primitive.ObjectID, status models.RequestStatus, decidedAt time.Time) (models.RentalRequest, error) {
	result := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "decidedAt": decidedAt}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	return decodeOne(result, normalizeRequestDocument)
}

// DeletePendingRequest deletes only while the request is still pending.
func (r *RequestRepository) DeletePendingRequest(ctx context.Context, id primitive.ObjectID, tenantID string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{
		"_id":      id,
		"tenantId": tenantID,
		"status":   models.StatusPending,
	})
	if err != nil {
		return false, translate(err)
	}
	return res.DeletedCount > 0, nil
}
