package repository

import (
	"context"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"renthub/internal/models"
)

// normalizePropertyDocument fixes up fields written by older clients before
// decoding: prices stored as strings, a missing isListed flag, missing
// timestamps.
func normalizePropertyDocument(raw bson.M) (models.Property, error) {
	if val, ok := raw["price"]; ok {
		raw["price"] = toFloat(val)
	} else {
		raw["price"] = 0.0
	}

	switch typed := raw["isListed"].(type) {
	case bool:
	case string:
		raw["isListed"] = !strings.EqualFold(strings.TrimSpace(typed), "false")
	default:
		raw["isListed"] = true
	}

	if _, ok := raw["updatedAt"]; !ok {
		if created, ok := raw["createdAt"]; ok {
			raw["updatedAt"] = created
		}
	}

	data, err := bson.Marshal(raw)
	if err != nil {
		return models.Property{}, err
	}

	var p models.Property
	if err := bson.Unmarshal(data, &p); err != nil {
		return models.Property{}, err
	}
	if p.Amenities == nil {
		p.Amenities = models.AmenityList{}
	}
	return p, nil
}

func toFloat(val interface{}) float64 {
	switch typed := val.(type) {
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int32:
		return float64(typed)
	case int64:
		return float64(typed)
	case int:
		return float64(typed)
	case string:
		cleaned := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(typed), "$"))
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return parsed
		}
	}
	return 0
}

// normalizeReferenceDocument converts a hex string propertyId into an
// ObjectID. The mobile client stored document ids as strings.
func normalizeReferenceDocument(raw bson.M) {
	if hex, ok := raw["propertyId"].(string); ok {
		if id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex)); err == nil {
			raw["propertyId"] = id
		}
	}
}

func normalizeRequestDocument(raw bson.M) (models.RentalRequest, error) {
	normalizeReferenceDocument(raw)
	if status, ok := raw["status"].(string); ok {
		raw["status"] = strings.ToLower(strings.TrimSpace(status))
	} else {
		raw["status"] = string(models.StatusPending)
	}

	data, err := bson.Marshal(raw)
	if err != nil {
		return models.RentalRequest{}, err
	}
	var r models.RentalRequest
	if err := bson.Unmarshal(data, &r); err != nil {
		return models.RentalRequest{}, err
	}
	return r, nil
}

func normalizeShortlistDocument(raw bson.M) (models.ShortlistEntry, error) {
	normalizeReferenceDocument(raw)

	data, err := bson.Marshal(raw)
	if err != nil {
		return models.ShortlistEntry{}, err
	}
	var e models.ShortlistEntry
	if err := bson.Unmarshal(data, &e); err != nil {
		return models.ShortlistEntry{}, err
	}
	return e, nil
}

// propertyRefs matches propertyId fields stored either as ObjectID or as hex.
func propertyRefs(ids ...primitive.ObjectID) bson.M {
	values := make([]interface{}, 0, len(ids)*2)
	for _, id := range ids {
		values = append(values, id, id.Hex())
	}
	return bson.M{"$in": values}
}

func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor, normalize func(bson.M) (T, error)) ([]T, error) {
	out := make([]T, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		item, err := normalize(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeOne[T any](result *mongo.SingleResult, normalize func(bson.M) (T, error)) (T, error) {
	var zero T
	var raw bson.M
	if err := result.Decode(&raw); err != nil {
		return zero, translate(err)
	}
	return normalize(raw)
}
