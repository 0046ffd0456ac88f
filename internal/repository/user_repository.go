package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"renthub/internal/models"
)

// UserRepository reads profiles written by the sign-up flow.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(UsersCollection)}
}

func (r *UserRepository) GetUser(ctx context.Context, id string) (models.UserProfile, error) {
	var user models.UserProfile
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return models.UserProfile{}, translate(err)
	}
	return user, nil
}

func (r *UserRepository) UsersByIDs(ctx context.Context, ids []string) ([]models.UserProfile, error) {
	if len(ids) == 0 {
		return []models.UserProfile{}, nil
	}

	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]models.UserProfile, 0, len(ids))
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
