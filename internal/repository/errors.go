package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"renthub/internal/rentals"
)

// translate maps driver errors onto the sentinels the workflow understands.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return rentals.ErrNoDocument
	case mongo.IsDuplicateKeyError(err):
		return rentals.ErrDuplicate
	default:
		return err
	}
}
