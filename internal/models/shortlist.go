package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShortlistEntry bookmarks a property for a tenant.
type ShortlistEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID   string             `bson:"tenantId" json:"tenantId"`
	PropertyID primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	AddedAt    time.Time          `bson:"addedAt" json:"addedAt"`
}
