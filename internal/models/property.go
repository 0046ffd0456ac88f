package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property is a rental unit listed by a landlord. Field names on the wire
// follow the documents written by the mobile client.
type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID      string             `bson:"uid" json:"ownerId"`
	Street       string             `bson:"address" json:"address"`
	PostalCode   string             `bson:"postalCode" json:"postalCode"`
	Town         string             `bson:"town" json:"town"`
	Province     string             `bson:"province" json:"province"`
	PropertyType string             `bson:"propertyType" json:"propertyType"`
	Price        float64            `bson:"price" json:"price"`
	Description  string             `bson:"description" json:"description"`
	Amenities    AmenityList        `bson:"amenities" json:"amenities"`
	Latitude     float64            `bson:"latitude" json:"latitude"`
	Longitude    float64            `bson:"longitude" json:"longitude"`
	ImageURL     string             `bson:"image,omitempty" json:"image,omitempty"`
	IsListed     bool               `bson:"isListed" json:"isListed"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Label is the short description shown on request cards.
func (p Property) Label() string {
	if p.Town == "" {
		return p.Street
	}
	return fmt.Sprintf("%s, %s", p.Street, p.Town)
}

// PropertyPatch carries a partial update. Nil fields are left untouched.
type PropertyPatch struct {
	Street       *string
	PostalCode   *string
	Town         *string
	Province     *string
	PropertyType *string
	Price        *float64
	Description  *string
	Amenities    *[]string
	ImageURL     *string
}

// MapMarker is the reduced property shape used by the map view.
type MapMarker struct {
	ID         primitive.ObjectID `json:"id"`
	Latitude   float64            `json:"latitude"`
	Longitude  float64            `json:"longitude"`
	Address    string             `json:"address"`
	Price      float64            `json:"price"`
	DistanceKm *float64           `json:"distanceKm,omitempty"`
}
