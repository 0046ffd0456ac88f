package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string

const (
	StatusNone     RequestStatus = "none"
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusDenied   RequestStatus = "denied"
)

// IsDecision reports whether s is an outcome a landlord may record.
func (s RequestStatus) IsDecision() bool {
	return s == StatusApproved || s == StatusDenied
}

// RentalRequest is a tenant's interest in a property.
type RentalRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID    string             `bson:"tenantId" json:"tenantId"`
	PropertyID  primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	Status      RequestStatus      `bson:"status" json:"status"`
	RequestedAt time.Time          `bson:"requestedAt" json:"requestedAt"`
	DecidedAt   *time.Time         `bson:"decidedAt,omitempty" json:"decidedAt,omitempty"`
}

// PropertySummary is the denormalised property shown next to a request.
type PropertySummary struct {
	ID      primitive.ObjectID `json:"id"`
	Address string             `json:"address"`
	Price   float64            `json:"price"`
}

// TenantSummary is the denormalised tenant shown next to a request.
type TenantSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LandlordRequestView joins a request with its property and tenant.
type LandlordRequestView struct {
	RentalRequest
	Property PropertySummary `json:"property"`
	Tenant   TenantSummary   `json:"tenant"`
}

// AnnotatedProperty is a browsable property with the viewer's request status.
type AnnotatedProperty struct {
	Property
	RequestStatus RequestStatus       `json:"requestStatus"`
	RequestID     *primitive.ObjectID `json:"requestId,omitempty"`
}
