package rentals

import (
	"context"
	"math"
	"time"

	"renthub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Page selects a slice of a listing. The zero value means everything.
type Page struct {
	Number int64
	Limit  int64
}

func (p Page) Enabled() bool {
	return p.Number > 0 && p.Limit > 0
}

// Skip is the number of items before the page. It reports false when the
// offset does not fit in an int64.
func (p Page) Skip() (int64, bool) {
	if !p.Enabled() || p.Number-1 > math.MaxInt64/p.Limit {
		return 0, false
	}
	return (p.Number - 1) * p.Limit, true
}

// PropertyStore persists properties. Lookups of a missing id return ErrNoDocument.
type PropertyStore interface {
	InsertProperty(ctx context.Context, p *models.Property) error
	GetProperty(ctx context.Context, id primitive.ObjectID) (models.Property, error)
	PropertiesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error)
	ListedProperties(ctx context.Context, page Page) ([]models.Property, error)
	PropertiesByOwner(ctx context.Context, ownerID string) ([]models.Property, error)
	UpdateProperty(ctx context.Context, id primitive.ObjectID, ownerID string, patch models.PropertyPatch, updatedAt time.Time) (models.Property, error)
	SetListed(ctx context.Context, id primitive.ObjectID, ownerID string, listed bool, updatedAt time.Time) (models.Property, error)
	DeleteProperty(ctx context.Context, id primitive.ObjectID, ownerID string) error
}

// RequestStore persists rental requests. InsertRequest returns ErrDuplicate
// when a request for the same tenant and property already exists.
type RequestStore interface {
	InsertRequest(ctx context.Context, r *models.RentalRequest) error
	GetRequest(ctx context.Context, id primitive.ObjectID) (models.RentalRequest, error)
	RequestForPair(ctx context.Context, tenantID string, propertyID primitive.ObjectID) (models.RentalRequest, error)
	RequestsByTenant(ctx context.Context, tenantID string) ([]models.RentalRequest, error)
	RequestsByProperties(ctx context.Context, propertyIDs []primitive.ObjectID) ([]models.RentalRequest, error)
	SetRequestStatus(ctx context.Context, id primitive.ObjectID, status models.RequestStatus, decidedAt time.Time) (models.RentalRequest, error)
	DeletePendingRequest(ctx context.Context, id primitive.ObjectID, tenantID string) (bool, error)
}

type ShortlistStore interface {
	UpsertShortlist(ctx context.Context, entry *models.ShortlistEntry) error
	DeleteShortlist(ctx context.Context, tenantID string, propertyID primitive.ObjectID) error
	ShortlistByTenant(ctx context.Context, tenantID string) ([]models.ShortlistEntry, error)
}

type UserStore interface {
	GetUser(ctx context.Context, id string) (models.UserProfile, error)
	UsersByIDs(ctx context.Context, ids []string) ([]models.UserProfile, error)
}
