package rentals

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"renthub/internal/models"
)

// Shortlist keeps a tenant's bookmarked properties.
type Shortlist struct {
	properties PropertyStore
	entries    ShortlistStore
	now        func() time.Time
}

func NewShortlist(properties PropertyStore, entries ShortlistStore) *Shortlist {
	return &Shortlist{properties: properties, entries: entries, now: time.Now}
}

// Add bookmarks a property. Adding it again refreshes the timestamp.
func (sl *Shortlist) Add(ctx context.Context, s Session, propertyID primitive.ObjectID) (models.ShortlistEntry, error) {
	if err := s.require(models.RoleTenant); err != nil {
		return models.ShortlistEntry{}, err
	}

	if _, err := sl.properties.GetProperty(ctx, propertyID); err != nil {
		if errors.Is(err, ErrNoDocument) {
			return models.ShortlistEntry{}, NotFoundError{Kind: "property", ID: propertyID.Hex()}
		}
		return models.ShortlistEntry{}, remote("get property", err)
	}

	entry := models.ShortlistEntry{
		TenantID:   s.UserID,
		PropertyID: propertyID,
		AddedAt:    sl.now(),
	}
	if err := sl.entries.UpsertShortlist(ctx, &entry); err != nil {
		log.Println("[SHORTLIST] [ERROR] add failed:", err)
		return models.ShortlistEntry{}, remote("add to shortlist", err)
	}

	log.Printf("[SHORTLIST] [INFO] %s shortlisted %s", s.UserID, propertyID.Hex())
	return entry, nil
}

// Remove drops a bookmark. Removing a missing bookmark is not an error.
func (sl *Shortlist) Remove(ctx context.Context, s Session, propertyID primitive.ObjectID) error {
	if err := s.require(models.RoleTenant); err != nil {
		return err
	}
	if err := sl.entries.DeleteShortlist(ctx, s.UserID, propertyID); err != nil && !errors.Is(err, ErrNoDocument) {
		log.Println("[SHORTLIST] [ERROR] remove failed:", err)
		return remote("remove from shortlist", err)
	}
	return nil
}

// List returns the shortlisted properties, most recently added first.
// Bookmarks of deleted properties are skipped and each property appears once.
func (sl *Shortlist) List(ctx context.Context, s Session) ([]models.Property, error) {
	if err := s.require(models.RoleTenant); err != nil {
		return nil, err
	}

	entries, err := sl.entries.ShortlistByTenant(ctx, s.UserID)
	if err != nil {
		log.Println("[SHORTLIST] [ERROR] list failed:", err)
		return nil, remote("list shortlist", err)
	}
	if len(entries) == 0 {
		return []models.Property{}, nil
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AddedAt.After(entries[j].AddedAt)
	})

	ids := make([]primitive.ObjectID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.PropertyID)
	}

	properties, err := sl.properties.PropertiesByIDs(ctx, ids)
	if err != nil {
		log.Println("[SHORTLIST] [ERROR] load properties failed:", err)
		return nil, remote("load shortlisted properties", err)
	}

	byID := make(map[primitive.ObjectID]models.Property, len(properties))
	for _, p := range properties {
		byID[p.ID] = p
	}

	ordered := make([]models.Property, 0, len(properties))
	for _, e := range entries {
		if p, ok := byID[e.PropertyID]; ok {
			ordered = append(ordered, p)
			delete(byID, e.PropertyID)
		}
	}
	return ordered, nil
}
