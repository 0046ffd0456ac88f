package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"renthub/internal/models"
	"renthub/internal/rentals"
)

type pairKey struct {
	tenantID   string
	propertyID primitive.ObjectID
}

// Memory implements every store contract in process. It enforces the same
// uniqueness rules as the MongoDB indexes.
type Memory struct {
	mu         sync.RWMutex
	properties map[primitive.ObjectID]models.Property
	requests   map[primitive.ObjectID]models.RentalRequest
	pairs      map[pairKey]primitive.ObjectID
	shortlist  map[pairKey]models.ShortlistEntry
	users      map[string]models.UserProfile
}

func NewMemory() *Memory {
	return &Memory{
		properties: map[primitive.ObjectID]models.Property{},
		requests:   map[primitive.ObjectID]models.RentalRequest{},
		pairs:      map[pairKey]primitive.ObjectID{},
		shortlist:  map[pairKey]models.ShortlistEntry{},
		users:      map[string]models.UserProfile{},
	}
}

// PutUser stores or replaces a profile.
func (m *Memory) PutUser(u models.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// LoadUsers seeds profiles from a JSON array file.
func (m *Memory) LoadUsers(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var users []models.UserProfile
	if err := json.Unmarshal(data, &users); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, u := range users {
		m.PutUser(u)
	}
	return len(users), nil
}

func (m *Memory) InsertProperty(_ context.Context, p *models.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, exists := m.properties[p.ID]; exists {
		return rentals.ErrDuplicate
	}
	m.properties[p.ID] = cloneProperty(*p)
	return nil
}

func (m *Memory) GetProperty(_ context.Context, id primitive.ObjectID) (models.Property, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.properties[id]
	if !ok {
		return models.Property{}, rentals.ErrNoDocument
	}
	return cloneProperty(p), nil
}

func (m *Memory) PropertiesByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Property, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.properties[id]; ok {
			out = append(out, cloneProperty(p))
		}
	}
	return out, nil
}

func (m *Memory) ListedProperties(_ context.Context, page rentals.Page) ([]models.Property, error) {
	out := m.selectProperties(func(p models.Property) bool { return p.IsListed })
	if !page.Enabled() {
		return out, nil
	}

	start, ok := page.Skip()
	if !ok || start >= int64(len(out)) {
		return []models.Property{}, nil
	}
	end := int64(len(out))
	if page.Limit < end-start {
		end = start + page.Limit
	}
	return out[start:end], nil
}

func (m *Memory) PropertiesByOwner(_ context.Context, ownerID string) ([]models.Property, error) {
	return m.selectProperties(func(p models.Property) bool { return p.OwnerID == ownerID }), nil
}

// selectProperties returns matching properties, newest first.
func (m *Memory) selectProperties(keep func(models.Property) bool) []models.Property {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Property, 0, len(m.properties))
	for _, p := range m.properties {
		if keep(p) {
			out = append(out, cloneProperty(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *Memory) UpdateProperty(_ context.Context, id primitive.ObjectID, ownerID string, patch models.PropertyPatch, updatedAt time.Time) (models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.properties[id]
	if !ok || p.OwnerID != ownerID {
		return models.Property{}, rentals.ErrNoDocument
	}
	applyPatch(&p, patch)
	p.UpdatedAt = updatedAt
	m.properties[id] = p
	return cloneProperty(p), nil
}

func (m *Memory) SetListed(_ context.Context, id primitive.ObjectID, ownerID string, listed bool, updatedAt time.Time) (models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.properties[id]
	if !ok || p.OwnerID != ownerID {
		return models.Property{}, rentals.ErrNoDocument
	}
	p.IsListed = listed
	p.UpdatedAt = updatedAt
	m.properties[id] = p
	return cloneProperty(p), nil
}

func (m *Memory) DeleteProperty(_ context.Context, id primitive.ObjectID, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.properties[id]
	if !ok || p.OwnerID != ownerID {
		return rentals.ErrNoDocument
	}
	delete(m.properties, id)
	return nil
}

func (m *Memory) InsertRequest(_ context.Context, r *models.RentalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pairKey{tenantID: r.TenantID, propertyID: r.PropertyID}
	if _, exists := m.pairs[key]; exists {
		return rentals.ErrDuplicate
	}
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	m.requests[r.ID] = cloneRequest(*r)
	m.pairs[key] = r.ID
	return nil
}

func (m *Memory) GetRequest(_ context.Context, id primitive.ObjectID) (models.RentalRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.requests[id]
	if !ok {
		return models.RentalRequest{}, rentals.ErrNoDocument
	}
	return cloneRequest(r), nil
}

func (m *Memory) RequestForPair(_ context.Context, tenantID string, propertyID primitive.ObjectID) (models.RentalRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.pairs[pairKey{tenantID: tenantID, propertyID: propertyID}]
	if !ok {
		return models.RentalRequest{}, rentals.ErrNoDocument
	}
	return cloneRequest(m.requests[id]), nil
}

func (m *Memory) RequestsByTenant(_ context.Context, tenantID string) ([]models.RentalRequest, error) {
	return m.selectRequests(func(r models.RentalRequest) bool { return r.TenantID == tenantID }), nil
}

func (m *Memory) RequestsByProperties(_ context.Context, propertyIDs []primitive.ObjectID) ([]models.RentalRequest, error) {
	wanted := make(map[primitive.ObjectID]struct{}, len(propertyIDs))
	for _, id := range propertyIDs {
		wanted[id] = struct{}{}
	}
	return m.selectRequests(func(r models.RentalRequest) bool {
		_, ok := wanted[r.PropertyID]
		return ok
	}), nil
}

func (m *Memory) selectRequests(keep func(models.RentalRequest) bool) []models.RentalRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.RentalRequest, 0)
	for _, r := range m.requests {
		if keep(r) {
			out = append(out, cloneRequest(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RequestedAt.After(out[j].RequestedAt)
	})
	return out
}

func (m *Memory) SetRequestStatus(_ context.Context, id primitive.ObjectID, status models.RequestStatus, decidedAt time.Time) (models.RentalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.requests[id]
	if !ok {
		return models.RentalRequest{}, rentals.ErrNoDocument
	}
	r.Status = status
	r.DecidedAt = &decidedAt
	m.requests[id] = r
	return cloneRequest(r), nil
}

func (m *Memory) DeletePendingRequest(_ context.Context, id primitive.ObjectID, tenantID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.requests[id]
	if !ok || r.TenantID != tenantID || r.Status != models.StatusPending {
		return false, nil
	}
	delete(m.requests, id)
	delete(m.pairs, pairKey{tenantID: r.TenantID, propertyID: r.PropertyID})
	return true, nil
}

func (m *Memory) UpsertShortlist(_ context.Context, entry *models.ShortlistEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pairKey{tenantID: entry.TenantID, propertyID: entry.PropertyID}
	stored, ok := m.shortlist[key]
	if !ok {
		stored = models.ShortlistEntry{
			ID:         primitive.NewObjectID(),
			TenantID:   entry.TenantID,
			PropertyID: entry.PropertyID,
		}
	}
	stored.AddedAt = entry.AddedAt
	m.shortlist[key] = stored
	*entry = stored
	return nil
}

func (m *Memory) DeleteShortlist(_ context.Context, tenantID string, propertyID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.shortlist, pairKey{tenantID: tenantID, propertyID: propertyID})
	return nil
}

func (m *Memory) ShortlistByTenant(_ context.Context, tenantID string) ([]models.ShortlistEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ShortlistEntry, 0)
	for key, e := range m.shortlist {
		if key.tenantID == tenantID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AddedAt.After(out[j].AddedAt)
	})
	return out, nil
}

func (m *Memory) GetUser(_ context.Context, id string) (models.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return models.UserProfile{}, rentals.ErrNoDocument
	}
	return u, nil
}

func (m *Memory) UsersByIDs(_ context.Context, ids []string) ([]models.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.UserProfile, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func applyPatch(p *models.Property, patch models.PropertyPatch) {
	if patch.Street != nil {
		p.Street = *patch.Street
	}
	if patch.PostalCode != nil {
		p.PostalCode = *patch.PostalCode
	}
	if patch.Town != nil {
		p.Town = *patch.Town
	}
	if patch.Province != nil {
		p.Province = *patch.Province
	}
	if patch.PropertyType != nil {
		p.PropertyType = *patch.PropertyType
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Amenities != nil {
		p.Amenities = append(models.AmenityList{}, (*patch.Amenities)...)
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
}

func cloneProperty(p models.Property) models.Property {
	p.Amenities = append(models.AmenityList{}, p.Amenities...)
	return p
}

func cloneRequest(r models.RentalRequest) models.RentalRequest {
	if r.DecidedAt != nil {
		decided := *r.DecidedAt
		r.DecidedAt = &decided
	}
	return r
}
