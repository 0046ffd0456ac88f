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

// Placeholder shown when a joined property or tenant no longer exists.
const Unknown = "Unknown"

// Workflow runs the rental request state machine:
// none -> pending -> approved|denied, and pending -> none on withdrawal.
type Workflow struct {
	properties PropertyStore
	requests   RequestStore
	users      UserStore
	now        func() time.Time
}

func NewWorkflow(properties PropertyStore, requests RequestStore, users UserStore) *Workflow {
	return &Workflow{
		properties: properties,
		requests:   requests,
		users:      users,
		now:        time.Now,
	}
}

// SendRequest creates a pending request for a listed property. Any existing
// request for the same tenant and property blocks a new one.
func (w *Workflow) SendRequest(ctx context.Context, s Session, propertyID primitive.ObjectID) (models.RentalRequest, error) {
	if err := s.require(models.RoleTenant); err != nil {
		return models.RentalRequest{}, err
	}

	property, err := w.properties.GetProperty(ctx, propertyID)
	if errors.Is(err, ErrNoDocument) || (err == nil && !property.IsListed) {
		return models.RentalRequest{}, NotFoundError{Kind: "property", ID: propertyID.Hex()}
	}
	if err != nil {
		return models.RentalRequest{}, remote("get property", err)
	}

	existing, err := w.requests.RequestForPair(ctx, s.UserID, propertyID)
	if err == nil {
		return models.RentalRequest{}, RequestExistsError{RequestID: existing.ID, Status: existing.Status}
	}
	if !errors.Is(err, ErrNoDocument) {
		log.Println("[REQUEST] [ERROR] existing request lookup failed:", err)
		return models.RentalRequest{}, remote("find request", err)
	}

	request := models.RentalRequest{
		TenantID:    s.UserID,
		PropertyID:  propertyID,
		Status:      models.StatusPending,
		RequestedAt: w.now(),
	}
	if err := w.requests.InsertRequest(ctx, &request); err != nil {
		if errors.Is(err, ErrDuplicate) {
			log.Printf("[REQUEST] [WARN] concurrent request for tenant=%s property=%s", s.UserID, propertyID.Hex())
			return models.RentalRequest{}, WriteConflict{Op: "send request", Err: err}
		}
		log.Println("[REQUEST] [ERROR] insert request failed:", err)
		return models.RentalRequest{}, remote("send request", err)
	}

	log.Printf("[REQUEST] [INFO] request %s sent by %s for %s", request.ID.Hex(), s.UserID, propertyID.Hex())
	return request, nil
}

// Decide records the landlord's outcome. A second decision overwrites the
// first.
func (w *Workflow) Decide(ctx context.Context, s Session, requestID primitive.ObjectID, outcome models.RequestStatus) (models.RentalRequest, error) {
	if err := s.require(models.RoleLandlord); err != nil {
		return models.RentalRequest{}, err
	}
	if !outcome.IsDecision() {
		return models.RentalRequest{}, ValidationError{Details: []string{"status must be approved or denied"}}
	}

	request, err := w.requests.GetRequest(ctx, requestID)
	if errors.Is(err, ErrNoDocument) {
		return models.RentalRequest{}, NotFoundError{Kind: "request", ID: requestID.Hex()}
	}
	if err != nil {
		return models.RentalRequest{}, remote("get request", err)
	}

	property, err := w.properties.GetProperty(ctx, request.PropertyID)
	if errors.Is(err, ErrNoDocument) {
		return models.RentalRequest{}, NotFoundError{Kind: "property", ID: request.PropertyID.Hex()}
	}
	if err != nil {
		return models.RentalRequest{}, remote("get property", err)
	}
	if property.OwnerID != s.UserID {
		return models.RentalRequest{}, ForbiddenError{Reason: "request is for another landlord's property"}
	}

	updated, err := w.requests.SetRequestStatus(ctx, requestID, outcome, w.now())
	if errors.Is(err, ErrNoDocument) {
		return models.RentalRequest{}, NotFoundError{Kind: "request", ID: requestID.Hex()}
	}
	if err != nil {
		log.Println("[REQUEST] [ERROR] decide failed:", err)
		return models.RentalRequest{}, remote("decide request", err)
	}

	log.Printf("[REQUEST] [INFO] request %s %s by %s", requestID.Hex(), outcome, s.UserID)
	return updated, nil
}

// Withdraw deletes a pending request of the acting tenant.
func (w *Workflow) Withdraw(ctx context.Context, s Session, requestID primitive.ObjectID) error {
	if err := s.require(models.RoleTenant); err != nil {
		return err
	}

	request, err := w.requests.GetRequest(ctx, requestID)
	if errors.Is(err, ErrNoDocument) {
		return NotFoundError{Kind: "request", ID: requestID.Hex()}
	}
	if err != nil {
		return remote("get request", err)
	}
	if request.TenantID != s.UserID {
		return ForbiddenError{Reason: "request belongs to another tenant"}
	}
	if request.Status != models.StatusPending {
		return NotPendingError{RequestID: requestID, Status: request.Status}
	}

	deleted, err := w.requests.DeletePendingRequest(ctx, requestID, s.UserID)
	if err != nil {
		log.Println("[REQUEST] [ERROR] withdraw failed:", err)
		return remote("withdraw request", err)
	}
	if !deleted {
		// Decided or removed between the read and the delete.
		current, err := w.requests.GetRequest(ctx, requestID)
		if errors.Is(err, ErrNoDocument) {
			return NotFoundError{Kind: "request", ID: requestID.Hex()}
		}
		if err != nil {
			return remote("get request", err)
		}
		return NotPendingError{RequestID: requestID, Status: current.Status}
	}

	log.Printf("[REQUEST] [INFO] request %s withdrawn by %s", requestID.Hex(), s.UserID)
	return nil
}

// RequestsForTenant lists every request the tenant has made, newest first.
func (w *Workflow) RequestsForTenant(ctx context.Context, s Session) ([]models.RentalRequest, error) {
	if err := s.require(models.RoleTenant); err != nil {
		return nil, err
	}
	requests, err := w.requests.RequestsByTenant(ctx, s.UserID)
	if err != nil {
		log.Println("[REQUEST] [ERROR] tenant requests failed:", err)
		return nil, remote("list tenant requests", err)
	}
	sortRequests(requests)
	return requests, nil
}

// BrowseForTenant returns listed properties annotated with the tenant's
// request status for each.
func (w *Workflow) BrowseForTenant(ctx context.Context, s Session, page Page) ([]models.AnnotatedProperty, error) {
	requests, err := w.RequestsForTenant(ctx, s)
	if err != nil {
		return nil, err
	}

	properties, err := w.properties.ListedProperties(ctx, page)
	if err != nil {
		log.Println("[REQUEST] [ERROR] browse properties failed:", err)
		return nil, remote("list properties", err)
	}

	byProperty := make(map[primitive.ObjectID]models.RentalRequest, len(requests))
	for _, r := range requests {
		if _, seen := byProperty[r.PropertyID]; !seen {
			byProperty[r.PropertyID] = r
		}
	}

	annotated := make([]models.AnnotatedProperty, 0, len(properties))
	for _, p := range properties {
		item := models.AnnotatedProperty{Property: p, RequestStatus: models.StatusNone}
		if r, ok := byProperty[p.ID]; ok {
			id := r.ID
			item.RequestStatus = r.Status
			item.RequestID = &id
		}
		annotated = append(annotated, item)
	}
	return annotated, nil
}

// RequestsForLandlord lists requests against the landlord's properties with
// property and tenant details joined in.
func (w *Workflow) RequestsForLandlord(ctx context.Context, s Session) ([]models.LandlordRequestView, error) {
	if err := s.require(models.RoleLandlord); err != nil {
		return nil, err
	}

	properties, err := w.properties.PropertiesByOwner(ctx, s.UserID)
	if err != nil {
		log.Println("[REQUEST] [ERROR] landlord properties failed:", err)
		return nil, remote("list own properties", err)
	}
	if len(properties) == 0 {
		return []models.LandlordRequestView{}, nil
	}

	propertyByID := make(map[primitive.ObjectID]models.Property, len(properties))
	propertyIDs := make([]primitive.ObjectID, 0, len(properties))
	for _, p := range properties {
		propertyByID[p.ID] = p
		propertyIDs = append(propertyIDs, p.ID)
	}

	requests, err := w.requests.RequestsByProperties(ctx, propertyIDs)
	if err != nil {
		log.Println("[REQUEST] [ERROR] landlord requests failed:", err)
		return nil, remote("list landlord requests", err)
	}
	sortRequests(requests)

	tenantByID := w.tenants(ctx, requests)

	views := make([]models.LandlordRequestView, 0, len(requests))
	for _, r := range requests {
		view := models.LandlordRequestView{
			RentalRequest: r,
			Property:      models.PropertySummary{ID: r.PropertyID, Address: Unknown},
			Tenant:        models.TenantSummary{ID: r.TenantID, Name: Unknown, Email: Unknown},
		}
		if p, ok := propertyByID[r.PropertyID]; ok {
			view.Property.Address = p.Label()
			view.Property.Price = p.Price
		}
		if t, ok := tenantByID[r.TenantID]; ok {
			view.Tenant.Name = t.Name
			view.Tenant.Email = t.Email
		}
		views = append(views, view)
	}
	return views, nil
}

// tenants loads the profiles of the requesting tenants in one batch. A failed
// lookup degrades to placeholders instead of failing the list.
func (w *Workflow) tenants(ctx context.Context, requests []models.RentalRequest) map[string]models.UserProfile {
	seen := map[string]struct{}{}
	ids := make([]string, 0, len(requests))
	for _, r := range requests {
		if _, ok := seen[r.TenantID]; ok {
			continue
		}
		seen[r.TenantID] = struct{}{}
		ids = append(ids, r.TenantID)
	}

	out := make(map[string]models.UserProfile, len(ids))
	if len(ids) == 0 {
		return out
	}

	profiles, err := w.users.UsersByIDs(ctx, ids)
	if err != nil {
		log.Println("[REQUEST] [WARN] tenant profile lookup failed, using placeholders:", err)
		return out
	}
	for _, p := range profiles {
		out[p.ID] = p
	}
	return out
}

func sortRequests(requests []models.RentalRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].RequestedAt.After(requests[j].RequestedAt)
	})
}
