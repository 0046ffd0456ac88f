package rentals_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"renthub/internal/models"
	"renthub/internal/rentals"
)

func TestSendRequest_CreatesPending(t *testing.T) {
	e := newEnv(t)
	p := e.createProperty(t, e.landlord)

	req, err := e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, req.Status)
	assert.Equal(t, "tenant-1", req.TenantID)
	assert.Equal(t, p.ID, req.PropertyID)
	assert.False(t, req.RequestedAt.IsZero())
	assert.Nil(t, req.DecidedAt)
}

func TestSendRequest_AtMostOnePerPair(t *testing.T) {
	e := newEnv(t)
	p := e.createProperty(t, e.landlord)

	first, err := e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
	require.NoError(t, err)

	_, err = e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
	var exists rentals.RequestExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, first.ID, exists.RequestID)
	assert.Equal(t, models.StatusPending, exists.Status)

	_, err = e.workflow.Decide(e.ctx, e.landlord, first.ID, models.StatusDenied)
	require.NoError(t, err)

	_, err = e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, models.StatusDenied, exists.Status)

	requests, err := e.workflow.RequestsForTenant(e.ctx, e.tenant)
	require.NoError(t, err)
	assert.Len(t, requests, 1)

	_, err = e.workflow.SendRequest(e.ctx, e.tenant2, p.ID)
	assert.NoError(t, err)
}

func TestSendRequest_ConcurrentSendersYieldOneRequest(t *testing.T) {
	e := newEnv(t)
	p := e.createProperty(t, e.landlord)

	const senders = 8
	var wg sync.WaitGroup
	errs := make([]error, senders)
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.workflow.SendRequest(context.Background(), e.tenant, p.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var exists rentals.RequestExistsError
		var conflict rentals.WriteConflict
		assert.True(t, errors.As(err, &exists) || errors.As(err, &conflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	requests, err := e.workflow.RequestsForTenant(e.ctx, e.tenant)
	require.NoError(t, err)
	assert.Len(t, requests, 1)
}

type racingRequests struct {
	rentals.RequestStore
}

// RequestForPair always misses, as if a concurrent sender had not yet
// written when the guard was read.
func (racingRequests) RequestForPair(context.Context, string, primitive.ObjectID) (models.RentalRequest, error) {
	return models.RentalRequest{}, rentals.ErrNoDocument
}

func TestSendRequest_LostGuardRaceIsWriteConflict(t *testing.T) {
	e := newEnv(t)
	p := e.createProperty(t, e.landlord)
	workflow := rentals.NewWorkflow(e.store, racingRequests{e.store}, e.store)

	_, err := workflow.SendRequest(e.ctx, e.tenant, p.ID)
	require.NoError(t, err)

	_, err = workflow.SendRequest(e.ctx, e.tenant, p.ID)
	var conflict rentals.WriteConflict
	require.ErrorAs(t, err, &conflict)
	assert.ErrorIs(t, err, rentals.ErrDuplicate)
}

func TestSendRequest_DelistedOrMissingProperty(t *testing.T) {
	e := newEnv(t)
	p := e.createProperty(t, e.landlord)
	_, err := e.catalog.SetListed(e.ctx, e.landlord, p.ID, false)
	require.NoError(t, err)

	var nfErr rentals.NotFoundError
	_, err = e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
	assert.ErrorAs(t, err, &nfErr)

	_, err = e.workflow.SendRequest(e.ctx, e.tenant, primitive.NewObjectID())
	assert.ErrorAs(t, err, &nfErr)
}

func TestSendRequest_LandlordIsForbidden(t *testing.T) {
	e := newEnv(t)
	p := e.createProperty(t, e.landlord)

	_, err := e.workflow.SendRequest(e.ctx, e.other, p.ID)

	var fErr rentals.ForbiddenError
	assert.ErrorAs(t, err, &fErr)
}

func TestWithdraw_DecidedRequestRejectedAndUnchanged(t *testing.T) {
	for _, outcome := range []models.RequestStatus{models.StatusApproved, models.StatusDenied} {
		t.Run(string(outcome), func(t *testing.T) {
			e := newEnv(t)
			p := e.createProperty(t, e.landlord)
			req, err := e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
			require.NoError(t, err)
			decided, err := e.workflow.Decide(e.ctx, e.landlord, req.ID, outcome)
			require.NoError(t, err)

			err = e.workflow.Withdraw(e.ctx, e.tenant, req.ID)

			var notPending rentals.NotPendingError
			require.ErrorAs(t, err, &notPending)
			assert.Equal(t, outcome, notPending.Status)
			assert.Contains(t, err.Error(), "can no longer be withdrawn")

			stored, err := e.store.GetRequest(e.ctx, req.ID)
			require.NoError(t, err)
			assert.Equal(t, decided, stored)
		})
	}
}

func TestWithdraw_PendingRequestIsDeleted(t *testing.T) {
	e := newEnv(t)
	p := e.createProperty(t, e.landlord)
	req, err := e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
	require.NoError(t, err)

	require.NoError(t, e.workflow.Withdraw(e.ctx, e.tenant, req.ID))

	_, err = e.store.GetRequest(e.ctx, req.ID)
	assert.ErrorIs(t, err, rentals.ErrNoDocument)

	// Back to "none": a new request is allowed.
	_, err = e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
	assert.NoError(t, err)
}

func TestWithdraw_OtherTenantsRequestForbidden(t *testing.T) {
	e := newEnv(t)
	p := e.createProperty(t, e.landlord)
	req, err := e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
	require.NoError(t, err)

	err = e.workflow.Withdraw(e.ctx, e.tenant2, req.ID)

	var fErr rentals.ForbiddenError
	assert.ErrorAs(t, err, &fErr)
}

type decidingRequests struct {
	rentals.RequestStore
	decide func()
}

// DeletePendingRequest lets a landlord decision land between the withdraw
// guard and the delete.
func (d decidingRequests) DeletePendingRequest(ctx context.Context, id primitive.ObjectID, tenantID string) (bool, error) {
	d.decide()
	return d.RequestStore.DeletePendingRequest(ctx, id, tenantID)
}

func TestWithdraw_DecisionWinningRaceIsNotLost(t *testing.T) {
	e := newEnv(t)
	p := e.createProperty(t, e.landlord)
	req, err := e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
	require.NoError(t, err)

	racing := decidingRequests{RequestStore: e.store, decide: func() {
		_, err := e.workflow.Decide(e.ctx, e.landlord, req.ID, models.StatusApproved)
		require.NoError(t, err)
	}}
	workflow := rentals.NewWorkflow(e.store, racing, e.store)

	err = workflow.Withdraw(e.ctx, e.tenant, req.ID)

	var notPending rentals.NotPendingError
	require.ErrorAs(t, err, &notPending)
	assert.Equal(t, models.StatusApproved, notPending.Status)

	stored, err := e.store.GetRequest(e.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)
}

func TestDecide_LastWriteWins(t *testing.T) {
	e := newEnv(t)
	p := e.createProperty(t, e.landlord)
	req, err := e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
	require.NoError(t, err)

	approved, err := e.workflow.Decide(e.ctx, e.landlord, req.ID, models.StatusApproved)
	require.NoError(t, err)
	require.NotNil(t, approved.DecidedAt)

	denied, err := e.workflow.Decide(e.ctx, e.landlord, req.ID, models.StatusDenied)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDenied, denied.Status)
	require.NotNil(t, denied.DecidedAt)
	assert.True(t, denied.DecidedAt.After(*approved.DecidedAt))

	stored, err := e.store.GetRequest(e.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDenied, stored.Status)
}

func TestDecide_RequiresOwnershipAndOutcome(t *testing.T) {
	e := newEnv(t)
	p := e.createProperty(t, e.landlord)
	req, err := e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
	require.NoError(t, err)

	_, err = e.workflow.Decide(e.ctx, e.other, req.ID, models.StatusApproved)
	var fErr rentals.ForbiddenError
	assert.ErrorAs(t, err, &fErr)

	_, err = e.workflow.Decide(e.ctx, e.landlord, req.ID, models.StatusPending)
	var vErr rentals.ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = e.workflow.Decide(e.ctx, e.landlord, primitive.NewObjectID(), models.StatusApproved)
	var nfErr rentals.NotFoundError
	assert.ErrorAs(t, err, &nfErr)

	stored, err := e.store.GetRequest(e.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestDecide_DeletedPropertyIsNotFound(t *testing.T) {
	e := newEnv(t)
	p := e.createProperty(t, e.landlord)
	req, err := e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
	require.NoError(t, err)
	require.NoError(t, e.catalog.Delete(e.ctx, e.landlord, p.ID))

	_, err = e.workflow.Decide(e.ctx, e.landlord, req.ID, models.StatusApproved)

	var nfErr rentals.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "property", nfErr.Kind)
}

func TestBrowseForTenant_AnnotatesRequestStatus(t *testing.T) {
	e := newEnv(t)
	requested := e.createProperty(t, e.landlord)
	untouched := e.createProperty(t, e.landlord)
	req, err := e.workflow.SendRequest(e.ctx, e.tenant, requested.ID)
	require.NoError(t, err)

	browsed, err := e.workflow.BrowseForTenant(e.ctx, e.tenant, rentals.Page{})
	require.NoError(t, err)
	require.Len(t, browsed, 2)

	byID := map[primitive.ObjectID]models.AnnotatedProperty{}
	for _, item := range browsed {
		byID[item.ID] = item
	}
	assert.Equal(t, models.StatusPending, byID[requested.ID].RequestStatus)
	require.NotNil(t, byID[requested.ID].RequestID)
	assert.Equal(t, req.ID, *byID[requested.ID].RequestID)
	assert.Equal(t, models.StatusNone, byID[untouched.ID].RequestStatus)
	assert.Nil(t, byID[untouched.ID].RequestID)
}

func TestRequestsForLandlord_JoinsAndPlaceholders(t *testing.T) {
	e := newEnv(t)
	p := e.createProperty(t, e.landlord)

	_, err := e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
	require.NoError(t, err)
	ghost := rentals.Session{UserID: "tenant-ghost", Role: models.RoleTenant}
	_, err = e.workflow.SendRequest(e.ctx, ghost, p.ID)
	require.NoError(t, err)

	views, err := e.workflow.RequestsForLandlord(e.ctx, e.landlord)
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Newest first: the ghost tenant's request was sent last.
	assert.Equal(t, "tenant-ghost", views[0].TenantID)
	assert.Equal(t, rentals.Unknown, views[0].Tenant.Name)
	assert.Equal(t, rentals.Unknown, views[0].Tenant.Email)
	assert.Equal(t, "Tara Tenant", views[1].Tenant.Name)
	assert.Equal(t, "tara@example.com", views[1].Tenant.Email)
	assert.Equal(t, p.Label(), views[1].Property.Address)
	assert.Equal(t, p.Price, views[1].Property.Price)

	others, err := e.workflow.RequestsForLandlord(e.ctx, e.other)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestRequestsForLandlord_DeletedPropertyIsExcluded(t *testing.T) {
	e := newEnv(t)
	kept := e.createProperty(t, e.landlord)
	deleted := e.createProperty(t, e.landlord)
	_, err := e.workflow.SendRequest(e.ctx, e.tenant, kept.ID)
	require.NoError(t, err)
	_, err = e.workflow.SendRequest(e.ctx, e.tenant, deleted.ID)
	require.NoError(t, err)

	require.NoError(t, e.catalog.Delete(e.ctx, e.landlord, deleted.ID))

	views, err := e.workflow.RequestsForLandlord(e.ctx, e.landlord)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, kept.ID, views[0].PropertyID)

	// The tenant still sees the dangling request.
	requests, err := e.workflow.RequestsForTenant(e.ctx, e.tenant)
	require.NoError(t, err)
	assert.Len(t, requests, 2)
}

func TestScenario_ApprovedRequestCannotBeWithdrawn(t *testing.T) {
	e := newEnv(t)
	p := e.createProperty(t, e.landlord)

	req, err := e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, req.Status)

	_, err = e.workflow.Decide(e.ctx, e.landlord, req.ID, models.StatusApproved)
	require.NoError(t, err)

	browsed, err := e.workflow.BrowseForTenant(e.ctx, e.tenant, rentals.Page{})
	require.NoError(t, err)
	require.Len(t, browsed, 1)
	assert.Equal(t, models.StatusApproved, browsed[0].RequestStatus)

	requests, err := e.workflow.RequestsForTenant(e.ctx, e.tenant)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, models.StatusApproved, requests[0].Status)

	var notPending rentals.NotPendingError
	assert.ErrorAs(t, e.workflow.Withdraw(e.ctx, e.tenant, req.ID), &notPending)
}

func TestScenario_DelistingKeepsPendingRequest(t *testing.T) {
	e := newEnv(t)
	p := e.createProperty(t, e.landlord)
	req, err := e.workflow.SendRequest(e.ctx, e.tenant, p.ID)
	require.NoError(t, err)

	_, err = e.catalog.SetListed(e.ctx, e.landlord, p.ID, false)
	require.NoError(t, err)

	visible, err := e.catalog.ListAllVisible(e.ctx, rentals.Page{})
	require.NoError(t, err)
	for _, v := range visible {
		assert.NotEqual(t, p.ID, v.ID)
	}

	views, err := e.workflow.RequestsForLandlord(e.ctx, e.landlord)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, req.ID, views[0].ID)
	assert.Equal(t, models.StatusPending, views[0].Status)
}
