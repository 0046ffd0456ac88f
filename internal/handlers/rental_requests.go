package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"renthub/internal/models"
	"renthub/internal/rentals"
)

type SendRequestBody struct {
	PropertyID string `json:"propertyId" binding:"required"`
}

type DecisionBody struct {
	Status string `json:"status" binding:"required,oneof=approved denied"`
}

/*
GET /tenant/requests
*/
func ListTenantRequests(workflow *rentals.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /tenant/requests"
		defer handlePanic(c, route)

		session, ok := sessionOrAbort(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		requests, err := workflow.RequestsForTenant(ctx, session)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, requests)
	}
}

/*
POST /tenant/requests
Body {"propertyId": "..."}
*/
func SendRentalRequest(workflow *rentals.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /tenant/requests"
		defer handlePanic(c, route)

		session, ok := sessionOrAbort(c, route)
		if !ok {
			return
		}

		var body SendRequestBody
		if err := c.ShouldBindJSON(&body); err != nil {
			respondValidationError(c, err)
			return
		}
		propertyID, err := primitive.ObjectIDFromHex(strings.TrimSpace(body.PropertyID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid propertyId")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		request, err := workflow.SendRequest(ctx, session, propertyID)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		log.Printf("[%s] request %s created", route, request.ID.Hex())
		c.JSON(http.StatusCreated, request)
	}
}

/*
DELETE /tenant/requests/:id
Only pending requests can be withdrawn.
*/
func WithdrawRentalRequest(workflow *rentals.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /tenant/requests/:id"
		defer handlePanic(c, route)

		session, ok := sessionOrAbort(c, route)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := workflow.Withdraw(ctx, session, id); err != nil {
			respondDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"withdrawn": true, "id": id.Hex()})
	}
}

/*
GET /landlord/requests
*/
func ListLandlordRequests(workflow *rentals.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /landlord/requests"
		defer handlePanic(c, route)

		session, ok := sessionOrAbort(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		views, err := workflow.RequestsForLandlord(ctx, session)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

/*
PUT /landlord/requests/:id/decision
Body {"status": "approved" | "denied"}
*/
func DecideRentalRequest(workflow *rentals.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /landlord/requests/:id/decision"
		defer handlePanic(c, route)

		session, ok := sessionOrAbort(c, route)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		var body DecisionBody
		if err := c.ShouldBindJSON(&body); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		request, err := workflow.Decide(ctx, session, id, models.RequestStatus(body.Status))
		if err != nil {
			respondDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, request)
	}
}
