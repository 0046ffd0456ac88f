package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"renthub/internal/rentals"
)

/*
GET /tenant/shortlist
*/
func GetShortlist(shortlist *rentals.Shortlist) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /tenant/shortlist"
		defer handlePanic(c, route)

		session, ok := sessionOrAbort(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		properties, err := shortlist.List(ctx, session)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, properties)
	}
}

/*
PUT /tenant/shortlist/:propertyId
*/
func AddToShortlist(shortlist *rentals.Shortlist) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /tenant/shortlist/:propertyId"
		defer handlePanic(c, route)

		session, ok := sessionOrAbort(c, route)
		if !ok {
			return
		}
		propertyID, ok := objectIDParam(c, route, "propertyId")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		entry, err := shortlist.Add(ctx, session, propertyID)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

/*
DELETE /tenant/shortlist/:propertyId
*/
func RemoveFromShortlist(shortlist *rentals.Shortlist) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /tenant/shortlist/:propertyId"
		defer handlePanic(c, route)

		session, ok := sessionOrAbort(c, route)
		if !ok {
			return
		}
		propertyID, ok := objectIDParam(c, route, "propertyId")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := shortlist.Remove(ctx, session, propertyID); err != nil {
			respondDomainError(c, route, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
