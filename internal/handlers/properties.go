package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"renthub/internal/geocode"
	"renthub/internal/middleware"
	"renthub/internal/rentals"
)

// ListingRequest toggles whether a property is shown to tenants.
type ListingRequest struct {
	IsListed *bool `json:"isListed" binding:"required"`
}

/*
GET /properties/:id
Delisted properties are only returned to their owner.
*/
func GetProperty(catalog *rentals.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /properties/:id"
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

		property, err := catalog.Get(ctx, session, id)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, property)
	}
}

/*
GET /tenant/properties
Listed properties annotated with the caller's request status.
Pagination only applies when both page and limit are given.
*/
func BrowseProperties(workflow *rentals.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /tenant/properties"
		defer handlePanic(c, route)

		session, ok := sessionOrAbort(c, route)
		if !ok {
			return
		}

		page, err := pageFromQuery(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		properties, err := workflow.BrowseForTenant(ctx, session, page)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		log.Printf("[%s] returning %d properties", route, len(properties))
		if page.Enabled() {
			c.JSON(http.StatusOK, gin.H{
				"data":       properties,
				"pagination": gin.H{"page": page.Number, "limit": page.Limit},
			})
			return
		}
		c.JSON(http.StatusOK, properties)
	}
}

/*
GET /tenant/properties/map?lat=&lng=&radiusKm=
*/
func PropertyMap(catalog *rentals.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /tenant/properties/map"
		defer handlePanic(c, route)

		query, err := parseMapQuery(c.Query("lat"), c.Query("lng"), c.Query("radiusKm"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		markers, err := catalog.MapMarkers(ctx, query)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, markers)
	}
}

func parseMapQuery(latStr, lngStr, radiusStr string) (rentals.MapQuery, error) {
	latStr, lngStr, radiusStr = strings.TrimSpace(latStr), strings.TrimSpace(lngStr), strings.TrimSpace(radiusStr)
	if latStr == "" && lngStr == "" {
		if radiusStr != "" {
			return rentals.MapQuery{}, mapQueryError("radiusKm needs lat and lng")
		}
		return rentals.MapQuery{}, nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return rentals.MapQuery{}, mapQueryError("invalid lat")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil || lng < -180 || lng > 180 {
		return rentals.MapQuery{}, mapQueryError("invalid lng")
	}

	query := rentals.MapQuery{Center: &geocode.Point{Latitude: lat, Longitude: lng}}
	if radiusStr != "" {
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || radius <= 0 {
			return rentals.MapQuery{}, mapQueryError("invalid radiusKm")
		}
		query.RadiusKm = radius
	}
	return query, nil
}

type mapQueryError string

func (e mapQueryError) Error() string { return string(e) }

/*
GET /landlord/properties
*/
func ListMyProperties(catalog *rentals.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /landlord/properties"
		defer handlePanic(c, route)

		session, ok := sessionOrAbort(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		properties, err := catalog.ListByOwner(ctx, session)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, properties)
	}
}

/*
POST /landlord/properties
JSON body, or multipart/form-data with an optional "image" file.
*/
func CreateProperty(catalog *rentals.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /landlord/properties"
		defer handlePanic(c, route)

		session, ok := sessionOrAbort(c, route)
		if !ok {
			return
		}

		input, image, err := parsePropertyCreate(c)
		if err != nil {
			respondValidationError(c, err)
			return
		}

		// Geocoding and upload get a longer budget than plain reads.
		ctx, cancel := requestContextWithin(c, 3*middleware.Timeout(c))
		defer cancel()

		property, err := catalog.Create(ctx, session, input, image)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		log.Printf("[%s] created %s", route, property.ID.Hex())
		c.JSON(http.StatusCreated, property)
	}
}

/*
PUT /landlord/properties/:id
*/
func UpdateProperty(catalog *rentals.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /landlord/properties/:id"
		defer handlePanic(c, route)

		session, ok := sessionOrAbort(c, route)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		patch, image, err := parsePropertyPatch(c)
		if err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContextWithin(c, 3*middleware.Timeout(c))
		defer cancel()

		property, err := catalog.Update(ctx, session, id, patch, image)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, property)
	}
}

/*
PUT /landlord/properties/:id/listing
Body {"isListed": bool}, or an isListed form value.
*/
func SetPropertyListing(catalog *rentals.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /landlord/properties/:id/listing"
		defer handlePanic(c, route)

		session, ok := sessionOrAbort(c, route)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		var listed bool
		if strings.HasPrefix(c.GetHeader("Content-Type"), "application/json") {
			var req ListingRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				respondValidationError(c, err)
				return
			}
			listed = *req.IsListed
		} else {
			parsed, err := parseBoolValue(c.PostForm("isListed"))
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "isListed must be true or false")
				return
			}
			listed = parsed
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		property, err := catalog.SetListed(ctx, session, id, listed)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, property)
	}
}

/*
DELETE /landlord/properties/:id
Requests and shortlist entries pointing at the property are kept.
*/
func DeleteProperty(catalog *rentals.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /landlord/properties/:id"
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

		if err := catalog.Delete(ctx, session, id); err != nil {
			respondDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true, "id": id.Hex()})
	}
}
