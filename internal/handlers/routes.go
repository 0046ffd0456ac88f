package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"renthub/internal/middleware"
	"renthub/internal/models"
	"renthub/internal/rentals"
)

// Services bundles what the routes call into.
type Services struct {
	JWTSecret string
	Timeout   time.Duration
	Sessions  *rentals.SessionResolver
	Catalog   *rentals.Catalog
	Workflow  *rentals.Workflow
	Shortlist *rentals.Shortlist
	Health    map[string]Pinger
}

func RegisterRoutes(r *gin.Engine, s Services) {
	r.Use(middleware.Deadline(s.Timeout))
	r.GET("/healthz", Health(s.Health))

	authed := r.Group("/")
	authed.Use(middleware.Authenticate(s.JWTSecret, s.Sessions))
	{
		authed.GET("/me", GetMe(s.Sessions))
		authed.GET("/properties/:id", GetProperty(s.Catalog))
	}

	tenant := r.Group("/tenant")
	tenant.Use(middleware.Authenticate(s.JWTSecret, s.Sessions), middleware.RequireRole(models.RoleTenant))
	{
		tenant.GET("/properties", BrowseProperties(s.Workflow))
		tenant.GET("/properties/map", PropertyMap(s.Catalog))

		tenant.GET("/requests", ListTenantRequests(s.Workflow))
		tenant.POST("/requests", SendRentalRequest(s.Workflow))
		tenant.DELETE("/requests/:id", WithdrawRentalRequest(s.Workflow))

		tenant.GET("/shortlist", GetShortlist(s.Shortlist))
		tenant.PUT("/shortlist/:propertyId", AddToShortlist(s.Shortlist))
		tenant.DELETE("/shortlist/:propertyId", RemoveFromShortlist(s.Shortlist))
	}

	landlord := r.Group("/landlord")
	landlord.Use(middleware.Authenticate(s.JWTSecret, s.Sessions), middleware.RequireRole(models.RoleLandlord))
	{
		landlord.GET("/properties", ListMyProperties(s.Catalog))
		landlord.POST("/properties", CreateProperty(s.Catalog))
		landlord.PUT("/properties/:id", UpdateProperty(s.Catalog))
		landlord.PUT("/properties/:id/listing", SetPropertyListing(s.Catalog))
		landlord.DELETE("/properties/:id", DeleteProperty(s.Catalog))

		landlord.GET("/requests", ListLandlordRequests(s.Workflow))
		landlord.PUT("/requests/:id/decision", DecideRentalRequest(s.Workflow))
	}
}
