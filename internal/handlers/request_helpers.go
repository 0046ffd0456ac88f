package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"renthub/internal/middleware"
	"renthub/internal/rentals"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondDomainError maps workflow errors onto HTTP statuses.
func respondDomainError(c *gin.Context, route string, err error) {
	var (
		validationErr rentals.ValidationError
		geocodeErr    rentals.GeocodeError
		notFoundErr   rentals.NotFoundError
		forbiddenErr  rentals.ForbiddenError
		existsErr     rentals.RequestExistsError
		notPendingErr rentals.NotPendingError
		conflictErr   rentals.WriteConflict
		remoteErr     rentals.RemoteCallError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Printf("[%s] returning error %d: %v", route, http.StatusBadRequest, err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": validationErr.Details,
		})
	case errors.As(err, &geocodeErr):
		respondWithError(c, http.StatusUnprocessableEntity, route, geocodeErr.Error())
	case errors.As(err, &notFoundErr):
		respondWithError(c, http.StatusNotFound, route, notFoundErr.Error())
	case errors.As(err, &forbiddenErr):
		respondWithError(c, http.StatusForbidden, route, forbiddenErr.Error())
	case errors.As(err, &existsErr):
		log.Printf("[%s] returning error %d: %v", route, http.StatusConflict, err)
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     existsErr.Error(),
			"requestId": existsErr.RequestID.Hex(),
			"status":    existsErr.Status,
		})
	case errors.As(err, &notPendingErr):
		log.Printf("[%s] returning error %d: %v", route, http.StatusConflict, err)
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":  notPendingErr.Error(),
			"status": notPendingErr.Status,
		})
	case errors.As(err, &conflictErr):
		respondWithError(c, http.StatusConflict, route, "a request for this property already exists")
	case errors.As(err, &remoteErr):
		log.Printf("[%s] remote call failed: %v", route, err)
		respondWithError(c, http.StatusBadGateway, route, "upstream service unavailable, please retry")
	default:
		log.Printf("[%s] unexpected error: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "internal server error")
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return requestContextWithin(c, middleware.Timeout(c))
}

func requestContextWithin(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}

func sessionOrAbort(c *gin.Context, route string) (rentals.Session, bool) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
	}
	return session, ok
}

func objectIDParam(c *gin.Context, route, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param(name)))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}
