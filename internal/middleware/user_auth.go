package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"renthub/internal/rentals"
)

// SessionSource resolves an authenticated identity to a session.
type SessionSource interface {
	Resolve(ctx context.Context, userID string) (rentals.Session, error)
}

// Authenticate validates the bearer token, resolves the caller's role once
// and stores the resulting session in the context.
func Authenticate(secret string, sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := bearerSubject(c.GetHeader("Authorization"), secret)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), Timeout(c))
		defer cancel()

		session, err := sessions.Resolve(ctx, userID)
		if err != nil {
			var notFound rentals.NotFoundError
			var forbidden rentals.ForbiddenError
			switch {
			case errors.As(err, &notFound):
				log.Printf("[AUTH] [ERROR] no profile for %s", userID)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			case errors.As(err, &forbidden):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": forbidden.Error()})
			default:
				log.Println("[AUTH] [ERROR] session lookup failed:", err)
				c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "could not load user profile"})
			}
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}
