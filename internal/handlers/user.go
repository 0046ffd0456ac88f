package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"renthub/internal/rentals"
)

/*
GET /me
Profile of the caller with the role resolved for this session.
*/
func GetMe(resolver *rentals.SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /me"
		defer handlePanic(c, route)

		session, ok := sessionOrAbort(c, route)
		if !ok {
			log.Println("[AUTH] [ERROR] session missing in context")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		profile, err := resolver.Profile(ctx, session)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":    profile.ID,
			"name":  profile.Name,
			"email": profile.Email,
			"role":  session.Role,
		})
	}
}
