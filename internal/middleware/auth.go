package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"renthub/internal/models"
	"renthub/internal/rentals"
)

const sessionKey = "session"

var errMissingSubject = errors.New("subject claim missing")

// bearerSubject verifies an HS256 bearer token and returns the identity it
// carries in "sub", falling back to the legacy "userId" claim.
func bearerSubject(header, secret string) (string, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return "", errors.New("missing token")
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid token format")
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("token invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("token claims invalid")
	}

	if sub, err := claims.GetSubject(); err == nil && strings.TrimSpace(sub) != "" {
		return strings.TrimSpace(sub), nil
	}
	if legacy, ok := claims["userId"].(string); ok && strings.TrimSpace(legacy) != "" {
		return strings.TrimSpace(legacy), nil
	}
	return "", errMissingSubject
}

// RequireRole rejects sessions outside the allowed roles. It must run after
// Authenticate.
func RequireRole(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := CurrentSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		for _, r := range allowedRoles {
			if session.Role == r {
				c.Next()
				return
			}
		}

		log.Printf("[AUTH] [WARN] %s with role %s denied %s", session.UserID, session.Role, c.FullPath())
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

// CurrentSession returns the session stored by Authenticate.
func CurrentSession(c *gin.Context) (rentals.Session, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return rentals.Session{}, false
	}
	session, ok := value.(rentals.Session)
	return session, ok
}
