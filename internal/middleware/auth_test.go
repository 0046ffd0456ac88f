package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renthub/internal/models"
	"renthub/internal/rentals"
)

const secret = "test-secret"

type stubSessions map[string]rentals.Session

func (s stubSessions) Resolve(_ context.Context, userID string) (rentals.Session, error) {
	switch userID {
	case "broken":
		return rentals.Session{}, rentals.RemoteCallError{Op: "resolve", Err: errors.New("timeout")}
	case "admin":
		return rentals.Session{}, rentals.ForbiddenError{Reason: "unknown role"}
	}
	session, ok := s[userID]
	if !ok {
		return rentals.Session{}, rentals.NotFoundError{Kind: "user", ID: userID}
	}
	return session, nil
}

func sign(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return "Bearer " + token
}

func router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	sessions := stubSessions{
		"t1": {UserID: "t1", Role: models.RoleTenant},
		"l1": {UserID: "l1", Role: models.RoleLandlord},
	}
	tenant := r.Group("/tenant", Authenticate(secret, sessions), RequireRole(models.RoleTenant))
	tenant.GET("/whoami", func(c *gin.Context) {
		s, _ := CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{"userId": s.UserID, "role": s.Role})
	})
	return r
}

func call(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/tenant/whoami", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	r := router()
	exp := time.Now().Add(time.Hour).Unix()

	cases := []struct {
		name string
		auth string
		want int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Token abc", http.StatusUnauthorized},
		{"wrong secret", sign(t, jwt.MapClaims{"sub": "t1", "exp": exp}, "other"), http.StatusUnauthorized},
		{"expired", sign(t, jwt.MapClaims{"sub": "t1", "exp": time.Now().Add(-time.Hour).Unix()}, secret), http.StatusUnauthorized},
		{"no subject", sign(t, jwt.MapClaims{"exp": exp}, secret), http.StatusUnauthorized},
		{"unknown profile", sign(t, jwt.MapClaims{"sub": "ghost"}, secret), http.StatusUnauthorized},
		{"unknown role", sign(t, jwt.MapClaims{"sub": "admin"}, secret), http.StatusForbidden},
		{"profile store down", sign(t, jwt.MapClaims{"sub": "broken"}, secret), http.StatusBadGateway},
		{"wrong role", sign(t, jwt.MapClaims{"sub": "l1"}, secret), http.StatusForbidden},
		{"tenant via sub", sign(t, jwt.MapClaims{"sub": "t1", "exp": exp}, secret), http.StatusOK},
		{"tenant via legacy userId", sign(t, jwt.MapClaims{"userId": "t1"}, secret), http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := call(r, tc.auth)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestAuthenticate_RejectsNonHMACAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "t1"})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	w := call(router(), "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_StoresSession(t *testing.T) {
	w := call(router(), sign(t, jwt.MapClaims{"sub": "t1"}, secret))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"t1","role":"tenant"}`, w.Body.String())
}
