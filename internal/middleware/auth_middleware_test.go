package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viaflight/layover-planner/pkg/jwt"
)

func setupRouter(jwtService *jwt.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(OptionalAuth(jwtService))
	router.GET("/whoami", func(c *gin.Context) {
		if userCtx, ok := GetUserContext(c); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": userCtx.UserID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
	})
	return router
}

func TestOptionalAuth(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)
	router := setupRouter(jwtService)

	t.Run("Valid Token Sets Identity", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken("user-123")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user-123")
	})

	t.Run("No Header Passes Through Anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "user-123")
	})

	t.Run("Malformed Header Is Anonymous Not Rejected", func(t *testing.T) {
		for _, header := range []string{"Bearer", "Basic abc", "Bearer ", "garbage"} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			req.Header.Set("Authorization", header)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code, "header %q", header)
			assert.NotContains(t, w.Body.String(), "user-123")
		}
	})

	t.Run("Invalid Token Is Anonymous", func(t *testing.T) {
		other := jwt.NewService("other-secret", time.Hour)
		token, err := other.GenerateAccessToken("user-123")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "user-123")
	})
}

func TestGetUserContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserContext(c)
	assert.False(t, ok)

	c.Set(UserContextKey, &UserContext{UserID: "user-123"})
	userCtx, ok := GetUserContext(c)
	require.True(t, ok)
	assert.Equal(t, "user-123", userCtx.UserID)
}
