package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/viaflight/layover-planner/pkg/jwt"
)

// UserContextKey is the key used to store user information in Gin context
const UserContextKey = "user"

// UserContext represents the caller's established identity
type UserContext struct {
	UserID string `json:"user_id"`
}

// OptionalAuth resolves a bearer token into a user identity when one is
// presented. Anonymous requests pass through untouched; handlers that need
// an owner fall back to explicit user_id parameters, matching how the app
// behaved before identity existed. A malformed or expired token is treated
// as anonymous rather than rejected.
func OptionalAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		c.Set(UserContextKey, &UserContext{UserID: claims.UserID})
		c.Next()
	}
}

// GetUserContext retrieves the authenticated identity from the Gin context
func GetUserContext(c *gin.Context) (*UserContext, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return nil, false
	}
	userCtx, ok := value.(*UserContext)
	return userCtx, ok
}
