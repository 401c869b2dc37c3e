package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
)

const (
	UserKey  = "x-user"
	TokenKey = "x-auth-token"
)

// Authenticated resolves the bearer token to a user whose session set
// still carries this exact token, then attaches both to the context.
// Any failure ends the request with 401 before a handler runs.
func Authenticated(svc port.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")

		if bearer == "" {
			unauthorized(c, "Unauthorized request")
			return
		}

		if !strings.HasPrefix(bearer, "Bearer ") {
			unauthorized(c, "Invalid authorization format")
			return
		}

		token := bearer[len("Bearer "):]

		user, err := svc.Authorize(c.Request.Context(), token)

		if err != nil {
			unauthorized(c, "Unauthorized request")
			return
		}

		c.Set(UserKey, user)
		c.Set("x-user-id", user.ID)
		c.Set(TokenKey, token)

		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":   "UNAUTHORIZED",
			"errors": []gin.H{{"field": "auth", "message": message}},
		},
	})

	c.Abort()
}

// CurrentUser returns the user attached by Authenticated.
func CurrentUser(c *gin.Context) *domain.User {
	if value, ok := c.Get(UserKey); ok {
		if user, ok := value.(*domain.User); ok {
			return user
		}
	}

	return nil
}

// CurrentToken returns the raw bearer token of this request.
func CurrentToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}
