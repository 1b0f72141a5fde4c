package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/videotube/account-service/internal/domain"
	"github.com/videotube/account-service/pkg/jwt"
)

// CurrentUserKey is the gin context key the auth guard stores the sanitized
// user under.
const CurrentUserKey = "currentUser"

// UserLookup resolves an authenticated user id to a sanitized user record.
type UserLookup func(id uint) (*domain.User, error)

// AuthMiddleware returns a Gin middleware that extracts the access token from
// the accessToken cookie or the Authorization header, validates it, confirms
// the user still exists, and attaches the sanitized user to the context.
func AuthMiddleware(tokenManager jwt.TokenManager, lookup UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie("accessToken")
		if err != nil || tokenString == "" {
			header := c.GetHeader("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				abortUnauthorized(c, "unauthorized request")
				return
			}
			tokenString = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		if tokenString == "" {
			abortUnauthorized(c, "unauthorized request")
			return
		}
		claims, err := tokenManager.ValidateAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "invalid access token")
			return
		}
		user, err := lookup(claims.UserID)
		if err != nil || user == nil {
			abortUnauthorized(c, "invalid access token")
			return
		}
		c.Set(CurrentUserKey, user.Sanitized())
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"statusCode": http.StatusUnauthorized,
		"message":    msg,
		"success":    false,
	})
}
