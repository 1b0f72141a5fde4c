package util

import (
	"github.com/gin-gonic/gin"

	"github.com/videotube/account-service/internal/domain"
	"github.com/videotube/account-service/pkg/middleware"
)

// GetCurrentUser extracts the sanitized user the auth guard attached to the
// request context.
func GetCurrentUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(middleware.CurrentUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}
