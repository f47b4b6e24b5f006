package middleware

import (
	"kumba_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LastSeenUpdater is implemented by the user repository.
type LastSeenUpdater interface {
	UpdateLastSeen(userID string) error
}

// ActivityMiddleware stamps the authenticated user's last-seen time. Runs
// after AuthMiddleware; failures are ignored, the request proceeds either way.
func ActivityMiddleware(users LastSeenUpdater) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := util.GetUserFromContext(c); claims != nil {
			_ = users.UpdateLastSeen(claims.UserID)
		}
		c.Next()
	}
}
