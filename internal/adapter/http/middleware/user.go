package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gagovictor/task-manager-sub000/pkg/apierrors"
)

const userIDHeader = "X-User-Id"

// UserMiddleware resolves the calling user. Token issuance and verification
// live in the upstream gateway; by the time a request reaches this service
// the authenticated user id travels in a trusted header.
func UserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			lang := GetLang(c)
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgMissingUser, lang),
			)
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if s, ok := userID.(string); ok {
			return s
		}
	}
	return ""
}
