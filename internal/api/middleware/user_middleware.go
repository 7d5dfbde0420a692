package middleware

import (
	"net/http"

	"github.com/Alejandro-Araujo/habitjourney-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var log = logger.NewLogger()

const userIDHeader = "X-User-ID"

// RequireUser resolves the calling user from the X-User-ID header and stores
// it in the request context. Authentication proper happens upstream (gateway);
// this service only needs the identity threaded through.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(userIDHeader)
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user identity header is required"})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(header)
		if err != nil {
			log.Error("Invalid user identity header")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user identity header"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// GetUserID returns the authenticated user's ID from the request context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	return userID.(uuid.UUID), true
}
