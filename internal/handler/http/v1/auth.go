package v1

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/warzone_monitor/internal/config"
)

// APIKeyAuthMiddleware - middleware для аутентификации по API-ключу
func APIKeyAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			// Проверяем также заголовок Authorization: Bearer
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				apiKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		entry := log.WithFields(logrus.Fields{
			"component": "auth",
			"path":      c.FullPath(),
		})

		if apiKey == "" {
			entry.Warn("API key missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "API key required"})
			return
		}

		if !validAPIKey(cfg.APIKeys, apiKey) {
			entry.Warn("Invalid API key provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid API key"})
			return
		}

		c.Next()
	}
}

func validAPIKey(keys []string, apiKey string) bool {
	for _, key := range keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
			return true
		}
	}
	return false
}
