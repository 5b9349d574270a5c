package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	auth := APIKeyAuthMiddleware(h.cfg, h.logger)

	incidents := api.Group("/incidents")
	{
		incidents.GET("", h.listIncidents)
		incidents.GET("/geojson", h.incidentsGeoJSON)
		incidents.GET("/:id", h.getIncident)
	}

	api.GET("/stats", h.getStats)

	// Сбор новостей запускается только с API-ключом
	api.POST("/scrape", auth, h.scrape)

	integrations := api.Group("/integrations")
	{
		integrations.GET("", h.listIntegrations)
		integrations.PATCH("/:id", auth, h.toggleIntegration)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
