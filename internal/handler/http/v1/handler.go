package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/warzone_monitor/internal/config"
	"github.com/shenikar/warzone_monitor/internal/service"
)

type Handler struct {
	incidentService service.IncidentService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary Get a list of incidents
// @Description Get all incidents, newest first
// @Tags Incidents
// @Produce json
// @Success 200 {array} IncidentResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	incidents, err := h.incidentService.ListIncidents(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incidents as GeoJSON
// @Description Get all incidents as a GeoJSON FeatureCollection: target points and launch trajectories
// @Tags Incidents
// @Produce json
// @Success 200 {object} map[string]interface{} "GeoJSON FeatureCollection"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/geojson [get]
func (h *Handler) incidentsGeoJSON(c *gin.Context) {
	log := h.logger.WithField("method", "incidentsGeoJSON")

	incidents, err := h.incidentService.ListIncidents(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, IncidentsToFeatureCollection(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID
// @Tags Incidents
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "incident not found"})
			return
		}
		log.WithError(err).Error("Failed to get incident from service")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Get incident statistics
// @Description Get totals of incidents, killed and wounded, number of sources and last scrape time
// @Tags Incidents
// @Produce json
// @Success 200 {object} StatsResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	stats, err := h.incidentService.GetStats(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get stats from service")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelToStatsResponse(stats))
}

// @Summary Trigger a scrape
// @Description Poll all enabled news sources and store new incidents. Requires API key.
// @Tags Scraper
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} ScrapeResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /scrape [post]
func (h *Handler) scrape(c *gin.Context) {
	log := h.logger.WithField("method", "scrape")

	result, err := h.incidentService.Scrape(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to scrape in service")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "scrape failed"})
		return
	}

	c.JSON(http.StatusOK, ScrapeResponse{
		Status:       result.Status,
		NewIncidents: result.NewIncidents,
		Message:      result.Message,
	})
}

// @Summary Get news integrations
// @Description Get all registered news sources with their enabled flags
// @Tags Integrations
// @Produce json
// @Success 200 {array} IntegrationResponse
// @Router /integrations [get]
func (h *Handler) listIntegrations(c *gin.Context) {
	c.JSON(http.StatusOK, ModelsToIntegrationResponses(h.incidentService.ListIntegrations(c.Request.Context())))
}

// @Summary Enable or disable an integration
// @Description Toggle a news source by its ID. Requires API key.
// @Tags Integrations
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Integration ID"
// @Param body body ToggleIntegrationRequest true "Toggle request"
// @Success 200 {object} IntegrationResponse
// @Failure 400 {object} ErrorResponse "Invalid request body or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Integration not found"
// @Router /integrations/{id} [patch]
func (h *Handler) toggleIntegration(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "toggleIntegration").WithField("id", id)

	var input ToggleIntegrationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	integration, err := h.incidentService.SetIntegrationEnabled(c.Request.Context(), id, *input.Enabled)
	if err != nil {
		if errors.Is(err, service.ErrUnknownIntegration) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "integration not found"})
			return
		}
		log.WithError(err).Error("Failed to toggle integration in service")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelToIntegrationResponse(integration))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
