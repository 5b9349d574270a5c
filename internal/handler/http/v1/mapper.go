package v1

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/shenikar/warzone_monitor/internal/models"
)

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	figures := model.NotableFigures
	if figures == nil {
		figures = []string{}
	}
	return &IncidentResponse{
		ID:              model.ID,
		Title:           model.Title,
		Location:        model.Location,
		Latitude:        model.Latitude,
		Longitude:       model.Longitude,
		Date:            model.Date,
		Killed:          model.Killed,
		Wounded:         model.Wounded,
		NotableFigures:  figures,
		Description:     model.Description,
		Source:          model.Source,
		SourceURL:       model.SourceURL,
		Attacker:        model.Attacker,
		OriginLocation:  model.OriginLocation,
		OriginLatitude:  model.OriginLatitude,
		OriginLongitude: model.OriginLongitude,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(incidents []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, 0, len(incidents))
	for _, model := range incidents {
		if model == nil {
			continue
		}
		responses = append(responses, ModelToIncidentResponse(model))
	}
	return responses
}

// ModelToIntegrationResponse преобразует источник в DTO
func ModelToIntegrationResponse(model *models.Integration) *IntegrationResponse {
	return &IntegrationResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Enabled:     model.Enabled,
	}
}

// ModelsToIntegrationResponses преобразует слайс источников в слайс DTO
func ModelsToIntegrationResponses(integrations []*models.Integration) []*IntegrationResponse {
	responses := make([]*IntegrationResponse, 0, len(integrations))
	for _, model := range integrations {
		responses = append(responses, ModelToIntegrationResponse(model))
	}
	return responses
}

// ModelToStatsResponse преобразует статистику в DTO
func ModelToStatsResponse(model *models.Stats) *StatsResponse {
	return &StatsResponse{
		TotalIncidents: model.TotalIncidents,
		TotalKilled:    model.TotalKilled,
		TotalWounded:   model.TotalWounded,
		SourcesCount:   model.SourcesCount,
		LastUpdated:    model.LastUpdated,
	}
}

// IncidentsToFeatureCollection собирает GeoJSON: точка цели для каждого инцидента
// и линия траектории для инцидентов с известной точкой запуска
func IncidentsToFeatureCollection(incidents []*models.Incident) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, inc := range incidents {
		if inc == nil || !inc.HasValidTarget() {
			continue
		}
		target := orb.Point{inc.Longitude, inc.Latitude}

		point := geojson.NewFeature(target)
		point.ID = inc.ID
		point.Properties = geojson.Properties{
			"kind":     "target",
			"title":    inc.Title,
			"location": inc.Location,
			"date":     inc.Date.Format("2006-01-02"),
			"killed":   inc.Killed,
			"wounded":  inc.Wounded,
			"severe":   inc.IsSevere(),
			"source":   inc.Source,
		}
		fc.Append(point)

		lat, lng, ok := inc.Origin()
		if !ok {
			continue
		}
		line := geojson.NewFeature(orb.LineString{{lng, lat}, target})
		line.ID = inc.ID + ":trajectory"
		line.Properties = geojson.Properties{
			"kind":            "trajectory",
			"incident_id":     inc.ID,
			"attacker":        inc.Attacker,
			"origin_location": inc.OriginLocation,
		}
		fc.Append(line)
	}
	return fc
}
